package download

import (
	"errors"
	"fmt"
)

var (
	// ErrIntegrity reports downloaded bytes that failed verification.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrHashMismatch is returned when an image does not hash to the value
	// embedded in its filename. Nothing is written in that case.
	ErrHashMismatch = fmt.Errorf("%w: downloaded image has different hash to supplied one", ErrIntegrity)

	// ErrContentType reports a response whose type cannot name a file
	// extension.
	ErrContentType = errors.New("content type error")

	// ErrNoContentType is returned when the response has no Content-Type.
	ErrNoContentType = fmt.Errorf("%w: image has no content type", ErrContentType)

	// ErrUnknownMimeType is returned when the Content-Type maps to no known
	// extension.
	ErrUnknownMimeType = fmt.Errorf("%w: unknown image mime type", ErrContentType)
)
