package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// CoverOptions selects the post-processing applied to downloaded covers.
type CoverOptions struct {
	// Resize shrinks covers larger than MaxSize on either edge.
	Resize  bool
	MaxSize int

	// ConvertToJPEG re-encodes covers as JPEG.
	ConvertToJPEG bool
}

// Enabled reports whether any processing is requested.
func (o CoverOptions) Enabled() bool {
	return (o.Resize && o.MaxSize > 0) || o.ConvertToJPEG
}

// ImageService provides image processing operations for cover art.
//
// MangaDex serves covers as JPEG, PNG or WebP. ImageService is used to:
//   - Resize covers to fit maximum dimensions
//   - Convert covers to JPEG format
//
// Example usage:
//
//	svc := NewImageService()
//	resized, _ := svc.ResizeImage(ctx, coverData, 1000, 1000)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. If the image is already smaller than the
// maximum dimensions, it will still be processed (re-encoded as JPEG).
//
// Returns the resized image as JPEG-encoded bytes.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1500x1000 cover becomes 1000x667
//	resized, err := svc.ResizeImage(ctx, imageData, 1000, 1000)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ConvertToJPEG converts an image to JPEG format with 90% quality.
//
// If the input is already JPEG, it will be re-encoded.
//
// Example:
//
//	webpData, _ := download(cover)
//	jpegData, err := svc.ConvertToJPEG(ctx, webpData)
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ProcessCover applies opts to a downloaded cover. The returned extension is
// ext unchanged when nothing was done, ".jpg" otherwise.
func (s *ImageService) ProcessCover(ctx context.Context, data []byte, ext string, opts CoverOptions) ([]byte, string, error) {
	switch {
	case opts.Resize && opts.MaxSize > 0:
		out, err := s.ResizeImage(ctx, data, opts.MaxSize, opts.MaxSize)
		if err != nil {
			return nil, "", err
		}
		return out, ".jpg", nil
	case opts.ConvertToJPEG:
		out, err := s.ConvertToJPEG(ctx, data)
		if err != nil {
			return nil, "", err
		}
		return out, ".jpg", nil
	default:
		return data, ext, nil
	}
}
