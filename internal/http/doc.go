// Package http provides the rate-limited, multi-source request layer used to
// talk to the MangaDex API and its image servers.
//
// The package is made of three pieces:
//   - Limiter: a per-destination gate allowing one request per interval
//   - Registry: aliases ("main", "cdn", "content", or a discovered image
//     server URL) mapped to destinations with their own limiter
//   - Client: GET requests against an alias, with Host header override,
//     browser User-Agent and bounded 429 backoff
//
// # Basic Usage
//
//	registry := http.DefaultRegistry()
//	client := http.NewClient(registry)
//
//	// Raw bytes
//	resp, err := client.Get(ctx, "content", "/covers/"+mangaID+"/"+fileName)
//
//	// JSON, keeping the raw payload if decoding fails
//	res, err := http.GetJSON[dto.AtHomeResponse](ctx, client, "cdn", "/at-home/server/"+chapterID)
//
// # Dynamic Destinations
//
// Image servers are discovered at runtime. Register them idempotently:
//
//	_ = registry.RegisterOrIgnore(baseURL, baseURL, 100*time.Millisecond)
//
// # Errors
//
// Failures can be classified with errors.Is against ErrConfiguration,
// ErrTransport, ErrRateLimited, ErrRemoteAPI and ErrUnexpectedResponse.
package http
