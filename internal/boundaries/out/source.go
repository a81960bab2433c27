package out

import "context"

// SourceFetcher retrieves a remote or local definition document.
// Implementations fall back to a cached copy when the live fetch fails and
// report domain.ErrManifestUnavailable when neither exists.
type SourceFetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}
