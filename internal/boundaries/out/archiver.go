package out

import "context"

// Archiver creates and extracts compressed project archives.
// Exclude patterns are globs matched against slash-separated paths relative
// to the archive root, e.g. "*/docker-bin/senzup".
type Archiver interface {
	// Create writes srcDir into dest with srcDir's base name as the top-level entry.
	Create(ctx context.Context, srcDir, dest string, excludes []string) error
	// Extract unpacks archive under destDir.
	Extract(ctx context.Context, archive, destDir string, excludes []string) error
	// FirstEntry returns the name of the first entry in archive.
	FirstEntry(ctx context.Context, archive string) (string, error)
}
