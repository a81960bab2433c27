// Package archive implements the project archiver with gzip-compressed tar.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"
	"github.com/klauspost/compress/gzip"

	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/pkg/validation"
)

// TGZ creates and extracts .tgz archives.
type TGZ struct {
	log *log.Logger
}

// NewTGZ creates a tgz archiver.
func NewTGZ(logger *log.Logger) *TGZ {
	return &TGZ{log: logger.WithPrefix("archive")}
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: invalid exclude pattern %q: %v", domain.ErrInvalidArgument, pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func excluded(globs []glob.Glob, name string) bool {
	for _, g := range globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Create archives srcDir into dest. Entries are named "<base>/<path>" where
// base is srcDir's base name, so the first entry is always "<base>/".
func (a *TGZ) Create(ctx context.Context, srcDir, dest string, excludes []string) (err error) {
	globs, err := compileExcludes(excludes)
	if err != nil {
		return err
	}

	srcDir = filepath.Clean(srcDir)
	base := filepath.Base(srcDir)

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".archive-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	gz, err := gzip.NewWriterLevel(tmp, gzip.DefaultCompression)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(gz)

	var files int
	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		name := path.Join(base, filepath.ToSlash(rel))
		if rel != "." && excluded(globs, name) {
			a.log.Debug("excluded from archive", "path", name)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if err := writeEntry(tw, p, name, info); err != nil {
			return fmt.Errorf("failed to archive %s: %w", name, err)
		}
		files++
		return nil
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return err
	}

	a.log.Info("archive written", "archive", dest, "entries", files)
	return nil
}

func writeEntry(tw *tar.Writer, p, name string, info fs.FileInfo) error {
	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(p)
		if err != nil {
			return err
		}
		link = target
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

func openTar(archive string) (*tar.Reader, func() error, error) {
	f, err := os.Open(archive)
	if err != nil {
		return nil, nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s is not a gzip archive: %w", archive, err)
	}
	closer := func() error {
		return errors.Join(gz.Close(), f.Close())
	}
	return tar.NewReader(gz), closer, nil
}

// FirstEntry returns the name of the first entry of archive.
func (a *TGZ) FirstEntry(_ context.Context, archive string) (string, error) {
	tr, closeFn, err := openTar(archive)
	if err != nil {
		return "", err
	}
	defer closeFn()

	hdr, err := tr.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: archive %s is empty", domain.ErrInvalidArgument, archive)
		}
		return "", err
	}
	return hdr.Name, nil
}

// Extract unpacks archive under destDir. Entries escaping destDir are
// rejected.
func (a *TGZ) Extract(ctx context.Context, archive, destDir string, excludes []string) error {
	globs, err := compileExcludes(excludes)
	if err != nil {
		return err
	}

	tr, closeFn, err := openTar(archive)
	if err != nil {
		return err
	}
	defer closeFn()

	destDir = filepath.Clean(destDir)
	var files int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read archive: %w", err)
		}

		name, err := validation.CleanEntryName(hdr.Name)
		if errors.Is(err, validation.ErrRootNotAllowed) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: archive entry %q: %v", domain.ErrInvalidArgument, hdr.Name, err)
		}
		if excluded(globs, name) {
			a.log.Debug("skipped on extract", "path", name)
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))
		if err := validation.ValidatePathWithinRoot(destDir, target); err != nil {
			return fmt.Errorf("%w: archive entry %q: %v", domain.ErrInvalidArgument, hdr.Name, err)
		}

		if err := extractEntry(tr, hdr, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", name, err)
		}
		files++
	}

	a.log.Info("archive extracted", "destination", destDir, "entries", files)
	return nil
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, target string) error {
	mode := hdr.FileInfo().Mode().Perm()
	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, mode|0o700)
	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, tr); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case tar.TypeSymlink:
		if filepath.IsAbs(hdr.Linkname) {
			return fmt.Errorf("%w: absolute symlink %s", domain.ErrInvalidArgument, hdr.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.Symlink(hdr.Linkname, target)
	default:
		// Other entry types are skipped.
		return nil
	}
}
