// Package packaging turns a project into a relocatable archive.
package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/boundaries/out"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/pkg/validation"
)

type imageSaver interface {
	Save(ctx context.Context, set domain.ImageSet, dest string) error
}

// Options configure archive naming and content.
type Options struct {
	// Prefix starts every archive and bundle file name.
	Prefix string
	// Excludes are glob patterns of archive paths left out of the archive.
	Excludes []string
}

// Archiver saves a project's images into its tree and archives the tree.
type Archiver struct {
	images   imageSaver
	archiver out.Archiver
	opts     Options
	log      *log.Logger
	now      func() time.Time
}

// NewArchiver creates a package archiver.
func NewArchiver(images imageSaver, archiver out.Archiver, opts Options, logger *log.Logger) *Archiver {
	if opts.Prefix == "" {
		opts.Prefix = "senzup"
	}
	return &Archiver{
		images:   images,
		archiver: archiver,
		opts:     opts,
		log:      logger.WithPrefix("package"),
		now:      time.Now,
	}
}

// Package writes the image bundle and image list into the project's
// var/docker_save/ and archives the whole tree into outputDir.
func (a *Archiver) Package(ctx context.Context, p domain.Project, set domain.ImageSet, outputDir string) (*domain.PackageArchive, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no images to package", domain.ErrInvalidArgument)
	}

	outputDir, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if validation.WithinRoot(p.Path, outputDir) {
		return nil, fmt.Errorf("%w: output directory %s is inside the project", domain.ErrInvalidArgument, outputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	at := a.now().UTC()
	saveDir := p.Dir(domain.DirDockerSave)
	if err := os.MkdirAll(saveDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", domain.DirDockerSave, err)
	}
	if err := removeStaleBundles(saveDir); err != nil {
		return nil, err
	}

	bundle := filepath.Join(saveDir, domain.BundleFileName(a.opts.Prefix, p.Name(), at))
	if err := a.images.Save(ctx, set, bundle); err != nil {
		return nil, err
	}

	list := strings.Join(set.Strings(), "\n") + "\n"
	if err := os.WriteFile(filepath.Join(saveDir, domain.FileImageList), []byte(list), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image list: %w", err)
	}

	dest := filepath.Join(outputDir, domain.ArchiveFileName(a.opts.Prefix, p.Name(), at))
	a.log.Info("archiving project", "project", p.Name(), "archive", dest)
	if err := a.archiver.Create(ctx, p.Path, dest, a.opts.Excludes); err != nil {
		return nil, fmt.Errorf("failed to archive project: %w", err)
	}

	return &domain.PackageArchive{
		Path:       dest,
		BundlePath: bundle,
		Images:     set.Sorted(),
		CreatedAt:  at,
	}, nil
}

func removeStaleBundles(dir string) error {
	stale, err := filepath.Glob(filepath.Join(dir, "*-images.tar"))
	if err != nil {
		return err
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove stale bundle %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
