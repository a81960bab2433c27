// Package deploy relocates a packaged project onto a new host.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/boundaries/out"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/pkg/validation"
)

type imageLoader interface {
	Load(ctx context.Context, src string) ([]string, error)
}

// Request describes one deployment.
type Request struct {
	// Archive is the packaged project.
	Archive string
	// Target is the canonical directory the project is extracted under.
	Target string
	// Excludes are archive paths not extracted.
	Excludes []string
}

// Result describes a deployed project.
type Result struct {
	Project domain.Project
	Address Address
	// Images are the references read from the bundled image list.
	Images []domain.ImageReference
	Loaded []string
}

// Relocator extracts archives, loads their images and rewrites the
// host-specific fields of the environment file.
type Relocator struct {
	archiver out.Archiver
	images   imageLoader
	env      out.EnvStore
	probes   []out.AddressProbe
	log      *log.Logger
}

// NewRelocator creates a deploy relocator. Probes run in the given order.
func NewRelocator(archiver out.Archiver, images imageLoader, env out.EnvStore, probes []out.AddressProbe, logger *log.Logger) *Relocator {
	return &Relocator{
		archiver: archiver,
		images:   images,
		env:      env,
		probes:   probes,
		log:      logger.WithPrefix("deploy"),
	}
}

// Deploy extracts req.Archive into a fresh subdirectory of req.Target named
// after the archive's top-level entry.
func (r *Relocator) Deploy(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Archive) == "" {
		return nil, fmt.Errorf("%w: an input project archive is required for deploy", domain.ErrMissingSource)
	}
	if info, err := os.Stat(req.Archive); err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a readable archive", domain.ErrMissingSource, req.Archive)
	}

	first, err := r.archiver.FirstEntry(ctx, req.Archive)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	top := topLevel(first)
	if top == "" {
		return nil, fmt.Errorf("%w: archive %s has no top-level directory", domain.ErrInvalidArgument, req.Archive)
	}

	p := domain.Project{Path: filepath.Join(req.Target, top), State: domain.ProjectAbsent}
	if _, err := os.Stat(p.Path); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDestinationExists, p.Path)
	}

	if err := os.MkdirAll(req.Target, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", req.Target, err)
	}
	r.log.Info("extracting archive", "archive", req.Archive, "destination", p.Path)
	if err := r.archiver.Extract(ctx, req.Archive, req.Target, req.Excludes); err != nil {
		return nil, fmt.Errorf("failed to extract archive: %w", err)
	}
	p.State = domain.ProjectValid

	result := &Result{Project: p}

	result.Images, err = readImageList(p.Dir(domain.DirDockerSave, domain.FileImageList))
	if err != nil {
		r.log.Warn("bundled image list unreadable", "err", err)
	}

	bundles, err := filepath.Glob(p.Dir(domain.DirDockerSave, "*-images.tar"))
	if err != nil {
		return nil, err
	}
	if len(bundles) == 0 {
		return nil, fmt.Errorf("%w: no bundle under %s", domain.ErrImageBundleMissing, domain.DirDockerSave)
	}
	for _, bundle := range bundles {
		loaded, err := r.images.Load(ctx, bundle)
		if err != nil {
			return nil, err
		}
		result.Loaded = append(result.Loaded, loaded...)
	}

	result.Address = DetectAddress(ctx, r.probes, r.log)
	if err := r.rewriteEnvironment(p, result.Address); err != nil {
		return nil, err
	}

	return result, nil
}

// rewriteEnvironment points the environment file at the new location and
// host address. Other entries are kept.
func (r *Relocator) rewriteEnvironment(p domain.Project, addr Address) error {
	envPath := p.EnvironmentPath()
	env, err := r.env.Read(envPath)
	if errors.Is(err, os.ErrNotExist) {
		r.log.Warn("environment file missing; creating it", "path", envPath)
		env = map[string]string{}
	} else if err != nil {
		return fmt.Errorf("failed to read environment file: %w", err)
	}

	env[domain.EnvProjectDir] = p.Path
	env[domain.EnvProjectName] = p.Name()
	env[domain.EnvHostIPAddr] = addr.Value

	if err := r.env.Write(envPath, env); err != nil {
		return fmt.Errorf("failed to write environment file: %w", err)
	}
	r.log.Info("environment file rewritten", "path", envPath, domain.EnvProjectDir, p.Path, domain.EnvHostIPAddr, addr.Value)
	return nil
}

// topLevel returns the first path element of an archive entry, or "" when
// the entry is unusable as a project directory name.
func topLevel(entry string) string {
	name, err := validation.CleanEntryName(filepath.ToSlash(entry))
	if err != nil {
		return ""
	}
	top, _, _ := strings.Cut(name, "/")
	return top
}

func readImageList(path string) ([]domain.ImageReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var refs []domain.ImageReference
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
			refs = append(refs, domain.ImageReference(line))
		}
	}
	return refs, nil
}
