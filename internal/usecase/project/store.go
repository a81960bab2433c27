// Package project implements the project directory store.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/domain"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	backupTimestampLayout = "20060102150405"
)

// Store inspects, validates and creates project directories.
type Store struct {
	log *log.Logger
	now func() time.Time
	cwd func() (string, error)
}

// NewStore creates a project store.
func NewStore(logger *log.Logger) *Store {
	return &Store{
		log: logger.WithPrefix("project"),
		now: time.Now,
		cwd: os.Getwd,
	}
}

// ResolveCanonicalPath returns the canonical absolute path for input.
// Existing directories resolve through symlinks; anything else resolves to
// the base name of input under the current working directory.
func (s *Store) ResolveCanonicalPath(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%w: project directory is required", domain.ErrInvalidArgument)
	}

	if info, err := os.Stat(input); err == nil && info.IsDir() {
		resolved, err := filepath.EvalSymlinks(input)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", input, err)
		}
		return filepath.Abs(resolved)
	}

	cwd, err := s.cwd()
	if err != nil {
		return "", fmt.Errorf("failed to determine working directory: %w", err)
	}
	base := filepath.Base(filepath.Clean(input))
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: invalid project directory %q", domain.ErrInvalidArgument, input)
	}
	return filepath.Join(cwd, base), nil
}

// Open resolves input and reports the project's current state.
func (s *Store) Open(input string) (domain.Project, error) {
	path, err := s.ResolveCanonicalPath(input)
	if err != nil {
		return domain.Project{}, err
	}
	return domain.Project{Path: path, State: s.State(path)}, nil
}

// State reports whether path is absent, incomplete or a valid project.
func (s *Store) State(path string) domain.ProjectState {
	if _, err := os.Stat(path); err != nil {
		return domain.ProjectAbsent
	}
	if s.ValidateStructure(path) != nil {
		return domain.ProjectIncomplete
	}
	return domain.ProjectValid
}

// ValidateStructure checks that every required subdirectory exists.
func (s *Store) ValidateStructure(path string) error {
	var missing []string
	for _, dir := range domain.RequiredDirs {
		info, err := os.Stat(filepath.Join(path, dir))
		if err != nil || !info.IsDir() {
			missing = append(missing, dir)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s is missing %s", domain.ErrInvalidProject, path, strings.Join(missing, ", "))
	}
	return nil
}

// CreateSkeleton creates the project layout and its metadata markers.
// Existing directories and markers are kept.
func (s *Store) CreateSkeleton(p domain.Project, version string) error {
	for _, dir := range domain.SkeletonDirs {
		if err := os.MkdirAll(p.Dir(dir), dirPerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	markers := map[string]string{
		domain.FileProjectName:    p.Name(),
		domain.FileProjectVersion: version,
	}
	for name, content := range markers {
		path := p.MetadataFile(name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content+"\n"), filePerm); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	s.log.Info("project skeleton ready", "path", p.Path)
	return nil
}

// RecordVersion overwrites the project version marker.
func (s *Store) RecordVersion(p domain.Project, version string) error {
	if err := os.WriteFile(p.MetadataFile(domain.FileProjectVersion), []byte(version+"\n"), filePerm); err != nil {
		return fmt.Errorf("failed to record project version: %w", err)
	}
	return nil
}

// CheckVersion warns when the project was written by a newer orchestrator.
// It reports whether a warning was emitted. Unparsable versions are skipped.
func (s *Store) CheckVersion(p domain.Project, running string) bool {
	raw, err := os.ReadFile(p.MetadataFile(domain.FileProjectVersion))
	if err != nil {
		return false
	}
	recorded, err := semver.NewVersion(strings.TrimSpace(string(raw)))
	if err != nil {
		s.log.Debug("skipping version check", "recorded", strings.TrimSpace(string(raw)))
		return false
	}
	current, err := semver.NewVersion(running)
	if err != nil {
		s.log.Debug("skipping version check", "running", running)
		return false
	}
	if recorded.GreaterThan(current) {
		s.log.Warn("project was written by a newer senzup",
			"project_version", recorded.String(),
			"running_version", current.String(),
		)
		return true
	}
	return false
}

type backupEntry struct {
	original string
	backup   string
}

// Backup holds renamed directories until the operation that replaced them is
// confirmed (Discard) or rolled back (Restore).
type Backup struct {
	entries []backupEntry
	log     *log.Logger
}

// Backup renames each existing dir of p to "<dir>.backup-<timestamp>".
// Missing dirs are skipped. On error, already renamed dirs are put back.
func (s *Store) Backup(p domain.Project, dirs []string) (*Backup, error) {
	stamp := s.now().UTC().Format(backupTimestampLayout)
	b := &Backup{log: s.log}

	for _, dir := range dirs {
		original := p.Dir(dir)
		if _, err := os.Stat(original); errors.Is(err, os.ErrNotExist) {
			continue
		}
		backup := original + ".backup-" + stamp
		if err := os.Rename(original, backup); err != nil {
			if restoreErr := b.Restore(); restoreErr != nil {
				s.log.Error("failed to roll back partial backup", "err", restoreErr)
			}
			return nil, fmt.Errorf("failed to back up %s: %w", dir, err)
		}
		s.log.Info("backed up directory", "dir", dir, "backup", filepath.Base(backup))
		b.entries = append(b.entries, backupEntry{original: original, backup: backup})
	}
	return b, nil
}

// Paths returns the backup directories in creation order.
func (b *Backup) Paths() []string {
	paths := make([]string, 0, len(b.entries))
	for _, e := range b.entries {
		paths = append(paths, e.backup)
	}
	return paths
}

// Restore removes whatever replaced the original dirs and moves the backups
// back into place.
func (b *Backup) Restore() error {
	var errs []error
	for i := len(b.entries) - 1; i >= 0; i-- {
		e := b.entries[i]
		if err := os.RemoveAll(e.original); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove partial %s: %w", e.original, err))
			continue
		}
		if err := os.Rename(e.backup, e.original); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", e.original, err))
			continue
		}
		b.log.Info("restored directory", "dir", filepath.Base(e.original))
	}
	b.entries = nil
	return errors.Join(errs...)
}

// Discard deletes the backups.
func (b *Backup) Discard() error {
	var errs []error
	for _, e := range b.entries {
		if err := os.RemoveAll(e.backup); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove backup %s: %w", e.backup, err))
		}
	}
	b.entries = nil
	return errors.Join(errs...)
}
