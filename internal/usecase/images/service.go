package images

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/domain"
)

type imageRuntime interface {
	ListImages(ctx context.Context) ([]string, error)
	PullImage(ctx context.Context, image string) error
	SaveImages(ctx context.Context, images []string, dest string) error
	LoadImages(ctx context.Context, src string) ([]string, error)
}

// Service fetches, verifies, saves and loads image sets.
type Service struct {
	runtime imageRuntime
	log     *log.Logger
}

// NewService creates a new images service.
func NewService(rt imageRuntime, logger *log.Logger) *Service {
	return &Service{runtime: rt, log: logger.WithPrefix("images")}
}

// Present enumerates the images on the host. An enumeration failure is
// logged and reported as an empty set.
func (s *Service) Present(ctx context.Context) domain.ImageSet {
	tags, err := s.runtime.ListImages(ctx)
	if err != nil {
		s.log.Warn("could not list local images; treating host as empty", "err", err)
		return domain.NewImageSet()
	}
	return domain.NewImageSetFromStrings(tags)
}

// Ensure makes every desired image available locally, pulling whatever the
// host does not already hold. It returns desired unchanged.
func (s *Service) Ensure(ctx context.Context, desired domain.ImageSet) (domain.ImageSet, error) {
	present := s.Present(ctx)
	s.log.Info("ensuring image set", "desired", len(desired), "present", len(present))

	if err := s.pullMissing(ctx, desired, present); err != nil {
		return nil, err
	}
	return domain.NewImageSet(desired.Sorted()...), nil
}

// FetchVerify reconciles desired against the host and makes sure every
// reconciled image is available locally: present images are verified,
// missing ones are pulled. It returns the reconciled set.
func (s *Service) FetchVerify(ctx context.Context, desired domain.ImageSet) (domain.ImageSet, error) {
	present := s.Present(ctx)
	set := Reconcile(desired, present)

	s.log.Info("image set reconciled",
		"desired", len(desired),
		"present", len(present),
		"selected", len(set),
	)

	if err := s.pullMissing(ctx, set, present); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *Service) pullMissing(ctx context.Context, set, present domain.ImageSet) error {
	for _, ref := range set.Sorted() {
		if present.Contains(ref) {
			s.log.Debug("image verified", "image", ref)
			continue
		}
		s.log.Info("pulling image", "image", ref)
		if err := s.runtime.PullImage(ctx, string(ref)); err != nil {
			return fmt.Errorf("failed to pull %s: %w", ref, err)
		}
	}
	return nil
}

// Save writes set into a single bundle file at dest.
func (s *Service) Save(ctx context.Context, set domain.ImageSet, dest string) error {
	s.log.Info("saving image bundle", "images", len(set), "bundle", dest)
	if err := s.runtime.SaveImages(ctx, set.Strings(), dest); err != nil {
		return fmt.Errorf("failed to save image bundle: %w", err)
	}
	return nil
}

// Load loads a bundle into the runtime and returns the loaded references.
func (s *Service) Load(ctx context.Context, src string) ([]string, error) {
	s.log.Info("loading image bundle", "bundle", src)
	loaded, err := s.runtime.LoadImages(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to load image bundle: %w", err)
	}
	s.log.Info("image bundle loaded", "images", len(loaded))
	return loaded, nil
}
