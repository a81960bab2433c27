// Package install runs the bulk installation containers into a project.
package install

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/usecase/collection"
	"github.com/bnema/senzup/internal/usecase/project"
)

// MountDir binds a project subdirectory into an installation container.
type MountDir struct {
	Dir      string
	Target   string
	ReadOnly bool
}

// Step is one installation container run.
type Step struct {
	Name string
	// Repository selects the step's image from the resolved image list.
	Repository string
	Cmd        []string
	Env        []string
	Mounts     []MountDir
	User       string
}

// DefaultSteps installs the binaries, then initialises configuration and
// the demo database.
func DefaultSteps() []Step {
	return []Step{
		{
			Name:       "binaries",
			Repository: "senzing/installer",
			Env:        []string{"SENZING_ACCEPT_EULA=" + domain.AcceptEULAValue},
			Mounts: []MountDir{
				{Dir: domain.DirData, Target: "/opt/local-senzing/data"},
				{Dir: domain.DirG2, Target: "/opt/local-senzing/g2"},
			},
		},
		{
			Name:       "init",
			Repository: "senzing/init-container",
			User:       "0",
			Env:        []string{"SENZING_DATABASE_URL=sqlite3://na:na@/var/opt/senzing/sqlite/G2C.db"},
			Mounts: []MountDir{
				{Dir: domain.DirData, Target: "/opt/senzing/data"},
				{Dir: domain.DirDockerEtc, Target: "/etc/opt/senzing"},
				{Dir: domain.DirG2, Target: "/opt/senzing/g2"},
				{Dir: domain.DirVar, Target: "/var/opt/senzing"},
			},
		},
	}
}

type runner interface {
	RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error)
}

type backupStore interface {
	Backup(p domain.Project, dirs []string) (*project.Backup, error)
}

// Installer runs Steps against a project.
type Installer struct {
	runtime runner
	store   backupStore
	steps   []Step
	log     *log.Logger
}

// NewInstaller creates an installer. Nil steps means DefaultSteps.
func NewInstaller(rt runner, store backupStore, steps []Step, logger *log.Logger) *Installer {
	if steps == nil {
		steps = DefaultSteps()
	}
	return &Installer{
		runtime: rt,
		store:   store,
		steps:   steps,
		log:     logger.WithPrefix("install"),
	}
}

// Install runs every step whose image is in images. With update set, the
// existing g2/ and data/ are moved aside first and only deleted once the
// installation marker is present; any failure restores them.
func (i *Installer) Install(ctx context.Context, p domain.Project, images []domain.ImageReference, update bool) (err error) {
	var backup *project.Backup
	if update {
		backup, err = i.store.Backup(p, domain.UpgradeDirs)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				i.log.Warn("installation failed; restoring previous installation")
				if restoreErr := backup.Restore(); restoreErr != nil {
					i.log.Error("restore failed", "err", restoreErr, "backups", backup.Paths())
				}
				return
			}
			if discardErr := backup.Discard(); discardErr != nil {
				i.log.Warn("could not remove backups", "err", discardErr)
			}
		}()
	}

	for _, dir := range domain.UpgradeDirs {
		if err := os.MkdirAll(p.Dir(dir), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	for _, step := range i.steps {
		if err := i.runStep(ctx, p, step, images); err != nil {
			return err
		}
	}

	marker := p.Dir(domain.DirG2, domain.FileInstallMarker)
	if _, statErr := os.Stat(marker); statErr != nil {
		return fmt.Errorf("%w: %s not found", domain.ErrInstallIncomplete, marker)
	}

	i.log.Info("installation complete", "project", p.Name())
	return nil
}

func (i *Installer) runStep(ctx context.Context, p domain.Project, step Step, images []domain.ImageReference) error {
	image, ok := collection.FindByRepository(images, step.Repository)
	if !ok {
		i.log.Warn("no image for installation step; skipping", "step", step.Name, "repository", step.Repository)
		return nil
	}

	mounts := make([]domain.Mount, 0, len(step.Mounts))
	for _, m := range step.Mounts {
		mounts = append(mounts, domain.Mount{Source: p.Dir(m.Dir), Target: m.Target, ReadOnly: m.ReadOnly})
	}

	i.log.Info("running installation step", "step", step.Name, "image", image)
	result, err := i.runtime.RunContainer(ctx, domain.RunSpec{
		Name:   fmt.Sprintf("senzup-%s-%s", p.Name(), step.Name),
		Image:  image,
		Cmd:    step.Cmd,
		Env:    step.Env,
		Mounts: mounts,
		User:   step.User,
		Remove: true,
	})
	if err != nil {
		return fmt.Errorf("installation step %s: %w", step.Name, err)
	}
	if err := domain.CheckExitCode(step.Name, result.ExitCode, result.Output); err != nil {
		return err
	}
	if result.ExitCode == domain.BenignExitCode {
		i.log.Debug("ignoring benign exit code", "step", step.Name, "code", result.ExitCode)
	}
	return nil
}
