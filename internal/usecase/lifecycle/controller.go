package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/boundaries/out"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/usecase/deploy"
	"github.com/bnema/senzup/internal/usecase/images"
	"github.com/bnema/senzup/internal/usecase/install"
	"github.com/bnema/senzup/internal/usecase/packaging"
	"github.com/bnema/senzup/internal/usecase/project"
)

const defaultExecutableName = "senzup"

// Options configure the controller.
type Options struct {
	// Version is the running orchestrator version.
	Version string
	// EULAText is shown when the EULA must be accepted.
	EULAText string
	// EULAPreaccepted skips the EULA prompt.
	EULAPreaccepted bool
	// Executable is copied into docker-bin/ on create. Empty skips the copy.
	Executable string
	// ExecutableName is the file name the copy gets inside docker-bin/,
	// whatever the running binary is called. Defaults to "senzup".
	ExecutableName string
	// Network is recorded in the environment file.
	Network string
	// DeployExcludes are archive paths not extracted on deploy.
	DeployExcludes []string
}

// Deps are the use cases and ports a controller drives.
type Deps struct {
	Store     *project.Store
	Catalog   *Catalog
	Images    *images.Service
	Installer *install.Installer
	Packager  *packaging.Archiver
	Relocator *deploy.Relocator
	Demo      *deploy.Demo
	Prompter  out.Prompter
	Env       out.EnvStore
	Probes    []out.AddressProbe
	// History may be nil.
	History out.HistoryLog
}

// Controller drives a project through create, package and deploy.
type Controller struct {
	deps Deps
	opts Options
	log  *log.Logger
}

// NewController creates a lifecycle controller.
func NewController(deps Deps, opts Options, logger *log.Logger) *Controller {
	return &Controller{deps: deps, opts: opts, log: logger}
}

// run is the mutable state of one invocation.
type run struct {
	req     domain.RunRequest
	plan    domain.Plan
	flags   domain.RunFlags
	project domain.Project
	report  *domain.RunReport
}

// Run executes req. Errors carry the stage they came from.
func (c *Controller) Run(ctx context.Context, req domain.RunRequest) (*domain.RunReport, error) {
	p, err := c.deps.Store.Open(req.ProjectDir)
	if err != nil {
		return nil, domain.AtStage(domain.StagePreflight, err)
	}

	r := &run{
		req:     req,
		plan:    BuildPlan(req.Action, p.State, req.Collections),
		project: p,
	}
	r.flags.EULAAccepted = c.opts.EULAPreaccepted
	r.report = &domain.RunReport{Plan: r.plan, Project: p}

	c.log.Info("starting run",
		"action", req.Action,
		"project", p.Path,
		"state", p.State,
		"plan", r.plan.Steps,
		"collections", r.plan.Collections,
	)

	for _, step := range r.plan.Steps {
		if err := ctx.Err(); err != nil {
			return r.report, err
		}
		switch step {
		case domain.StepCreate:
			err = c.create(ctx, r)
		case domain.StepPackage:
			err = c.pack(ctx, r)
		case domain.StepDeploy:
			err = c.deploy(ctx, r)
		}
		r.report.Flags = r.flags
		r.report.Project = r.project
		if err != nil {
			return r.report, err
		}
	}

	if c.deps.History != nil {
		r.report.HistoryLog = c.deps.History.Path()
	}
	return r.report, nil
}

func (c *Controller) create(ctx context.Context, r *run) error {
	p := r.project
	logger := c.log.With("stage", domain.StepCreate)

	if !p.State.Exists() {
		r.flags.FirstTimeInstall = true
		logger.Info("new project", "path", p.Path)
	} else if r.req.Action == domain.ActionCreate {
		c.deps.Store.CheckVersion(p, c.opts.Version)
		update, err := c.deps.Prompter.Confirm(
			fmt.Sprintf("Project %s already exists. Install updates?", p.Name()), false)
		if err != nil {
			return domain.AtStage(domain.StageCreate, err)
		}
		r.flags.PerformUpdates = update
		logger.Info("existing project", "path", p.Path, "perform_updates", update)
	}

	if r.flags.EULARequired(r.req.Action) {
		if err := c.ensureEULA(r); err != nil {
			return domain.AtStage(domain.StageEULA, err)
		}
	}

	if err := c.deps.Store.CreateSkeleton(p, c.opts.Version); err != nil {
		return domain.AtStage(domain.StageCreate, err)
	}
	c.promoteHistory(p)

	if r.flags.FirstTimeInstall || r.flags.PerformUpdates {
		// The install needs every image of the requested collections, not
		// just the ones the host happens to hold already.
		set, err := c.resolveAndFetch(ctx, r.plan.Collections, c.deps.Images.Ensure)
		if err != nil {
			return err
		}
		r.report.Images = set.Sorted()

		if err := c.deps.Installer.Install(ctx, p, set.Sorted(), r.flags.PerformUpdates); err != nil {
			return domain.AtStage(domain.StageInstall, err)
		}
		if err := c.deps.Store.RecordVersion(p, c.opts.Version); err != nil {
			return domain.AtStage(domain.StageInstall, err)
		}
	} else {
		logger.Info("no updates requested; images and binaries left as they are")
	}

	if err := c.writeEnvironment(ctx, p, r.plan.Collections); err != nil {
		return domain.AtStage(domain.StageCreate, err)
	}
	c.copyExecutable(p)

	r.project.State = domain.ProjectValid
	return nil
}

func (c *Controller) pack(ctx context.Context, r *run) error {
	p := r.project
	if !r.plan.Composed() {
		if err := c.deps.Store.ValidateStructure(p.Path); err != nil {
			return domain.AtStage(domain.StagePackage, err)
		}
		c.promoteHistory(p)
	}

	set, err := c.resolveAndFetch(ctx, r.plan.Collections, c.deps.Images.FetchVerify)
	if err != nil {
		return err
	}
	r.report.Images = set.Sorted()

	outputDir := r.req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(p.Path)
	}
	archive, err := c.deps.Packager.Package(ctx, p, set, outputDir)
	if err != nil {
		return domain.AtStage(domain.StagePackage, err)
	}
	r.report.Archive = archive
	c.log.Info("project packaged", "archive", archive.Path, "images", len(archive.Images))
	return nil
}

func (c *Controller) deploy(ctx context.Context, r *run) error {
	res, err := c.deps.Relocator.Deploy(ctx, deploy.Request{
		Archive:  r.req.InputProject,
		Target:   r.project.Path,
		Excludes: c.opts.DeployExcludes,
	})
	if err != nil {
		return domain.AtStage(domain.StageDeploy, err)
	}

	r.project = res.Project
	r.report.Images = res.Images
	r.report.HostAddress = res.Address.Value
	r.report.AddressDetected = res.Address.Detected()
	c.promoteHistory(res.Project)

	start, err := c.deps.Prompter.Confirm("Start the demo now?", true)
	if err != nil {
		return domain.AtStage(domain.StageDemo, err)
	}
	if !start {
		return nil
	}
	id, err := c.deps.Demo.Start(ctx, res.Project, res.Images, res.Address.Value)
	if err != nil {
		return domain.AtStage(domain.StageDemo, err)
	}
	r.report.DemoContainer = id
	return nil
}

func (c *Controller) ensureEULA(r *run) error {
	if r.flags.EULAAccepted {
		return nil
	}
	accepted, err := c.deps.Prompter.AcceptEULA(c.opts.EULAText)
	if err != nil {
		return err
	}
	if !accepted {
		return domain.ErrEULADeclined
	}
	r.flags.EULAAccepted = true
	c.log.Info("EULA accepted")
	return nil
}

type fetchFunc func(ctx context.Context, desired domain.ImageSet) (domain.ImageSet, error)

func (c *Controller) resolveAndFetch(ctx context.Context, ids []domain.CollectionID, fetch fetchFunc) (domain.ImageSet, error) {
	index, err := c.deps.Catalog.Index(ctx)
	if err != nil {
		return nil, domain.AtStage(domain.StageResolve, err)
	}
	desired, err := index.ExpandSet(ids)
	if err != nil {
		return nil, domain.AtStage(domain.StageResolve, err)
	}
	set, err := fetch(ctx, desired)
	if err != nil {
		return nil, domain.AtStage(domain.StageFetch, err)
	}
	return set, nil
}

// writeEnvironment records the project's host-specific settings, keeping any
// other entries of an existing file.
func (c *Controller) writeEnvironment(ctx context.Context, p domain.Project, ids []domain.CollectionID) error {
	path := p.EnvironmentPath()
	env, err := c.deps.Env.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		env = map[string]string{}
	} else if err != nil {
		return err
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, string(id))
	}

	env[domain.EnvProjectDir] = p.Path
	env[domain.EnvProjectName] = p.Name()
	env[domain.EnvNetwork] = c.opts.Network
	env[domain.EnvCollections] = strings.Join(names, ",")
	env[domain.EnvOrchestratorVer] = c.opts.Version
	if _, ok := env[domain.EnvHostIPAddr]; !ok {
		env[domain.EnvHostIPAddr] = deploy.DetectAddress(ctx, c.deps.Probes, c.log).Value
	}
	return c.deps.Env.Write(path, env)
}

func (c *Controller) copyExecutable(p domain.Project) {
	if c.opts.Executable == "" {
		return
	}
	name := c.opts.ExecutableName
	if name == "" {
		name = defaultExecutableName
	}
	dest := p.Dir(domain.DirDockerBin, name)
	if err := copyFile(c.opts.Executable, dest, 0o755); err != nil {
		c.log.Warn("could not copy senzup into the project", "err", err)
	}
}

func (c *Controller) promoteHistory(p domain.Project) {
	if c.deps.History == nil {
		return
	}
	if err := c.deps.History.Promote(p.HistoryLogPath()); err != nil {
		c.log.Warn("could not write project history", "err", err)
	}
}

func copyFile(src, dest string, perm os.FileMode) error {
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	tmp := dest + ".tmp"
	w, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}
