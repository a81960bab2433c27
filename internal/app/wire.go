package app

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/assets"
	"github.com/bnema/senzup/internal/adapters/out/archive"
	"github.com/bnema/senzup/internal/adapters/out/docker"
	"github.com/bnema/senzup/internal/adapters/out/envfile"
	"github.com/bnema/senzup/internal/adapters/out/history"
	"github.com/bnema/senzup/internal/adapters/out/netprobe"
	"github.com/bnema/senzup/internal/adapters/out/prompt"
	"github.com/bnema/senzup/internal/adapters/out/source"
	"github.com/bnema/senzup/internal/config"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/usecase/collection"
	"github.com/bnema/senzup/internal/usecase/deploy"
	"github.com/bnema/senzup/internal/usecase/images"
	"github.com/bnema/senzup/internal/usecase/install"
	"github.com/bnema/senzup/internal/usecase/lifecycle"
	"github.com/bnema/senzup/internal/usecase/manifest"
	"github.com/bnema/senzup/internal/usecase/packaging"
	"github.com/bnema/senzup/internal/usecase/project"
)

// executableName is the name the orchestrator is copied under inside
// projects, and the name archives exclude.
const executableName = "senzup"

// archiveExcludes keep the orchestrator entry point out of archives.
var archiveExcludes = []string{"*/" + domain.DirDockerBin + "/" + executableName}

func newRuntime(cfg config.Config, logger *log.Logger) (*docker.Runtime, error) {
	rt, err := docker.NewRuntime(cfg.DockerHost, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPrerequisiteMissing, err)
	}
	return rt, nil
}

func newController(cfg config.Config, inv Invocation, rt *docker.Runtime, hist *history.FileLog, logger *log.Logger) *lifecycle.Controller {
	store := project.NewStore(logger)
	imageSvc := images.NewService(rt, logger)
	tgz := archive.NewTGZ(logger)
	env := envfile.NewStore()
	probes := netprobe.DefaultChain(cfg.RouteTarget)

	fetcher := source.New(logger,
		source.WithCacheDir(cfg.CacheDir),
		source.WithUserAgent(executableName+"/"+inv.Version),
	)
	catalog := lifecycle.NewCatalog(
		manifest.NewLoader(fetcher, manifest.DefaultSymbolPrefix, logger),
		collection.NewLoader(fetcher, logger),
		lifecycle.Sources{
			Manifest:           cfg.ManifestURL,
			Collections:        cfg.CollectionsURL,
			DefaultCollections: assets.Collections,
		},
	)

	demoOpts := deploy.DefaultDemoOptions()
	if cfg.Network != "" {
		demoOpts.Network = cfg.Network
	}
	if cfg.DemoImage != "" {
		demoOpts.Repository = cfg.DemoImage
	}
	if len(cfg.DemoPorts) > 0 {
		demoOpts.Ports = cfg.DemoPorts
	}

	deps := lifecycle.Deps{
		Store:     store,
		Catalog:   catalog,
		Images:    imageSvc,
		Installer: install.NewInstaller(rt, store, nil, logger),
		Packager: packaging.NewArchiver(imageSvc, tgz, packaging.Options{
			Prefix:   cfg.ArchivePrefix,
			Excludes: archiveExcludes,
		}, logger),
		Relocator: deploy.NewRelocator(tgz, imageSvc, env, probes, logger),
		Demo:      deploy.NewDemo(rt, demoOpts, logger),
		Prompter:  prompt.NewSurvey(cfg.AssumeYes, inv.Interactive),
		Env:       env,
		Probes:    probes,
		History:   hist,
	}

	opts := lifecycle.Options{
		Version:         inv.Version,
		EULAText:        assets.EULA,
		EULAPreaccepted: cfg.AcceptEULA,
		Executable:      executablePath(logger),
		ExecutableName:  executableName,
		Network:         demoOpts.Network,
		DeployExcludes:  archiveExcludes,
	}
	return lifecycle.NewController(deps, opts, logger)
}

func executablePath(logger *log.Logger) string {
	exe, err := os.Executable()
	if err != nil {
		logger.Debug("cannot locate the running executable", "err", err)
		return ""
	}
	return exe
}
