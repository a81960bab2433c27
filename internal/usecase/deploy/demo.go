package deploy

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/usecase/collection"
)

type demoRuntime interface {
	NetworkExists(ctx context.Context, name string) (bool, error)
	CreateNetwork(ctx context.Context, name string) error
	RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error)
}

// DemoOptions configure the demo workload.
type DemoOptions struct {
	Network    string
	Repository string
	// Ports are "host:container" bindings.
	Ports []string
}

// DefaultDemoOptions runs the web app demo on port 8251.
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{
		Network:    "senzing-network",
		Repository: "senzing/web-app-demo",
		Ports:      []string{"8251:8251"},
	}
}

// Demo starts the demo workload of a deployed project.
type Demo struct {
	runtime demoRuntime
	opts    DemoOptions
	log     *log.Logger
}

// NewDemo creates a demo launcher.
func NewDemo(rt demoRuntime, opts DemoOptions, logger *log.Logger) *Demo {
	return &Demo{runtime: rt, opts: opts, log: logger.WithPrefix("demo")}
}

// Network is the docker network the demo joins.
func (d *Demo) Network() string { return d.opts.Network }

// Start runs the demo container detached and returns its id. The image is
// picked from images by repository name.
func (d *Demo) Start(ctx context.Context, p domain.Project, images []domain.ImageReference, hostAddr string) (string, error) {
	image, ok := collection.FindByRepository(images, d.opts.Repository)
	if !ok {
		return "", fmt.Errorf("%w: no %s image in the project", domain.ErrImageBundleMissing, d.opts.Repository)
	}

	exists, err := d.runtime.NetworkExists(ctx, d.opts.Network)
	if err != nil {
		return "", fmt.Errorf("failed to inspect network %s: %w", d.opts.Network, err)
	}
	if !exists {
		d.log.Info("creating network", "network", d.opts.Network)
		if err := d.runtime.CreateNetwork(ctx, d.opts.Network); err != nil {
			return "", fmt.Errorf("failed to create network %s: %w", d.opts.Network, err)
		}
	}

	d.log.Info("starting demo", "image", image, "ports", d.opts.Ports)
	result, err := d.runtime.RunContainer(ctx, domain.RunSpec{
		Name:    "senzup-" + p.Name() + "-demo",
		Image:   image,
		Network: d.opts.Network,
		Ports:   d.opts.Ports,
		Env: []string{
			"SENZING_DATABASE_URL=sqlite3://na:na@/var/opt/senzing/sqlite/G2C.db",
			domain.EnvHostIPAddr + "=" + hostAddr,
		},
		Mounts: []domain.Mount{
			{Source: p.Dir(domain.DirData), Target: "/opt/senzing/data", ReadOnly: true},
			{Source: p.Dir(domain.DirDockerEtc), Target: "/etc/opt/senzing"},
			{Source: p.Dir(domain.DirG2), Target: "/opt/senzing/g2", ReadOnly: true},
			{Source: p.Dir(domain.DirVar), Target: "/var/opt/senzing"},
		},
		Detach: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start demo: %w", err)
	}
	return result.ContainerID, nil
}
