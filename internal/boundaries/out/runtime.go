// Package out defines output ports (interfaces) for infrastructure.
// These interfaces define the contract between use cases and driven adapters
// (Docker, filesystem, network, terminal).
package out

import (
	"context"

	"github.com/bnema/senzup/internal/domain"
)

// ContainerRuntime defines the container operations the orchestrator drives.
// Every call blocks until the runtime has finished.
type ContainerRuntime interface {
	// Runtime information
	Ping(ctx context.Context) error

	// Image operations
	ListImages(ctx context.Context) ([]string, error)
	PullImage(ctx context.Context, image string) error
	SaveImages(ctx context.Context, images []string, dest string) error
	LoadImages(ctx context.Context, src string) ([]string, error)

	// Containers
	RunContainer(ctx context.Context, spec domain.RunSpec) (*domain.RunResult, error)

	// Network management
	CreateNetwork(ctx context.Context, name string) error
	NetworkExists(ctx context.Context, name string) (bool, error)
}
