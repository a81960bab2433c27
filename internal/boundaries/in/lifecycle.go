// Package in defines input ports (interfaces) for the application.
// These interfaces define the contract between driving adapters (CLI) and
// the use cases.
package in

import (
	"context"

	"github.com/bnema/senzup/internal/domain"
)

// Lifecycle runs one create, package or deploy operation.
type Lifecycle interface {
	Run(ctx context.Context, req domain.RunRequest) (*domain.RunReport, error)
}
