// Package app wires the senzup adapters and use cases into one run.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/adapters/out/history"
	"github.com/bnema/senzup/internal/config"
	"github.com/bnema/senzup/internal/domain"
	"github.com/bnema/senzup/internal/logging"
)

// pingTimeout bounds the container runtime pre-flight check.
const pingTimeout = 10 * time.Second

// Invocation is one command line run.
type Invocation struct {
	// ConfigPath selects a config file instead of the search path.
	ConfigPath string
	// Overrides are config keys set from flags.
	Overrides map[string]any
	Request   domain.RunRequest
	Version   string
	// Stderr receives log output. Defaults to os.Stderr.
	Stderr io.Writer
	// Interactive enables prompts.
	Interactive bool
}

// Run loads the configuration, connects to the container runtime and
// executes the request. The returned report is never nil and always names
// the run's history log when one could be created.
func Run(ctx context.Context, inv Invocation) (*domain.RunReport, error) {
	report := &domain.RunReport{}

	cfg, err := config.Load(inv.ConfigPath, inv.Overrides)
	if err != nil {
		return report, domain.AtStage(domain.StagePreflight, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err))
	}

	hist, err := history.NewTempLog("")
	if err != nil {
		return report, domain.AtStage(domain.StagePreflight, err)
	}
	defer func() { _ = hist.Close() }()

	stderr := inv.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Console: stderr,
		History: hist,
	})
	logger.Debug("run started", "run_id", hist.RunID(), "version", inv.Version)

	report, err = execute(ctx, cfg, inv, hist, logger)
	if report == nil {
		report = &domain.RunReport{}
	}
	report.HistoryLog = hist.Path()
	if err != nil {
		_, _ = fmt.Fprintf(hist, "run failed: %v\n", err)
	}
	return report, err
}

func execute(ctx context.Context, cfg config.Config, inv Invocation, hist *history.FileLog, logger *log.Logger) (*domain.RunReport, error) {
	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return nil, domain.AtStage(domain.StagePreflight, err)
	}
	defer func() { _ = rt.Close() }()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rt.Ping(pingCtx); err != nil {
		return nil, domain.AtStage(domain.StagePreflight,
			fmt.Errorf("%w: docker is not reachable: %v", domain.ErrPrerequisiteMissing, err))
	}

	ctrl := newController(cfg, inv, rt, hist, logger)
	return ctrl.Run(ctx, inv.Request)
}
