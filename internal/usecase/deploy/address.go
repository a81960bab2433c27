package deploy

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/bnema/senzup/internal/boundaries/out"
	"github.com/bnema/senzup/internal/domain"
)

// Address is a detected host address and the probe that found it.
type Address struct {
	Value string
	Probe string
}

// Detected reports whether a probe found an address.
func (a Address) Detected() bool { return a.Value != domain.UnknownAddress }

// DetectAddress runs probes in order and returns the first non-empty result.
// When every probe fails it returns the UnknownAddress sentinel and warns.
func DetectAddress(ctx context.Context, probes []out.AddressProbe, logger *log.Logger) Address {
	for _, probe := range probes {
		if addr, ok := probe.Probe(ctx); ok && addr != "" {
			logger.Info("detected host address (provisional)", "address", addr, "probe", probe.Name())
			return Address{Value: addr, Probe: probe.Name()}
		}
		logger.Debug("address probe found nothing", "probe", probe.Name())
	}
	logger.Warn("could not detect the host IP address; edit the environment file before starting services",
		"key", domain.EnvHostIPAddr,
		"value", domain.UnknownAddress,
	)
	return Address{Value: domain.UnknownAddress}
}
