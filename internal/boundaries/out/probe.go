package out

import "context"

// AddressProbe is one strategy for detecting the host's IP address.
// Probe reports false when the strategy found nothing.
type AddressProbe interface {
	Name() string
	Probe(ctx context.Context) (string, bool)
}
