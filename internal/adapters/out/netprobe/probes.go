// Package netprobe implements host address detection strategies.
package netprobe

import (
	"context"
	"net"
	"os"

	"github.com/bnema/senzup/internal/boundaries/out"
)

// DefaultRouteTarget is dialled to learn the outbound source address.
// UDP dials send no packet.
const DefaultRouteTarget = "8.8.8.8:80"

// Route reports the source address of the default outbound route.
type Route struct {
	Target string
	dial   func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewRoute creates a route probe dialling target.
func NewRoute(target string) *Route {
	if target == "" {
		target = DefaultRouteTarget
	}
	var d net.Dialer
	return &Route{Target: target, dial: d.DialContext}
}

func (p *Route) Name() string { return "route" }

func (p *Route) Probe(ctx context.Context) (string, bool) {
	conn, err := p.dial(ctx, "udp", p.Target)
	if err != nil {
		return "", false
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() || addr.IP.IsLoopback() {
		return "", false
	}
	return addr.IP.String(), true
}

// Interfaces reports the first non-loopback IPv4 address of an up interface.
type Interfaces struct {
	addrs func() ([]net.Addr, error)
}

// NewInterfaces creates an interface probe.
func NewInterfaces() *Interfaces {
	return &Interfaces{addrs: upInterfaceAddrs}
}

func upInterfaceAddrs() ([]net.Addr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var all []net.Addr
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		all = append(all, addrs...)
	}
	return all, nil
}

func (p *Interfaces) Name() string { return "interfaces" }

func (p *Interfaces) Probe(context.Context) (string, bool) {
	addrs, err := p.addrs()
	if err != nil {
		return "", false
	}
	for _, addr := range addrs {
		if ip := ipv4(addr); ip != nil {
			return ip.String(), true
		}
	}
	return "", false
}

func ipv4(addr net.Addr) net.IP {
	var ip net.IP
	switch a := addr.(type) {
	case *net.IPNet:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	}
	if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
		return nil
	}
	return ip.To4()
}

// Hostname reports the first non-loopback address the host name resolves to.
type Hostname struct {
	hostname func() (string, error)
	lookup   func(ctx context.Context, host string) ([]string, error)
}

// NewHostname creates a hostname probe.
func NewHostname() *Hostname {
	return &Hostname{hostname: os.Hostname, lookup: net.DefaultResolver.LookupHost}
}

func (p *Hostname) Name() string { return "hostname" }

func (p *Hostname) Probe(ctx context.Context) (string, bool) {
	name, err := p.hostname()
	if err != nil || name == "" {
		return "", false
	}
	addrs, err := p.lookup(ctx, name)
	if err != nil {
		return "", false
	}
	for _, a := range addrs {
		ip := net.ParseIP(a)
		if ip != nil && !ip.IsLoopback() && ip.To4() != nil {
			return ip.String(), true
		}
	}
	return "", false
}

// DefaultChain is the detection order used on deploy.
func DefaultChain(routeTarget string) []out.AddressProbe {
	return []out.AddressProbe{NewRoute(routeTarget), NewInterfaces(), NewHostname()}
}
