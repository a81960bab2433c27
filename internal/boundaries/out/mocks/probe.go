package mocks

import "context"

// AddressProbe is a canned out.AddressProbe.
type AddressProbe struct {
	ProbeName string
	Address   string
	Calls     int
}

func (p *AddressProbe) Name() string { return p.ProbeName }

func (p *AddressProbe) Probe(context.Context) (string, bool) {
	p.Calls++
	return p.Address, p.Address != ""
}
