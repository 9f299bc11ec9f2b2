package resolver

import (
	"context"
	"net"
	"strings"
	"time"
)

const defaultTimeout = 3 * time.Second

// AddrLookup is satisfied by *net.Resolver.
type AddrLookup interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// ReverseDNS names a database host after its PTR record. Any lookup failure
// falls back to the host as given.
type ReverseDNS struct {
	lookup  AddrLookup
	timeout time.Duration
}

func NewReverseDNS() *ReverseDNS {
	return &ReverseDNS{lookup: net.DefaultResolver, timeout: defaultTimeout}
}

func NewReverseDNSWith(lookup AddrLookup, timeout time.Duration) *ReverseDNS {
	return &ReverseDNS{lookup: lookup, timeout: timeout}
}

func (r *ReverseDNS) Resolve(ctx context.Context, host string) string {
	// only addresses have PTR records
	if net.ParseIP(host) == nil {
		return host
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	names, err := r.lookup.LookupAddr(ctx, host)
	if err != nil || len(names) == 0 {
		return host
	}

	name := strings.TrimSuffix(names[0], ".")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return host
	}
	return name
}

// Literal returns hosts unchanged. It backs the -n flag.
type Literal struct{}

func (Literal) Resolve(_ context.Context, host string) string {
	return host
}
