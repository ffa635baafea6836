package discovery

import (
	"context"
	"fmt"

	"github.com/grandcat/zeroconf"
)

// ServiceInfo is a raw resolved announcement as delivered by a Browser,
// before filtering. Addr is empty when resolution produced no usable
// IPv4 address.
type ServiceInfo struct {
	// Instance is the full mDNS instance name
	Instance string

	// Server is the fully-qualified hostname (e.g., "abc123.local.")
	Server string

	// Addr is the IPv4 address, empty if none was resolved
	Addr string

	// Port is the advertised port
	Port int
}

// Browser feeds resolved service announcements for one browse call.
//
// Browse starts browsing for serviceType and streams announcements into
// entries until ctx is cancelled, at which point the implementation
// closes entries and releases its network resources. Resolution of
// individual instances happens concurrently, so delivery order reflects
// resolution completion order, not announcement order. A non-nil error
// is returned only when browsing could not be started at all.
type Browser interface {
	Browse(ctx context.Context, serviceType string, entries chan<- ServiceInfo) error
}

// MulticastBrowser is the production Browser backed by zeroconf.
// Each Browse call creates a fresh resolver, so concurrent sessions
// never share a subscription.
type MulticastBrowser struct {
	// Domain is the browse domain. Empty means ServiceDomain.
	Domain string
}

// Browse implements Browser using a zeroconf resolver
func (b *MulticastBrowser) Browse(ctx context.Context, serviceType string, entries chan<- ServiceInfo) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	raw := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, serviceType, b.domain(), raw); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	// Forwarder starts only once browsing is live; the resolver owns
	// raw and closes it when ctx ends.
	go forward(raw, entries)
	return nil
}

// domain returns the effective browse domain
func (b *MulticastBrowser) domain() string {
	if b.Domain == "" {
		return ServiceDomain
	}
	return b.Domain
}

// forward copies resolved entries until the resolver closes raw
func forward(raw <-chan *zeroconf.ServiceEntry, entries chan<- ServiceInfo) {
	defer close(entries)
	for entry := range raw {
		entries <- toServiceInfo(entry)
	}
}

// toServiceInfo converts a zeroconf entry, taking the first IPv4 address
func toServiceInfo(entry *zeroconf.ServiceEntry) ServiceInfo {
	info := ServiceInfo{
		Instance: entry.Instance,
		Server:   entry.HostName,
		Port:     entry.Port,
	}
	for _, addr := range entry.AddrIPv4 {
		info.Addr = addr.String()
		break
	}
	return info
}
