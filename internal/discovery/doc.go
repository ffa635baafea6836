// Package discovery locates BrewBlox Spark controllers on the local
// network via mDNS service discovery.
//
// Spark controllers advertise themselves using the "_brewblox._tcp"
// service type. The package browses for that type, resolves each
// announcement to an address, port and controller ID, and exposes the
// results either as a single first match or as everything found within
// a time window.
//
// # Usage Example
//
//	d := discovery.New(nil)
//
//	// Wait up to 5 seconds for one specific controller
//	rec, err := d.One(ctx, discovery.Filter{
//	    ID:      "280038000847343337373738",
//	    Timeout: 5 * time.Second,
//	})
//
//	// Collect everything announced within the window
//	recs, err := d.All(ctx, discovery.Filter{Timeout: 5 * time.Second})
//
// Sessions created by Session yield records lazily on a channel and
// must be closed by the caller; One and All handle this internally.
//
// # Filtering
//
// Announcements with address 0.0.0.0 come from simulators and are
// always discarded. When a filter ID is set it is compared
// case-insensitively against the controller ID, which is the mDNS
// hostname with the ".local." suffix stripped.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Controllers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// A Discoverer is safe for concurrent use. Each call starts its own
// browse subscription; concurrent sessions do not interfere.
package discovery
