package discovery

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ServiceType is the mDNS service type advertised by Spark controllers
	ServiceType = "_brewblox._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultTimeout is the default bound for a discovery call
	DefaultTimeout = 5 * time.Second
)

// ServiceRecord is a single resolved discovery result.
// It is a value type and immutable once constructed.
type ServiceRecord struct {
	// Host is the controller's IPv4 address (e.g., "192.168.1.42")
	Host string

	// Port is the advertised service port
	Port int

	// ID is the controller identifier, the mDNS hostname with the
	// domain suffix stripped (e.g., "280038000847343337373738")
	ID string
}

// String returns a human-readable representation of the record
func (r ServiceRecord) String() string {
	return fmt.Sprintf("%s @ %s:%d", r.ID, r.Host, r.Port)
}

// Identity derives the short identifier from a fully-qualified mDNS
// hostname by stripping the domain suffix. Both "abc.local." and
// "abc.local" yield "abc".
func Identity(server string) string {
	s := strings.TrimSuffix(server, ".")
	return strings.TrimSuffix(s, ".local")
}

// Filter selects which announcements a session yields.
// The zero value matches every instance of the default service type.
type Filter struct {
	// ID restricts results to a single controller identifier,
	// compared case-insensitively. Empty matches any.
	ID string

	// Type is the mDNS service type to browse. Empty means ServiceType.
	Type string

	// Timeout bounds the discovery call. Zero means no bound for One
	// and DefaultTimeout for All.
	Timeout time.Duration
}

// serviceType returns the effective service type for this filter
func (f Filter) serviceType() string {
	if f.Type == "" {
		return ServiceType
	}
	return f.Type
}

// matches reports whether a record satisfies the identity filter
func (f Filter) matches(rec ServiceRecord) bool {
	return f.ID == "" || strings.EqualFold(f.ID, rec.ID)
}
