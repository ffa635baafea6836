package usb

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
)

// DefaultGlob is where Linux exposes stable USB serial device links.
const DefaultGlob = "/dev/serial/by-id/*"

// devicePattern matches Particle controller device links, e.g.
// "usb-Particle_P1_280038000847343337373738-if00".
var devicePattern = regexp.MustCompile(`(?i)particle_(p1|photon)_([a-z0-9]+)-`)

// Device is a Spark controller attached over USB serial.
type Device struct {
	// Serial is the controller serial number from the device link
	Serial string

	// Model is the controller hardware model ("p1" or "photon")
	Model string
}

// String returns a human-readable representation of the device
func (d Device) String() string {
	return fmt.Sprintf("%s (%s)", d.Serial, d.Model)
}

// Devices enumerates attached Spark controllers by matching device
// links under the given glob pattern. An empty pattern means
// DefaultGlob. Links that are not Particle controllers are ignored.
func Devices(pattern string) ([]Device, error) {
	if pattern == "" {
		pattern = DefaultGlob
	}

	links, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid device glob %q: %w", pattern, err)
	}
	sort.Strings(links)

	devices := make([]Device, 0, len(links))
	for _, link := range links {
		matches := devicePattern.FindStringSubmatch(filepath.Base(link))
		if matches == nil {
			continue
		}
		devices = append(devices, Device{
			Serial: matches[2],
			Model:  matches[1],
		})
	}
	return devices, nil
}
