// Package usb enumerates Spark controllers attached over USB serial.
//
// Linux exposes attached USB serial devices as stable symlinks under
// /dev/serial/by-id. Particle-based Spark controllers encode their
// model and serial number in the link name; this package matches that
// pattern and reports the controllers it finds. No device is opened or
// probed, so enumeration is safe to run at any time.
package usb
