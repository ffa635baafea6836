// Package config defines the runtime settings for brewblox-mdns.
//
// Settings are loaded from an optional YAML file and overlaid on
// built-in defaults. The zero configuration browses for the standard
// "_brewblox._tcp" service type with a 5 second discovery window and
// serves the HTTP API on port 5000.
//
// Example config file:
//
//	service_type: _brewblox._tcp
//	domain: local.
//	timeout_seconds: 5
//	host: 0.0.0.0
//	port: 5000
//	log_level: info
//
// Configuration is read once at startup and never mutated at runtime.
package config
