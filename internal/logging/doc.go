// Package logging provides structured logging for brewblox-mdns.
//
// This package wraps zap logger with convenience functions for the
// logging patterns used throughout the service: discovery events,
// HTTP request logging and lifecycle messages.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (raw announcements, teardown steps)
//   - Info: Normal operations (discovered/discarded services, requests)
//   - Warn: Non-fatal issues (shutdown hiccups, dropped resolutions)
//   - Error: Fatal issues (startup failures)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Discovered service",
//	    zap.String("id", "280038000847343337373738"),
//	    zap.String("host", "192.168.1.42"),
//	    zap.Int("port", 8332),
//	)
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.Initialize("info"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// CLI commands that want silent mode by default should use
// InitializeFromEnv, which only enables output when the
// BREWBLOX_LOG_LEVEL environment variable is set.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
