// Package server exposes the discovery engine over HTTP.
//
// Three endpoints are served:
//
//	POST /discover         body {id?, dns_type?, timeout?}
//	                       -> 200 {host, port, id}
//	                       Waits for the first matching controller.
//	                       A timeout with no match is a server error.
//
//	POST /discover_all     same body, timeout defaults to the
//	                       configured window
//	                       -> 200 [{host, port, id}, ...], may be empty
//
//	GET /discover/events   query id, dns_type, timeout
//	                       Upgrades to WebSocket and streams each
//	                       record as a JSON message as it is found.
//
// The server shuts down gracefully on SIGINT/SIGTERM; in-flight
// discovery sessions are cancelled with their request contexts.
package server
