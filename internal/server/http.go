package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BrewBlox/brewblox-mdns/internal/discovery"
	"github.com/BrewBlox/brewblox-mdns/internal/logging"
)

// discoveryRequest is the body accepted by /discover and /discover_all.
// All fields are optional; nil means "use the default".
type discoveryRequest struct {
	ID      *string  `json:"id"`
	DNSType *string  `json:"dns_type"`
	Timeout *float64 `json:"timeout"`
}

// discoveryResponse is one discovered controller.
type discoveryResponse struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	ID   string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler builds the route table for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /discover", s.handleDiscover)
	mux.HandleFunc("POST /discover_all", s.handleDiscoverAll)
	mux.HandleFunc("GET /discover/events", s.handleDiscoverEvents)
	return logRequests(mux)
}

// handleDiscover returns the first matching controller.
//
// Without a timeout in the request, the call waits until a match
// arrives or the client gives up; with one, a miss is a server error.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := s.discoverer.One(r.Context(), s.filter(req, 0))
	if err != nil {
		status := http.StatusInternalServerError
		if !errors.Is(err, discovery.ErrTimeout) {
			logging.Error("Discovery failed", zap.Error(err))
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(rec))
}

// handleDiscoverAll returns every controller found within the window.
// The timeout defaults to the configured discovery window.
func (s *Server) handleDiscoverAll(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	recs, err := s.discoverer.All(r.Context(), s.filter(req, s.cfg.Timeout()))
	if err != nil {
		logging.Error("Discovery failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := make([]discoveryResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toResponse(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

// filter converts a request body into a discovery filter
func (s *Server) filter(req discoveryRequest, defaultTimeout time.Duration) discovery.Filter {
	f := discovery.Filter{
		Type:    s.cfg.ServiceType,
		Timeout: defaultTimeout,
	}
	if req.ID != nil {
		f.ID = *req.ID
	}
	if req.DNSType != nil && *req.DNSType != "" {
		f.Type = *req.DNSType
	}
	if req.Timeout != nil {
		f.Timeout = time.Duration(*req.Timeout * float64(time.Second))
	}
	return f
}

func decodeRequest(r *http.Request) (discoveryRequest, error) {
	var req discoveryRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

func toResponse(rec discovery.ServiceRecord) discoveryResponse {
	return discoveryResponse{
		Host: rec.Host,
		Port: rec.Port,
		ID:   rec.ID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket upgrades hijack the connection; wrapping the
		// writer would break the upgrade.
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.Path, rec.status)
	})
}
