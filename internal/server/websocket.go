package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/BrewBlox/brewblox-mdns/internal/discovery"
	"github.com/BrewBlox/brewblox-mdns/internal/logging"
)

var errInvalidTimeout = errors.New("timeout must be a non-negative number")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is consumed by local services and dashboards; origin
	// checks are left to the deployment's reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleDiscoverEvents streams records over a WebSocket as they are
// found. Query parameters: id, dns_type, timeout (seconds). A zero or
// absent timeout streams until the client disconnects.
func (s *Server) handleDiscoverEvents(w http.ResponseWriter, r *http.Request) {
	f := discovery.Filter{Type: s.cfg.ServiceType}

	q := r.URL.Query()
	f.ID = q.Get("id")
	if t := q.Get("dns_type"); t != "" {
		f.Type = t
	}
	if t := q.Get("timeout"); t != "" {
		secs, err := strconv.ParseFloat(t, 64)
		if err != nil || secs < 0 {
			writeError(w, http.StatusBadRequest, errInvalidTimeout)
			return
		}
		f.Timeout = time.Duration(secs * float64(time.Second))
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		logging.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	if f.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	// Reader goroutine: the client never sends data, but reading is
	// what surfaces close frames and dropped connections.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sess, err := s.discoverer.Session(ctx, f)
	if err != nil {
		logging.Error("Discovery failed", zap.Error(err))
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		return
	}
	defer sess.Close()

	logging.Info("Streaming discovery events",
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("service_type", f.Type),
	)

	for {
		select {
		case rec, ok := <-sess.Records():
			if !ok {
				s.closeStream(conn)
				return
			}
			if err := conn.WriteJSON(toResponse(rec)); err != nil {
				return
			}
		case <-ctx.Done():
			s.closeStream(conn)
			return
		}
	}
}

// closeStream sends a normal close frame so clients can tell a
// completed window from a dropped connection.
func (s *Server) closeStream(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "discovery window elapsed")
	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
}
