package discovery

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BrewBlox/brewblox-mdns/internal/logging"
)

// placeholderAddr is announced by simulators and is never routable
const placeholderAddr = "0.0.0.0"

// Session is one live discovery operation: a single browse subscription
// plus the filtered stream of records it produces.
//
// Records() yields matches lazily until the session is closed or its
// parent context ends. A session cannot be restarted; create a new one
// instead. Close is idempotent and safe to call from any goroutine; it
// releases the subscription, after which no further records are yielded.
type Session struct {
	filter  Filter
	records chan ServiceRecord

	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// Records returns the stream of matching records. The channel is closed
// when the session ends.
func (s *Session) Records() <-chan ServiceRecord {
	return s.records
}

// Close terminates the session and releases the browse subscription.
func (s *Session) Close() {
	s.closeOnce.Do(s.cancel)
}

// Done is closed once the session loop has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Session starts a new discovery session for the given filter.
// The caller must Close the session; cancelling ctx also ends it.
func (d *Discoverer) Session(ctx context.Context, filter Filter) (*Session, error) {
	ctx, cancel := context.WithCancel(ctx)

	entries := make(chan ServiceInfo, 16)
	if err := d.browser.Browse(ctx, filter.serviceType(), entries); err != nil {
		cancel()
		return nil, err
	}

	s := &Session{
		filter:  filter,
		records: make(chan ServiceRecord),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go s.run(ctx, entries)
	return s, nil
}

// run consumes raw announcements until the subscription ends.
// The deferred block is the single release path for every exit:
// consumer abandonment, timeout, and normal completion all pass
// through it.
func (s *Session) run(ctx context.Context, entries <-chan ServiceInfo) {
	defer func() {
		s.cancel()
		close(s.records)
		close(s.done)
	}()

	for info := range entries {
		rec, ok := s.screen(info)
		if !ok {
			continue
		}
		select {
		case s.records <- rec:
		case <-ctx.Done():
			return
		}
	}
}

// screen applies the session's filtering policy to one announcement
func (s *Session) screen(info ServiceInfo) (ServiceRecord, bool) {
	// Resolution came back empty; best-effort, drop without noise
	if info.Addr == "" {
		return ServiceRecord{}, false
	}
	// Simulators announce 0.0.0.0 and are never usable
	if info.Addr == placeholderAddr {
		return ServiceRecord{}, false
	}

	rec := ServiceRecord{
		Host: info.Addr,
		Port: info.Port,
		ID:   Identity(info.Server),
	}
	if !s.filter.matches(rec) {
		logging.Info("Discarding service",
			zap.String("instance", info.Instance),
			zap.String("host", rec.Host),
			zap.Int("port", rec.Port),
		)
		return ServiceRecord{}, false
	}

	logging.Info("Discovered service",
		zap.String("id", rec.ID),
		zap.String("host", rec.Host),
		zap.Int("port", rec.Port),
	)
	return rec, true
}
