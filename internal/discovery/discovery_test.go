package discovery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeBrowser streams a scripted set of announcements, then keeps the
// subscription open until the context is cancelled, like a real
// multicast browse does.
type fakeBrowser struct {
	infos []ServiceInfo
	gap   time.Duration // pause before each announcement
	err   error         // returned from Browse immediately
}

func (b *fakeBrowser) Browse(ctx context.Context, serviceType string, entries chan<- ServiceInfo) error {
	if b.err != nil {
		return b.err
	}
	go func() {
		defer close(entries)
		for _, info := range b.infos {
			if b.gap > 0 {
				select {
				case <-time.After(b.gap):
				case <-ctx.Done():
					return
				}
			}
			select {
			case entries <- info:
			case <-ctx.Done():
				return
			}
		}
		<-ctx.Done()
	}()
	return nil
}

func spark(id, addr string, port int) ServiceInfo {
	return ServiceInfo{
		Instance: id,
		Server:   id + ".local.",
		Addr:     addr,
		Port:     port,
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		server string
		want   string
	}{
		{"abc123.local.", "abc123"},
		{"abc123.local", "abc123"},
		{"280038000847343337373738.local.", "280038000847343337373738"},
		{"abc123", "abc123"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			if got := Identity(tt.server); got != tt.want {
				t.Errorf("Identity(%q) = %q, want %q", tt.server, got, tt.want)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		id     string
		want   bool
	}{
		{"empty filter matches any", "", "abc123", true},
		{"exact match", "abc123", "abc123", true},
		{"case-insensitive match", "ABC123", "abc123", true},
		{"mismatch", "abc123", "def456", false},
		{"prefix is not a match", "abc", "abc123", false},
		{"substring is not a match", "c12", "abc123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{ID: tt.filter}
			got := f.matches(ServiceRecord{ID: tt.id})
			if got != tt.want {
				t.Errorf("matches(%q vs %q) = %v, want %v", tt.filter, tt.id, got, tt.want)
			}
		})
	}
}

func TestOne_ReturnsFirstMatch(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("simulator", "0.0.0.0", 8332),
		spark("other", "192.168.1.10", 8332),
		spark("abc123", "192.168.1.42", 8332),
	}})

	rec, err := d.One(context.Background(), Filter{ID: "ABC123", Timeout: time.Second})
	if err != nil {
		t.Fatalf("One() error = %v", err)
	}

	want := ServiceRecord{Host: "192.168.1.42", Port: 8332, ID: "abc123"}
	if rec != want {
		t.Errorf("One() = %v, want %v", rec, want)
	}
}

func TestOne_NoFilterTakesFirstUsable(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("simulator", "0.0.0.0", 8332),
		spark("abc123", "192.168.1.42", 8332),
		spark("def456", "192.168.1.43", 8332),
	}})

	rec, err := d.One(context.Background(), Filter{Timeout: time.Second})
	if err != nil {
		t.Fatalf("One() error = %v", err)
	}
	if rec.ID != "abc123" {
		t.Errorf("One() returned %v, want first usable record abc123", rec)
	}
}

func TestOne_Timeout(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("other", "192.168.1.10", 8332),
	}})

	start := time.Now()
	_, err := d.One(context.Background(), Filter{ID: "abc123", Timeout: 100 * time.Millisecond})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("One() error = %v, want ErrTimeout", err)
	}
	if elapsed > time.Second {
		t.Errorf("One() took %v, expected timeout near 100ms", elapsed)
	}
}

func TestOne_ParentDeadlineWithoutFilterTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("other", "192.168.1.10", 8332),
	}})

	// The bound comes from the caller's context, not the filter.
	_, err := d.One(ctx, Filter{ID: "abc123"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("One() error = %v, want ErrTimeout", err)
	}
	if strings.Contains(err.Error(), "0s") {
		t.Errorf("One() error %q names a zero bound", err)
	}
}

func TestOne_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := New(&fakeBrowser{})

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// No timeout set: the call waits until the context ends.
	_, err := d.One(ctx, Filter{ID: "abc123"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("One() error = %v, want context.Canceled", err)
	}
}

func TestOne_BrowseStartFailure(t *testing.T) {
	boom := errors.New("no multicast interface")
	d := New(&fakeBrowser{err: boom})

	_, err := d.One(context.Background(), Filter{Timeout: time.Second})
	if !errors.Is(err, boom) {
		t.Fatalf("One() error = %v, want %v", err, boom)
	}
}

func TestAll_CollectsUntilTimeout(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("one", "192.168.1.1", 8332),
		spark("simulator", "0.0.0.0", 8332),
		spark("two", "192.168.1.2", 8332),
		spark("three", "192.168.1.3", 8332),
	}})

	recs, err := d.All(context.Background(), Filter{Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	if len(recs) != 3 {
		t.Fatalf("All() yielded %d records, want 3: %v", len(recs), recs)
	}
	for _, rec := range recs {
		if rec.Host == "0.0.0.0" {
			t.Errorf("All() yielded placeholder address record %v", rec)
		}
	}
}

func TestAll_TimeoutCutsOffLateAnnouncements(t *testing.T) {
	// Announcements arrive every 60ms; a 150ms window fits only two.
	d := New(&fakeBrowser{
		gap: 60 * time.Millisecond,
		infos: []ServiceInfo{
			spark("one", "192.168.1.1", 8332),
			spark("two", "192.168.1.2", 8332),
			spark("three", "192.168.1.3", 8332),
			spark("four", "192.168.1.4", 8332),
		},
	})

	recs, err := d.All(context.Background(), Filter{Timeout: 150 * time.Millisecond})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("All() yielded %d records, want 2: %v", len(recs), recs)
	}
}

func TestAll_EmptyResultIsNotAnError(t *testing.T) {
	d := New(&fakeBrowser{})

	recs, err := d.All(context.Background(), Filter{Timeout: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if recs == nil {
		t.Fatal("All() returned nil slice, want empty")
	}
	if len(recs) != 0 {
		t.Errorf("All() yielded %d records, want 0", len(recs))
	}
}

func TestAll_IdentityFilter(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("abc123", "192.168.1.1", 8332),
		spark("def456", "192.168.1.2", 8332),
		spark("ABC123", "192.168.1.3", 8332),
	}})

	recs, err := d.All(context.Background(), Filter{ID: "abc123", Timeout: 150 * time.Millisecond})
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("All() yielded %d records, want 2: %v", len(recs), recs)
	}
	for _, rec := range recs {
		if f := (Filter{ID: "abc123"}); !f.matches(rec) {
			t.Errorf("All() yielded non-matching record %v", rec)
		}
	}
}

func TestAll_ConcurrentSessionsAreIndependent(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("abc123", "192.168.1.1", 8332),
		spark("def456", "192.168.1.2", 8332),
	}})

	var wg sync.WaitGroup
	results := make([][]ServiceRecord, 2)
	timeouts := []time.Duration{50 * time.Millisecond, 250 * time.Millisecond}

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			recs, err := d.All(context.Background(), Filter{Timeout: timeouts[i]})
			if err != nil {
				t.Errorf("All() error = %v", err)
				return
			}
			results[i] = recs
		}(i)
	}
	wg.Wait()

	// The short session ending first must not truncate the long one.
	if len(results[1]) != 2 {
		t.Errorf("long session yielded %d records, want 2: %v", len(results[1]), results[1])
	}
}

func TestSession_CloseReleasesSubscription(t *testing.T) {
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("abc123", "192.168.1.1", 8332),
	}})

	sess, err := d.Session(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}

	// Consume the one record, then close.
	select {
	case <-sess.Records():
	case <-time.After(time.Second):
		t.Fatal("no record within 1s")
	}
	sess.Close()
	sess.Close() // idempotent

	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("session did not release within 1s of Close")
	}

	// A closed session yields nothing further.
	if _, ok := <-sess.Records(); ok {
		t.Error("record yielded after Close")
	}
}

func TestSession_AbandonedConsumer(t *testing.T) {
	// The consumer never reads; Close alone must still tear down.
	d := New(&fakeBrowser{infos: []ServiceInfo{
		spark("abc123", "192.168.1.1", 8332),
		spark("def456", "192.168.1.2", 8332),
	}})

	sess, err := d.Session(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Session() error = %v", err)
	}
	sess.Close()

	select {
	case <-sess.Done():
	case <-time.After(time.Second):
		t.Fatal("session with unread records did not release within 1s")
	}
}
