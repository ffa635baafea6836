package discovery

import (
	"context"
	"errors"
	"fmt"
)

// ErrTimeout is returned by One when its bound elapses with no match.
var ErrTimeout = errors.New("discovery timed out")

// Discoverer runs discovery sessions against a Browser.
// Every call starts a fresh session; results are never cached or
// shared between calls.
type Discoverer struct {
	browser Browser
}

// New creates a Discoverer. A nil browser means multicast on the
// default domain.
func New(browser Browser) *Discoverer {
	if browser == nil {
		browser = &MulticastBrowser{}
	}
	return &Discoverer{browser: browser}
}

// One waits for the first record matching the filter and returns it.
//
// When filter.Timeout is set and elapses first, One fails with
// ErrTimeout. When it is zero, One waits until a match arrives or ctx
// is cancelled; with a background context and no matching controller
// on the network this blocks indefinitely.
func (d *Discoverer) One(ctx context.Context, filter Filter) (ServiceRecord, error) {
	if filter.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, filter.Timeout)
		defer cancel()
	}

	sess, err := d.Session(ctx, filter)
	if err != nil {
		return ServiceRecord{}, err
	}
	defer sess.Close()

	select {
	case rec, ok := <-sess.Records():
		if ok {
			return rec, nil
		}
	case <-ctx.Done():
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		// The deadline may come from the caller's context rather than
		// the filter; only name the bound when it is ours.
		if filter.Timeout > 0 {
			return ServiceRecord{}, fmt.Errorf("%w after %v", ErrTimeout, filter.Timeout)
		}
		return ServiceRecord{}, ErrTimeout
	}
	if err := ctx.Err(); err != nil {
		return ServiceRecord{}, err
	}
	return ServiceRecord{}, errors.New("browse ended before a match was found")
}

// All collects every record matching the filter until the bound
// elapses, then returns what was found. The timeout is the normal way
// for All to finish and is never an error; the result may be empty.
// A zero filter.Timeout means DefaultTimeout.
func (d *Discoverer) All(ctx context.Context, filter Filter) ([]ServiceRecord, error) {
	timeout := filter.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sess, err := d.Session(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	records := make([]ServiceRecord, 0)
	for {
		select {
		case rec, ok := <-sess.Records():
			if !ok {
				return records, nil
			}
			records = append(records, rec)
		case <-ctx.Done():
			return records, nil
		}
	}
}
