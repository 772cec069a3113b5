// Package lock provides per-resource mutual exclusion for the booking core.
//
// Reserve's check-then-write must be linearizable per resource: of any set of
// concurrent reservations with overlapping windows on one resource, exactly
// one may win. A Keyed lock table gives each resource id its own critical
// section without a global lock, so reservations on unrelated resources never
// contend.
package lock

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/carbook/backend/internal/domain"
)

// Keyed is a table of single-holder locks indexed by resource id.
// Entries are refcounted and removed once the last waiter releases, so the
// table stays proportional to the number of resources under contention, not
// the fleet size. The zero value is not usable; call NewKeyed.
type Keyed struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

// entry is one key's semaphore. sem has capacity 1; holding the token means
// holding the lock. refs counts holders plus waiters.
type entry struct {
	sem  chan struct{}
	refs int
}

// NewKeyed constructs an empty lock table.
func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[uuid.UUID]*entry)}
}

// Acquire takes the lock for key, waiting until it is free or ctx is done.
// On success it returns a release function that must be called exactly once.
// Returns domain.ErrLockTimeout (wrapping the ctx error) when the wait is cut
// short, leaving the lock untouched.
func (k *Keyed) Acquire(ctx context.Context, key uuid.UUID) (func(), error) {
	e := k.retain(key)

	select {
	case e.sem <- struct{}{}:
		return func() {
			<-e.sem
			k.release(key)
		}, nil
	case <-ctx.Done():
		k.release(key)
		return nil, fmt.Errorf("%w: resource %s: %v", domain.ErrLockTimeout, key, ctx.Err())
	}
}

// AcquireAll takes the locks for every key in ascending id order, so two
// requests each needing a car and a driver can never deadlock by grabbing
// them in opposite orders. Duplicate keys are acquired once. On any failure
// the locks already held are released before returning.
func (k *Keyed) AcquireAll(ctx context.Context, keys ...uuid.UUID) (func(), error) {
	ordered := dedupeSorted(keys)

	releases := make([]func(), 0, len(ordered))
	releaseAll := func() {
		// Release in reverse acquisition order.
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range ordered {
		release, err := k.Acquire(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// retain returns the entry for key, creating it if absent, with refs bumped.
func (k *Keyed) retain(key uuid.UUID) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

// release drops one reference to key's entry, deleting it when unused.
func (k *Keyed) release(key uuid.UUID) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(k.entries, key)
	}
}

// dedupeSorted returns keys sorted ascending with duplicates removed.
func dedupeSorted(keys []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	n := 0
	for i, key := range out {
		if i == 0 || key != out[i-1] {
			out[n] = key
			n++
		}
	}
	return out[:n]
}
