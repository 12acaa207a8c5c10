package resource

import (
	"context"
	"sync"
	"time"
)

// Status of a cached resource. A snapshot is always exactly one of loading,
// ready, or failed.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type Snapshot[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

// FetchFunc loads the current server state of the resource stored under key.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Store caches fetched resources under explicit string keys and keeps at most
// one snapshot per key. Load serves the cached value when present and ensures
// a single in-flight fetch per key; Revalidate always refetches. Completed
// fetches that were superseded by a later Revalidate are discarded, so the
// snapshot only ever moves forward.
type Store[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	entries map[string]*entry[T]
}

type entry[T any] struct {
	snapshot Snapshot[T]
	seq      uint64
	inflight chan struct{}
	subs     map[int]func(Snapshot[T])
	nextSub  int
}

func NewStore[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{
		fetch:   fetch,
		entries: make(map[string]*entry[T]),
	}
}

func (s *Store[T]) entryLocked(key string) *entry[T] {
	e, ok := s.entries[key]
	if !ok {
		e = &entry[T]{
			snapshot: Snapshot[T]{Status: StatusLoading},
			subs:     make(map[int]func(Snapshot[T])),
		}
		s.entries[key] = e
	}
	return e
}

// Snapshot returns the current state of the resource without fetching.
func (s *Store[T]) Snapshot(key string) Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entryLocked(key).snapshot
}

// Subscribe registers fn to be called on every state transition of the
// resource under key. Callbacks run synchronously while the store is locked
// and must not call back into the store. The returned function removes the
// subscription.
func (s *Store[T]) Subscribe(key string, fn func(Snapshot[T])) func() {
	s.mu.Lock()
	e := s.entryLocked(key)
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(e.subs, id)
		s.mu.Unlock()
	}
}

// Load returns the cached snapshot, fetching first when the resource is not
// ready. A load that finds a fetch already in flight waits for that fetch
// instead of issuing its own. A load after a failure retries.
func (s *Store[T]) Load(ctx context.Context, key string) (Snapshot[T], error) {
	s.mu.Lock()
	e := s.entryLocked(key)

	if e.snapshot.Status == StatusReady {
		snap := e.snapshot
		s.mu.Unlock()
		return snap, nil
	}

	if e.inflight != nil {
		done := e.inflight
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return Snapshot[T]{}, ctx.Err()
		}
		s.mu.Lock()
		snap := e.snapshot
		s.mu.Unlock()
		if snap.Status == StatusFailed {
			return snap, snap.Err
		}
		return snap, nil
	}

	seq, done := s.beginFetchLocked(e)
	s.notifyLocked(e)
	s.mu.Unlock()

	return s.runFetch(ctx, key, e, seq, done)
}

// Revalidate forces a fresh fetch, replacing the cached data on success. On
// failure the error propagates to the caller while any previously loaded data
// stays in place for display.
func (s *Store[T]) Revalidate(ctx context.Context, key string) (Snapshot[T], error) {
	s.mu.Lock()
	e := s.entryLocked(key)
	seq, done := s.beginFetchLocked(e)
	s.mu.Unlock()

	return s.runFetch(ctx, key, e, seq, done)
}

// beginFetchLocked tags a new fetch with the next sequence number. A fetch
// still in flight for the same key is superseded: its result will be dropped
// when it completes.
func (s *Store[T]) beginFetchLocked(e *entry[T]) (uint64, chan struct{}) {
	e.seq++
	done := make(chan struct{})
	e.inflight = done
	return e.seq, done
}

func (s *Store[T]) runFetch(ctx context.Context, key string, e *entry[T], seq uint64, done chan struct{}) (Snapshot[T], error) {
	data, err := s.fetch(ctx, key)

	s.mu.Lock()
	if e.inflight == done {
		e.inflight = nil
	}
	close(done)

	if e.seq != seq {
		// superseded by a later fetch: the store keeps the newer outcome,
		// the caller still gets its own result
		snap := e.snapshot
		s.mu.Unlock()
		if err != nil {
			return snap, err
		}
		return snap, nil
	}

	now := time.Now()
	if err != nil {
		if e.snapshot.Status != StatusReady {
			e.snapshot = Snapshot[T]{Status: StatusFailed, Err: err, UpdatedAt: now}
			s.notifyLocked(e)
		}
		snap := e.snapshot
		s.mu.Unlock()
		return snap, err
	}

	e.snapshot = Snapshot[T]{Status: StatusReady, Data: data, UpdatedAt: now}
	s.notifyLocked(e)
	snap := e.snapshot
	s.mu.Unlock()
	return snap, nil
}

func (s *Store[T]) notifyLocked(e *entry[T]) {
	snap := e.snapshot
	for _, fn := range e.subs {
		fn(snap)
	}
}
