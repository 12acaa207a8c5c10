package resource_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lromero/customerbook/internal/client/api"
	"github.com/lromero/customerbook/internal/client/resource"
)

const listKey = "/api/customers"

func TestStore_Load(t *testing.T) {
	t.Run("fetches once and serves the cache afterwards", func(t *testing.T) {
		var calls atomic.Int32
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			calls.Add(1)
			return []api.Customer{{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"}}, nil
		})

		snap, err := store.Load(context.Background(), listKey)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if snap.Status != resource.StatusReady {
			t.Fatalf("expected ready, got %s", snap.Status)
		}
		if len(snap.Data) != 1 || snap.Data[0].Email != "ann@x.com" {
			t.Fatalf("unexpected data: %+v", snap.Data)
		}

		if _, err := store.Load(context.Background(), listKey); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := calls.Load(); got != 1 {
			t.Fatalf("expected 1 fetch, got %d", got)
		}
	})

	t.Run("concurrent loads share a single fetch", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			calls.Add(1)
			<-release
			return []api.Customer{{Email: "ann@x.com"}}, nil
		})

		var wg sync.WaitGroup
		first := make(chan struct{})
		wg.Add(1)
		go func() {
			defer wg.Done()
			close(first)
			if _, err := store.Load(context.Background(), listKey); err != nil {
				t.Errorf("load: %v", err)
			}
		}()
		<-first

		// second loader joins the in-flight fetch instead of starting its own
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Load(context.Background(), listKey); err != nil {
				t.Errorf("load: %v", err)
			}
		}()

		close(release)
		wg.Wait()

		if got := calls.Load(); got != 1 {
			t.Fatalf("expected 1 fetch, got %d", got)
		}
	})

	t.Run("failure surfaces as a failed snapshot", func(t *testing.T) {
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			return nil, &api.APIError{Code: "internal_error", Message: "db down"}
		})

		snap, err := store.Load(context.Background(), listKey)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if snap.Status != resource.StatusFailed {
			t.Fatalf("expected failed, got %s", snap.Status)
		}
		if snap.Err == nil || snap.Err.Error() != "db down" {
			t.Fatalf("expected db down, got %v", snap.Err)
		}
	})

	t.Run("load after a failure retries", func(t *testing.T) {
		var calls atomic.Int32
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("transient")
			}
			return []api.Customer{{Email: "ann@x.com"}}, nil
		})

		if _, err := store.Load(context.Background(), listKey); err == nil {
			t.Fatal("expected first load to fail")
		}
		snap, err := store.Load(context.Background(), listKey)
		if err != nil {
			t.Fatalf("expected retry to succeed, got %v", err)
		}
		if snap.Status != resource.StatusReady {
			t.Fatalf("expected ready, got %s", snap.Status)
		}
	})
}

func TestStore_Revalidate(t *testing.T) {
	t.Run("replaces cached data on success", func(t *testing.T) {
		var calls atomic.Int32
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			if calls.Add(1) == 1 {
				return []api.Customer{{Email: "ann@x.com"}}, nil
			}
			return []api.Customer{{Email: "ann@x.com"}, {Email: "bob@x.com"}}, nil
		})

		if _, err := store.Load(context.Background(), listKey); err != nil {
			t.Fatalf("load: %v", err)
		}
		snap, err := store.Revalidate(context.Background(), listKey)
		if err != nil {
			t.Fatalf("revalidate: %v", err)
		}
		if len(snap.Data) != 2 {
			t.Fatalf("expected 2 customers after revalidate, got %d", len(snap.Data))
		}
	})

	t.Run("failure keeps stale data and propagates the error", func(t *testing.T) {
		var calls atomic.Int32
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			if calls.Add(1) == 1 {
				return []api.Customer{{Email: "ann@x.com"}}, nil
			}
			return nil, errors.New("db down")
		})

		if _, err := store.Load(context.Background(), listKey); err != nil {
			t.Fatalf("load: %v", err)
		}
		snap, err := store.Revalidate(context.Background(), listKey)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if snap.Status != resource.StatusReady {
			t.Fatalf("expected stale ready snapshot, got %s", snap.Status)
		}
		if len(snap.Data) != 1 || snap.Data[0].Email != "ann@x.com" {
			t.Fatalf("expected stale data kept, got %+v", snap.Data)
		}
	})

	t.Run("superseded fetch is discarded", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		firstFetch := make(chan struct{})
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			if calls.Add(1) == 1 {
				close(firstFetch)
				<-release
				return []api.Customer{{Email: "stale@x.com"}}, nil
			}
			return []api.Customer{{Email: "fresh@x.com"}}, nil
		})

		done := make(chan struct{})
		go func() {
			defer close(done)
			// slow first fetch, completes after the second one
			_, _ = store.Revalidate(context.Background(), listKey)
		}()
		<-firstFetch

		snap, err := store.Revalidate(context.Background(), listKey)
		if err != nil {
			t.Fatalf("revalidate: %v", err)
		}
		if snap.Data[0].Email != "fresh@x.com" {
			t.Fatalf("expected fresh data, got %+v", snap.Data)
		}

		close(release)
		<-done

		final := store.Snapshot(listKey)
		if final.Data[0].Email != "fresh@x.com" {
			t.Fatalf("expected superseded result to be dropped, got %+v", final.Data)
		}
	})
}

func TestStore_Subscribe(t *testing.T) {
	t.Run("notifies on every transition", func(t *testing.T) {
		var calls atomic.Int32
		store := resource.NewStore(func(ctx context.Context, key string) ([]api.Customer, error) {
			calls.Add(1)
			return []api.Customer{{Email: "ann@x.com"}}, nil
		})

		var mu sync.Mutex
		var seen []resource.Status
		unsubscribe := store.Subscribe(listKey, func(snap resource.Snapshot[[]api.Customer]) {
			mu.Lock()
			seen = append(seen, snap.Status)
			mu.Unlock()
		})

		if _, err := store.Load(context.Background(), listKey); err != nil {
			t.Fatalf("load: %v", err)
		}
		if _, err := store.Revalidate(context.Background(), listKey); err != nil {
			t.Fatalf("revalidate: %v", err)
		}

		mu.Lock()
		got := append([]resource.Status(nil), seen...)
		mu.Unlock()

		want := []resource.Status{resource.StatusLoading, resource.StatusReady, resource.StatusReady}
		if len(got) != len(want) {
			t.Fatalf("expected %d notifications, got %d (%v)", len(want), len(got), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected transition %d to be %s, got %s", i, want[i], got[i])
			}
		}

		unsubscribe()
		if _, err := store.Revalidate(context.Background(), listKey); err != nil {
			t.Fatalf("revalidate: %v", err)
		}
		mu.Lock()
		after := len(seen)
		mu.Unlock()
		if after != len(want) {
			t.Fatalf("expected no notifications after unsubscribe, got %d", after-len(want))
		}
	})
}
