package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lromero/customerbook/internal/core/domain"
	"github.com/lromero/customerbook/internal/core/port/mock"
	"github.com/lromero/customerbook/internal/core/serviceerrors"
	"go.uber.org/mock/gomock"
)

func idempotentCustomer() *domain.Customer {
	return &domain.Customer{
		ID:        "aabbccddee112233aabbccdd",
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "ann@example.com",
	}
}

func setupIdempotencyService(t *testing.T) (*IdempotencyService[domain.Customer], *mock.MockCachePort[IdempotencyEntry[domain.Customer]]) {
	ctrl := gomock.NewController(t)
	cache := mock.NewMockCachePort[IdempotencyEntry[domain.Customer]](ctrl)
	svc := NewIdempotencyService[domain.Customer](cache, 15*time.Minute, 50*time.Millisecond, 500*time.Millisecond)
	return svc, cache
}

func TestIdempotencyService_Claim(t *testing.T) {
	t.Run("first request - claims successfully", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"
		hash := "hash123"

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(true, nil)

		result, err := svc.Claim(context.Background(), key, hash)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result != nil {
			t.Fatal("expected nil result for first claim")
		}
	})

	t.Run("duplicate request - completed - returns stored customer", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"
		hash := "hash123"
		stored := idempotentCustomer()

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, nil)

		cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyCompleted,
				PayloadHash: hash,
				Result:      stored,
			}, nil)

		result, err := svc.Claim(context.Background(), key, hash)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result == nil {
			t.Fatal("expected customer, got nil")
		}
		if result.ID != stored.ID {
			t.Fatalf("expected ID %q, got %q", stored.ID, result.ID)
		}
		if result.Email != stored.Email {
			t.Fatalf("expected email %q, got %q", stored.Email, result.Email)
		}
	})

	t.Run("duplicate request - different payload hash", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, nil)

		cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyCompleted,
				PayloadHash: "different-hash",
				Result:      idempotentCustomer(),
			}, nil)

		_, err := svc.Claim(context.Background(), key, "new-hash")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})

	t.Run("duplicate request - entry disappeared (previous failed)", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"
		hash := "hash123"

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, nil)

		cache.EXPECT().
			Get(gomock.Any(), key).
			Return(nil, nil)

		_, err := svc.Claim(context.Background(), key, hash)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			t.Fatalf("expected KindConflict, got %v", err)
		}
	})

	t.Run("SetNX cache error", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"
		hash := "hash123"

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, errors.New("redis down"))

		_, err := svc.Claim(context.Background(), key, hash)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("duplicate request - still processing - polls and completes", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"
		hash := "hash123"
		stored := idempotentCustomer()

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, nil)

		firstCall := cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyProcessing,
				PayloadHash: hash,
			}, nil)

		secondCall := cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyProcessing,
				PayloadHash: hash,
			}, nil).
			After(firstCall)

		cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyCompleted,
				PayloadHash: hash,
				Result:      stored,
			}, nil).
			After(secondCall)

		result, err := svc.Claim(context.Background(), key, hash)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result == nil {
			t.Fatal("expected customer, got nil")
		}
		if result.ID != stored.ID {
			t.Fatalf("expected ID %q, got %q", stored.ID, result.ID)
		}
	})

	t.Run("duplicate request - still processing - times out", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mock.NewMockCachePort[IdempotencyEntry[domain.Customer]](ctrl)
		svc := NewIdempotencyService[domain.Customer](cache, 15*time.Minute, 20*time.Millisecond, 80*time.Millisecond)

		key := "create-customer-1"
		hash := "hash123"

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, nil)

		// Always returns processing
		cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyProcessing,
				PayloadHash: hash,
			}, nil).
			AnyTimes()

		_, err := svc.Claim(context.Background(), key, hash)
		if err == nil {
			t.Fatal("expected timeout error, got nil")
		}
		if !serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			t.Fatalf("expected KindConflict, got %v", err)
		}
	})

	t.Run("duplicate request - context cancelled while polling", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cache := mock.NewMockCachePort[IdempotencyEntry[domain.Customer]](ctrl)
		svc := NewIdempotencyService[domain.Customer](cache, 15*time.Minute, 50*time.Millisecond, 5*time.Second)

		key := "create-customer-1"
		hash := "hash123"

		cache.EXPECT().
			SetNX(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			Return(false, nil)

		cache.EXPECT().
			Get(gomock.Any(), key).
			Return(&IdempotencyEntry[domain.Customer]{
				Status:      IdempotencyProcessing,
				PayloadHash: hash,
			}, nil).
			AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(30 * time.Millisecond)
			cancel()
		}()

		_, err := svc.Claim(ctx, key, hash)
		if err == nil {
			t.Fatal("expected context error, got nil")
		}
	})
}

func TestIdempotencyService_Complete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"
		hash := "hash123"
		stored := idempotentCustomer()

		cache.EXPECT().
			Set(gomock.Any(), key, gomock.Any(), 15*time.Minute).
			DoAndReturn(func(_ context.Context, _ string, entry *IdempotencyEntry[domain.Customer], _ time.Duration) error {
				if entry.Status != IdempotencyCompleted {
					t.Fatalf("expected status %q, got %q", IdempotencyCompleted, entry.Status)
				}
				if entry.PayloadHash != hash {
					t.Fatalf("expected hash %q, got %q", hash, entry.PayloadHash)
				}
				if entry.Result.Email != stored.Email {
					t.Fatalf("expected result email %q, got %q", stored.Email, entry.Result.Email)
				}
				return nil
			})

		svc.Complete(context.Background(), key, hash, stored)
	})

	t.Run("cache error is logged but does not panic", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)

		cache.EXPECT().
			Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("redis error"))

		// Should not panic
		svc.Complete(context.Background(), "key", "hash", idempotentCustomer())
	})
}

func TestIdempotencyService_Release(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)
		key := "create-customer-1"

		cache.EXPECT().
			Del(gomock.Any(), key).
			Return(nil)

		svc.Release(context.Background(), key)
	})

	t.Run("cache error is logged but does not panic", func(t *testing.T) {
		svc, cache := setupIdempotencyService(t)

		cache.EXPECT().
			Del(gomock.Any(), gomock.Any()).
			Return(errors.New("redis error"))

		// Should not panic
		svc.Release(context.Background(), "key")
	})
}
