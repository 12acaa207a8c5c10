package service

import (
	"context"
	"time"

	"github.com/lromero/customerbook/internal/core/domain"
	"github.com/lromero/customerbook/internal/core/dto"
	"github.com/lromero/customerbook/internal/core/logger"
	"github.com/lromero/customerbook/internal/core/port"
	"github.com/lromero/customerbook/internal/core/serviceerrors"
	"github.com/lromero/customerbook/internal/core/utils"
)

const (
	customerListCacheKey = "customers:all"
	customerListCacheTTL = 5 * time.Minute
)

type CustomerService struct {
	customerRepository port.CustomerPort
	listCache          port.CachePort[[]domain.Customer]
	idempotency        *IdempotencyService[domain.Customer]
	txManager          port.TransactionManager
}

func NewCustomerService(
	customerRepository port.CustomerPort,
	listCache port.CachePort[[]domain.Customer],
	idempotency *IdempotencyService[domain.Customer],
	txManager port.TransactionManager,
) *CustomerService {
	return &CustomerService{
		customerRepository: customerRepository,
		listCache:          listCache,
		idempotency:        idempotency,
		txManager:          txManager,
	}
}

// List serves the full collection read-through: cache hit returns the cached
// slice, a miss loads from the repository and repopulates the cache.
func (s *CustomerService) List(ctx context.Context) ([]domain.Customer, error) {
	cached, err := s.listCache.Get(ctx, customerListCacheKey)
	if err != nil {
		logger.Error(ctx, "cache: get customer list failed", err, nil)
	}
	if cached != nil {
		return *cached, nil
	}

	customers, err := s.customerRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.listCache.Set(ctx, customerListCacheKey, &customers, customerListCacheTTL); err != nil {
		logger.Error(ctx, "cache: set customer list failed", err, nil)
	}

	return customers, nil
}

func (s *CustomerService) processCreate(ctx context.Context, request *dto.CreateCustomerRequest) (*domain.Customer, error) {
	customer := domain.NewCustomer(request.FirstName, request.LastName, request.Email, request.BusinessName)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.customerRepository.CreateWithOutbox(txCtx, customer)
	})
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			return nil, serviceerrors.NewConflictError("email already exists")
		}
		logger.Error(ctx, "transaction: create customer failed", err, map[string]any{
			"email": request.Email,
		})
		return nil, err
	}

	// every reader revalidates against a fresh list after a create
	if err := s.listCache.Del(ctx, customerListCacheKey); err != nil {
		logger.Error(ctx, "cache: invalidate customer list failed", err, nil)
	}

	logger.Info(ctx, "Customer created", map[string]any{
		"customer_id": customer.ID,
	})
	return customer, nil
}

func (s *CustomerService) Create(ctx context.Context, idempotencyKey string, request *dto.CreateCustomerRequest) (*domain.Customer, error) {
	if idempotencyKey == "" {
		return s.processCreate(ctx, request)
	}

	payloadHash := utils.HashJSON(request)

	existing, err := s.idempotency.Claim(ctx, idempotencyKey, payloadHash)
	if err != nil {
		logger.Error(ctx, "idempotency: claim failed", err, map[string]any{
			"idempotency_key": idempotencyKey,
		})
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	customer, err := s.processCreate(ctx, request)
	if err != nil {
		s.idempotency.Release(ctx, idempotencyKey)
		return nil, err
	}

	s.idempotency.Complete(ctx, idempotencyKey, payloadHash, customer)

	return customer, nil
}
