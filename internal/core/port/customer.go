package port

import (
	"context"

	"github.com/lromero/customerbook/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type CustomerPort interface {
	// CreateWithOutbox inserts the customer and a customer.created outbox
	// entry using the given context; callers wrap it in a transaction.
	CreateWithOutbox(ctx context.Context, customer *domain.Customer) error
	GetAll(ctx context.Context) ([]domain.Customer, error)
}
