package mongo

import (
	"context"

	"github.com/lromero/customerbook/internal/core/port"
	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionManager runs fn inside a mongo session so the customer insert
// and its outbox entry commit atomically.
type TransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) port.TransactionManager {
	return &TransactionManager{client: client}
}

func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := tm.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})

	return err
}
