package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lromero/customerbook/internal/adapters/mongo/document"
	"github.com/lromero/customerbook/internal/adapters/outbox"
	"github.com/lromero/customerbook/internal/core/domain"
	"github.com/lromero/customerbook/internal/core/logger"
	"github.com/lromero/customerbook/internal/core/port"
)

type CustomerRepository struct {
	*BaseRepository[document.CustomerDocument]
	collection *mongo.Collection
	outbox     outbox.Repository
}

func NewCustomerRepository(db *mongo.Database, outbox outbox.Repository) port.CustomerPort {
	repo := &CustomerRepository{
		BaseRepository: NewBaseRepository[document.CustomerDocument](db, "customers"),
		collection:     db.Collection("customers"),
		outbox:         outbox,
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "customers",
		})
	}

	return repo
}

func (r *CustomerRepository) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetUnique(false),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// CreateWithOutbox inserts the customer and its created event in one go. The
// caller is expected to run it inside a transaction so both writes commit or
// roll back together.
func (r *CustomerRepository) CreateWithOutbox(ctx context.Context, customer *domain.Customer) error {
	if customer.ID != "" {
		return errors.New("cannot create customer with existing ID")
	}

	doc := document.ToDocument(customer)
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return parseError(err)
	}

	customer.ID = domain.ID(result.InsertedID.(primitive.ObjectID).Hex())
	customer.CreatedAt = doc.CreatedAt
	customer.UpdatedAt = doc.UpdatedAt

	event := domain.NewCustomerCreatedEvent(customer.ID, customer.Email, customer.CreatedAt)
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	entry := outbox.Entry{
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  eventData,
	}
	return r.outbox.Insert(ctx, entry)
}

func (r *CustomerRepository) GetAll(ctx context.Context) ([]domain.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	docs, err := r.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, len(docs))
	for i := range docs {
		customers[i] = *docs[i].ToDomain()
	}

	return customers, nil
}
