package document

import (
	"time"

	"github.com/lromero/customerbook/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CustomerDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	Email        string             `bson:"email"`
	BusinessName string             `bson:"business_name,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (doc CustomerDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *CustomerDocument) ToDomain() *domain.Customer {
	return &domain.Customer{
		ID:           domain.ID(doc.ID.Hex()),
		FirstName:    doc.FirstName,
		LastName:     doc.LastName,
		Email:        doc.Email,
		BusinessName: doc.BusinessName,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func ToDocument(customer *domain.Customer) *CustomerDocument {
	doc := &CustomerDocument{
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		Email:        customer.Email,
		BusinessName: customer.BusinessName,
		CreatedAt:    customer.CreatedAt,
		UpdatedAt:    customer.UpdatedAt,
	}

	if customer.ID != "" {
		objectID, _ := primitive.ObjectIDFromHex(string(customer.ID))
		doc.ID = objectID
	}

	return doc
}
