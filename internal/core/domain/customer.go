package domain

import (
	"strings"
	"time"
)

type Customer struct {
	ID           ID
	FirstName    string
	LastName     string
	Email        string
	BusinessName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewCustomer(firstName, lastName, email, businessName string) *Customer {
	return &Customer{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		BusinessName: businessName,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type CustomerCreatedEvent struct {
	CustomerID ID        `json:"customer_id"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *CustomerCreatedEvent) GetName() string {
	return "customer.created"
}

func (e *CustomerCreatedEvent) GetEntityName() string {
	return "customer"
}

func NewCustomerCreatedEvent(customerID ID, email string, createdAt time.Time) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		CustomerID: customerID,
		Email:      email,
		CreatedAt:  createdAt,
	}
}
