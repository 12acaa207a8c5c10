package dto

type CreateCustomerRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	BusinessName string `json:"businessName,omitempty"`
}
