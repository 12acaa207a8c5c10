package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lromero/customerbook/internal/adapters/http/handlers"
	"github.com/lromero/customerbook/internal/core/domain"
	"github.com/lromero/customerbook/internal/core/dto"
	"github.com/lromero/customerbook/internal/core/service"
	"github.com/lromero/customerbook/internal/core/serviceerrors"
)

type CustomerController struct {
	customerService *service.CustomerService
}

type CustomerResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	BusinessName string    `json:"businessName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:           string(customer.ID),
		FirstName:    customer.FirstName,
		LastName:     customer.LastName,
		Email:        customer.Email,
		BusinessName: customer.BusinessName,
		CreatedAt:    customer.CreatedAt,
		UpdatedAt:    customer.UpdatedAt,
	}
}

func NewCustomerController(customerService *service.CustomerService) *CustomerController {
	return &CustomerController{customerService: customerService}
}

// GetAll godoc
// @Summary     List customers
// @Description Returns every customer ordered by creation time
// @Tags        customers
// @Produce     json
// @Success     200 {array}  CustomerResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/customers [get]
func (customerController *CustomerController) GetAll(c *gin.Context) {
	customers, err := customerController.customerService.List(c.Request.Context())
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	response := make([]CustomerResponse, len(customers))
	for i := range customers {
		response[i] = NewCustomerResponse(&customers[i])
	}
	c.JSON(http.StatusOK, response)
}

// CreateCustomer godoc
// @Summary     Create a customer
// @Description Creates a new customer with a unique email and idempotency support
// @Tags        customers
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header   string                    false "Idempotency key"
// @Param       request         body     dto.CreateCustomerRequest  true  "Customer data"
// @Success     201             {object} CustomerResponse
// @Failure     400             {object} handlers.ErrorResponse
// @Failure     409             {object} handlers.ErrorResponse
// @Failure     429             {object} handlers.ErrorResponse
// @Failure     500             {object} handlers.ErrorResponse
// @Router      /api/customers [post]
func (customerController *CustomerController) CreateCustomer(c *gin.Context) {
	var request dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	idempotencyKey := c.GetHeader("Idempotency-Key")
	customer, err := customerController.customerService.Create(c.Request.Context(), idempotencyKey, &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewCustomerResponse(customer))
}
