package dto

import (
	"customer-service/internal/domain/customer"
)

type RegistrationRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Age   int    `json:"age" validate:"required,min=1,max=150"`
}

func (r *RegistrationRequest) Validate() error {
	return validateStruct(r)
}

func (r *RegistrationRequest) ToDomain() customer.RegistrationRequest {
	return customer.RegistrationRequest{
		Name:  r.Name,
		Email: r.Email,
		Age:   r.Age,
	}
}

// UpdateRequest is sparse: omitted fields stay untouched.
type UpdateRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,min=1,max=255"`
	Email *string `json:"email,omitempty" validate:"omitnil,email,max=255"`
	Age   *int    `json:"age,omitempty" validate:"omitnil,min=1,max=150"`
}

func (r *UpdateRequest) Validate() error {
	return validateStruct(r)
}

func (r *UpdateRequest) ToDomain() customer.UpdateRequest {
	return customer.UpdateRequest{
		Name:  r.Name,
		Email: r.Email,
		Age:   r.Age,
	}
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:    cust.ID,
		Name:  cust.Name,
		Email: cust.Email,
		Age:   cust.Age,
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	resp := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, NewCustomerResponse(c))
	}
	return resp
}
