package customer_test

import (
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCustomer(t *testing.T) {
	cust := customer.NewCustomer("Alice Wonderland", "alice@rabbit.hole", 31)

	assert.NotNil(t, cust, "NewCustomer should return a non-nil customer")
	assert.Equal(t, "Alice Wonderland", cust.Name)
	assert.Equal(t, "alice@rabbit.hole", cust.Email)
	assert.Equal(t, 31, cust.Age)
	assert.Equal(t, int64(0), cust.ID, "ID should be left for the store to assign")
}

func TestErrorKinds(t *testing.T) {
	notFound := &customer.NotFoundError{ID: 12}

	assert.EqualError(t, notFound, "customer with id [12] not found")
	assert.ErrorIs(t, notFound, customer.ErrNotFound)
	assert.ErrorIs(t, notFound, apperrors.ErrNotFound)

	assert.EqualError(t, customer.ErrEmailTaken, "Email is already taken")
	assert.ErrorIs(t, customer.ErrEmailTaken, apperrors.ErrConflict)

	assert.EqualError(t, customer.ErrNoDataChanged, "No data changed")
	assert.ErrorIs(t, customer.ErrNoDataChanged, apperrors.ErrValidation)

	assert.False(t, errors.Is(customer.ErrEmailTaken, apperrors.ErrNotFound))
}
