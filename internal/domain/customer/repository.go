package customer

import (
	"context"
)

// CustomerRepository is the persistence contract. It enforces nothing beyond
// physical storage; uniqueness and existence rules live in the service.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]*Customer, error)

	// FindByID returns ErrNotFound when no row has the given id.
	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	ExistsByID(ctx context.Context, customerID int64) (bool, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Insert stores a customer with no id and writes the assigned id back.
	Insert(ctx context.Context, customer *Customer) error

	Delete(ctx context.Context, customerID int64) error

	Update(ctx context.Context, customer *Customer) error
}
