// Package memory keeps customers in process memory. It backs local runs
// and end-to-end tests that should not need a database.
package memory

import (
	"context"
	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
)

type CustomerRepository struct {
	mu     sync.RWMutex
	rows   map[int64]customer.Customer
	nextID int64
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(logger *slog.Logger) *CustomerRepository {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &CustomerRepository{
		rows:   make(map[int64]customer.Customer),
		logger: logger.With("component", "MemoryCustomerRepository"),
	}
}

// Ping always succeeds; there is nothing to reach.
func (r *CustomerRepository) Ping(context.Context) error { return nil }

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*customer.Customer, 0, len(r.rows))
	for _, row := range r.rows {
		c := row
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })

	r.logger.DebugContext(ctx, "Finished finding customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.rows[customerID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &row, nil
}

func (r *CustomerRepository) ExistsByID(_ context.Context, customerID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rows[customerID]
	return ok, nil
}

func (r *CustomerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.emailHolder(email) != 0, nil
}

// emailHolder returns the id owning email, or 0. Caller holds the lock.
func (r *CustomerRepository) emailHolder(email string) int64 {
	for id, row := range r.rows {
		if row.Email == email {
			return id
		}
	}
	return 0
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailHolder(cust.Email) != 0 {
		return fmt.Errorf("%w: customer email must be unique", apperrors.ErrConflict)
	}

	r.nextID++
	cust.ID = r.nextID
	r.rows[cust.ID] = *cust

	r.logger.DebugContext(ctx, "Customer inserted", slog.Int64("customerID", cust.ID))
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[customerID]; !ok {
		return customer.ErrNotFound
	}
	delete(r.rows, customerID)

	r.logger.DebugContext(ctx, "Customer deleted", slog.Int64("customerID", customerID))
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[cust.ID]; !ok {
		return customer.ErrNotFound
	}
	if holder := r.emailHolder(cust.Email); holder != 0 && holder != cust.ID {
		return fmt.Errorf("%w: customer email must be unique", apperrors.ErrConflict)
	}
	r.rows[cust.ID] = *cust

	r.logger.DebugContext(ctx, "Customer updated", slog.Int64("customerID", cust.ID))
	return nil
}
