package customer

import (
	"context"
	"customer-service/internal/event"
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type CustomerService interface {
	ListCustomers(ctx context.Context) ([]*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	RegisterCustomer(ctx context.Context, req RegistrationRequest) (*Customer, error)
	RemoveCustomer(ctx context.Context, customerID int64) error
	UpdateCustomer(ctx context.Context, customerID int64, req UpdateRequest) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if eventPublisher == nil {
		eventPublisher = event.NoopPublisher{}
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID: cust.ID,
		Name:       cust.Name,
		Email:      cust.Email,
		Age:        cust.Age,
	}
}

func (s *customerService) ListCustomers(ctx context.Context) ([]*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to list all customers")

	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customers", slog.Int("count", len(customers)))
	return customers, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to get customer by ID")

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.WarnContext(ctx, "Customer not found by repository")
			return nil, &NotFoundError{ID: customerID}
		}

		logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully retrieved customer")
	return customer, nil
}

func (s *customerService) RegisterCustomer(ctx context.Context, req RegistrationRequest) (*Customer, error) {
	logger := s.logger.With(slog.String("email", req.Email))
	logger.InfoContext(ctx, "Attempting to register new customer")

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.ErrorContext(ctx, "Repository error checking email", slog.Any("error", err))
		return nil, fmt.Errorf("failed to check email availability: %w", err)
	}
	if exists {
		logger.WarnContext(ctx, "Business rule failed: email already taken")
		return nil, ErrEmailTaken
	}

	customer := NewCustomer(req.Name, req.Email, req.Age)
	if err := s.repo.Insert(ctx, customer); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.WarnContext(ctx, "Email claimed concurrently, insert rejected by store")
			return nil, ErrEmailTaken
		}
		logger.ErrorContext(ctx, "Repository failed to insert new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}

	logger = logger.With(slog.Int64("customerID", customer.ID))
	logger.InfoContext(ctx, "Successfully registered new customer, publishing creation event")
	if pubErr := s.pub.PublishCustomerCreated(ctx, event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(customer),
	}); pubErr != nil {
		logger.ErrorContext(ctx, "Customer registered, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	return customer, nil
}

func (s *customerService) RemoveCustomer(ctx context.Context, customerID int64) error {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to remove customer")

	exists, err := s.repo.ExistsByID(ctx, customerID)
	if err != nil {
		logger.ErrorContext(ctx, "Repository error checking customer existence", slog.Any("error", err))
		return fmt.Errorf("failed to check customer %d: %w", customerID, err)
	}
	if !exists {
		logger.WarnContext(ctx, "Customer not found by repository")
		return &NotFoundError{ID: customerID}
	}

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.WarnContext(ctx, "Customer disappeared before delete completed")
			return &NotFoundError{ID: customerID}
		}
		logger.ErrorContext(ctx, "Repository failed to delete customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully removed customer, publishing deletion event")
	if pubErr := s.pub.PublishCustomerDeleted(ctx, event.CustomerDeletedEvent{
		Timestamp:  time.Now(),
		CustomerID: customerID,
	}); pubErr != nil {
		logger.ErrorContext(ctx, "Customer removed, but FAILED to publish deletion event", slog.Any("error", pubErr))
	}
	return nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, customerID int64, req UpdateRequest) (*Customer, error) {
	logger := s.logger.With(slog.Int64("customerID", customerID))
	logger.InfoContext(ctx, "Attempting to update customer")

	current, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	merged, err := ApplyUpdate(*current, req, func(email string) (bool, error) {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return false, fmt.Errorf("failed to check email availability: %w", err)
		}
		return exists, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			logger.WarnContext(ctx, "Business rule failed: email already taken")
		case errors.Is(err, ErrNoDataChanged):
			logger.WarnContext(ctx, "Update request carries no change, skipping save")
		default:
			logger.ErrorContext(ctx, "Failed to apply update", slog.Any("error", err))
		}
		return nil, err
	}

	if err := s.repo.Update(ctx, &merged); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			logger.WarnContext(ctx, "Customer disappeared before save completed")
			return nil, &NotFoundError{ID: customerID}
		case errors.Is(err, apperrors.ErrConflict):
			logger.WarnContext(ctx, "Email claimed concurrently, update rejected by store")
			return nil, ErrEmailTaken
		}
		logger.ErrorContext(ctx, "Repository failed to update customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update customer %d: %w", customerID, err)
	}

	logger.InfoContext(ctx, "Successfully updated customer, publishing update event")
	if pubErr := s.pub.PublishCustomerUpdated(ctx, event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(&merged),
	}); pubErr != nil {
		logger.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", pubErr))
	}

	return &merged, nil
}
