// Package seed registers a random demo customer on startup.
package seed

import (
	"context"
	"customer-service/internal/domain/customer"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

const (
	minAge = 16
	maxAge = 99

	emailDomain = "gmail.com"
)

type Seeder struct {
	service customer.CustomerService
	faker   *gofakeit.Faker
	logger  *slog.Logger
}

// NewSeeder uses faker for all random values; pass nil for a randomly seeded one.
func NewSeeder(svc customer.CustomerService, faker *gofakeit.Faker, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &Seeder{
		service: svc,
		faker:   faker,
		logger:  logger.With("component", "Seeder"),
	}
}

// RandomRegistration builds "First Last" with first.last@gmail.com and an age in [16, 99].
func (s *Seeder) RandomRegistration() customer.RegistrationRequest {
	first := s.faker.FirstName()
	last := s.faker.LastName()
	return customer.RegistrationRequest{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s@%s", strings.ToLower(first), strings.ToLower(last), emailDomain),
		Age:   s.faker.Number(minAge, maxAge),
	}
}

// SeedOne registers one random customer through the service, so the usual
// uniqueness rule applies.
func (s *Seeder) SeedOne(ctx context.Context) (*customer.Customer, error) {
	req := s.RandomRegistration()
	created, err := s.service.RegisterCustomer(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to seed customer", slog.String("email", req.Email), slog.Any("error", err))
		return nil, fmt.Errorf("seed customer: %w", err)
	}
	s.logger.InfoContext(ctx, "Seeded customer", slog.Int64("customerID", created.ID), slog.String("email", created.Email))
	return created, nil
}
