package sqlite

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (context.Context, *CustomerRepository) {
	t.Helper()
	ctx := context.Background()
	repo, err := Open(ctx, ":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return ctx, repo
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "", nil)
	assert.Error(t, err)
}

func TestInsertAndFind(t *testing.T) {
	ctx, repo := setupRepo(t)

	first := customer.NewCustomer("Alex", "alex@example.com", 30)
	second := customer.NewCustomer("Jamie", "jamie@example.com", 41)
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0])
	assert.Equal(t, second, all[1])

	got, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestExists(t *testing.T) {
	ctx, repo := setupRepo(t)
	cust := customer.NewCustomer("Alex", "alex@example.com", 30)
	require.NoError(t, repo.Insert(ctx, cust))

	found, err := repo.ExistsByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.ExistsByID(ctx, cust.ID+1)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.ExistsByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.ExistsByEmail(ctx, "ALEX@example.com")
	require.NoError(t, err)
	assert.False(t, found, "email match is case-sensitive")
}

func TestDuplicateEmailIsConflict(t *testing.T) {
	ctx, repo := setupRepo(t)
	require.NoError(t, repo.Insert(ctx, customer.NewCustomer("Alex", "alex@example.com", 30)))

	err := repo.Insert(ctx, customer.NewCustomer("Other", "alex@example.com", 22))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	other := customer.NewCustomer("Jamie", "jamie@example.com", 41)
	require.NoError(t, repo.Insert(ctx, other))
	other.Email = "alex@example.com"
	assert.ErrorIs(t, repo.Update(ctx, other), apperrors.ErrConflict)
}

func TestStatementFailureIsDatabaseError(t *testing.T) {
	ctx, repo := setupRepo(t)
	require.NoError(t, repo.Close())

	err := repo.Insert(ctx, customer.NewCustomer("Alex", "alex@example.com", 30))
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.Equal(t, "failed to insert customer", appErr.Message)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx, repo := setupRepo(t)
	cust := customer.NewCustomer("Alex", "alex@example.com", 30)
	require.NoError(t, repo.Insert(ctx, cust))

	cust.Age = 31
	cust.Name = "Alexandra"
	require.NoError(t, repo.Update(ctx, cust))

	got, err := repo.FindByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
	assert.Equal(t, "Alexandra", got.Name)

	require.NoError(t, repo.Delete(ctx, cust.ID))
	assert.ErrorIs(t, repo.Delete(ctx, cust.ID), customer.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, cust), customer.ErrNotFound)
}
