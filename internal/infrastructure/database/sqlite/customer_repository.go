// Package sqlite stores customers in a single SQLite file through database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"customer-service/internal/domain/customer"
	"customer-service/internal/pkg/apperrors"

	"github.com/mattn/go-sqlite3"
)

const createTableSQL = `
	CREATE TABLE IF NOT EXISTS customer (
		id    INTEGER PRIMARY KEY AUTOINCREMENT,
		name  TEXT    NOT NULL,
		email TEXT    NOT NULL UNIQUE,
		age   INTEGER NOT NULL
	)`

type CustomerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

// Open opens the database at path and creates the customer table if needed.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*CustomerRepository, error) {
	if path == "" {
		return nil, errors.New("sqlite database path is empty in configuration")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", apperrors.ErrDatabase, err)
	}
	// an in-memory database lives only as long as its single connection
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	repo, err := NewCustomerRepository(ctx, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func NewCustomerRepository(ctx context.Context, db *sql.DB, logger *slog.Logger) (*CustomerRepository, error) {
	if db == nil {
		panic("sql.DB cannot be nil for sqlite CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("%w: create customer table: %w", apperrors.ErrDatabase, err)
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "SQLiteCustomerRepository"),
	}, nil
}

func (r *CustomerRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func (r *CustomerRepository) Close() error {
	return r.db.Close()
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*customer.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, email, age FROM customer ORDER BY id ASC")
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query customers", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to query customers: %w", apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0)
	for rows.Next() {
		var cust customer.Customer
		if err := rows.Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Age); err != nil {
			return nil, fmt.Errorf("%w: failed to scan customer row: %w", apperrors.ErrDatabase, err)
		}
		customers = append(customers, &cust)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating customer rows: %w", apperrors.ErrDatabase, err)
	}
	return customers, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	var cust customer.Customer
	err := r.db.QueryRowContext(ctx, "SELECT id, name, email, age FROM customer WHERE id = ? LIMIT 1", customerID).
		Scan(&cust.ID, &cust.Name, &cust.Email, &cust.Age)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to get customer by ID: %w", apperrors.ErrDatabase, err)
	}
	return &cust, nil
}

func (r *CustomerRepository) ExistsByID(ctx context.Context, customerID int64) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS (SELECT 1 FROM customer WHERE id = ?)", customerID)
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "SELECT EXISTS (SELECT 1 FROM customer WHERE email = ?)", email)
}

func (r *CustomerRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&found); err != nil {
		return false, fmt.Errorf("%w: failed to check customer existence: %w", apperrors.ErrDatabase, err)
	}
	return found, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	result, err := r.db.ExecContext(ctx, "INSERT INTO customer (name, email, age) VALUES (?, ?, ?)",
		cust.Name, cust.Email, cust.Age)
	if err != nil {
		return r.translate(ctx, "insert", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: failed to read inserted id: %w", apperrors.ErrDatabase, err)
	}
	cust.ID = id
	r.logger.InfoContext(ctx, "Customer inserted successfully", slog.Int64("customerID", id))
	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	result, err := r.db.ExecContext(ctx, "UPDATE customer SET name = ?, email = ?, age = ? WHERE id = ?",
		cust.Name, cust.Email, cust.Age, cust.ID)
	if err != nil {
		return r.translate(ctx, "update", err)
	}
	return requireAffected(result)
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM customer WHERE id = ?", customerID)
	if err != nil {
		return r.translate(ctx, "delete", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to read affected rows: %w", apperrors.ErrDatabase, err)
	}
	if n == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) translate(ctx context.Context, op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		r.logger.WarnContext(ctx, "Unique constraint violation", slog.String("op", op))
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, sqliteErr.Error())
	}
	r.logger.ErrorContext(ctx, "Failed to execute statement", slog.String("op", op), slog.Any("error", err))
	return apperrors.WrapDatabaseError(err, fmt.Sprintf("failed to %s customer", op))
}
