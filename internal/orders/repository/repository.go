package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kommosync/internal/orders/domain"
	"kommosync/platform/apperr"
)

const (
	orderNotFoundMessage  = "order not found"
	duplicateLeadMessage  = "an order for this lead already exists"
	uniqueViolationSQLErr = "23505"
)

// Repo implements the orders record store on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new orders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Store.
var _ Store = (*Repo)(nil)

// GetByID returns the order with the given local id.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	query := `
		SELECT id, phone_number, user_name, amount, status, lead_id
		FROM orders
		WHERE id = $1`

	return r.scanOrder(r.pool.QueryRow(ctx, query, id))
}

// GetByLeadID returns the order linked to the given Kommo lead.
func (r *Repo) GetByLeadID(ctx context.Context, leadID int64) (domain.Order, error) {
	query := `
		SELECT id, phone_number, user_name, amount, status, lead_id
		FROM orders
		WHERE lead_id = $1 AND lead_id <> 0`

	return r.scanOrder(r.pool.QueryRow(ctx, query, leadID))
}

// Insert persists a new order and returns it with the assigned id.
func (r *Repo) Insert(ctx context.Context, order domain.Order) (domain.Order, error) {
	query := `
		INSERT INTO orders (phone_number, user_name, amount, status, lead_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	if err := r.pool.QueryRow(ctx, query,
		order.PhoneNumber, order.UserName, order.Amount, order.Status.String(), order.LeadID,
	).Scan(&order.ID); err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, apperr.Wrap(apperr.KindConflict, duplicateLeadMessage, err)
		}
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	return order, nil
}

// Update overwrites the stored order identified by order.ID.
func (r *Repo) Update(ctx context.Context, order domain.Order) (domain.Order, error) {
	query := `
		UPDATE orders
		SET phone_number = $2,
			user_name = $3,
			amount = $4,
			status = $5,
			lead_id = $6,
			updated_at = now()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		order.ID, order.PhoneNumber, order.UserName, order.Amount, order.Status.String(), order.LeadID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Order{}, apperr.Wrap(apperr.KindConflict, duplicateLeadMessage, err)
		}
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Order{}, apperr.NotFound(orderNotFoundMessage)
	}

	return order, nil
}

// Delete removes the order with the given local id.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderNotFoundMessage)
	}
	return nil
}

// ListAll returns every order, oldest first.
func (r *Repo) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT id, phone_number, user_name, amount, status, lead_id
		FROM orders
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repo) scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string

	if err := row.Scan(
		&order.ID, &order.PhoneNumber, &order.UserName, &order.Amount, &status, &order.LeadID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, apperr.NotFound(orderNotFoundMessage)
		}
		return domain.Order{}, fmt.Errorf("scan order: %w", err)
	}

	if mapped, ok := domain.StatusFromName(status); ok {
		order.Status = mapped
	}
	return order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQLErr
}
