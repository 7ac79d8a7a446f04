package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domain "github.com/RyanB1303/order-service/internal/entity"
	"github.com/RyanB1303/order-service/internal/usecase"
)

var ErrNotFound = errors.New("order not found")

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

const orderColumns = `id, book_isbn, book_name, book_price, quantity, status, version, created_at, updated_at`

func (r *MySQLOrderRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO orders (book_isbn, book_name, book_price, quantity, status, version, created_at, updated_at)
VALUES (?,?,?,?,?,0,NOW(),NOW())`,
		o.BookIsbn, nullString(o.BookName), nullFloat(o.BookPrice), o.Quantity, string(o.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert order id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+orderColumns+`
FROM orders WHERE id=?`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Update rewrites the row guarded by the version the caller read; a zero
// row count on an existing id means a concurrent writer won the race.
func (r *MySQLOrderRepo) Update(ctx context.Context, o domain.Order) (*domain.Order, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET book_name=?, book_price=?, quantity=?, status=?, version=version+1, updated_at=NOW()
WHERE id=? AND version=?`,
		nullString(o.BookName), nullFloat(o.BookPrice), o.Quantity, string(o.Status),
		o.ID, o.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		existing, err := r.GetByID(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, usecase.ErrVersionConflict
	}
	return r.GetByID(ctx, o.ID)
}

func (r *MySQLOrderRepo) FindAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		o     domain.Order
		name  sql.NullString
		price sql.NullFloat64
	)
	if err := s.Scan(&o.ID, &o.BookIsbn, &name, &price, &o.Quantity, &o.Status, &o.Version, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		o.BookName = &name.String
	}
	if price.Valid {
		o.BookPrice = &price.Float64
	}
	return &o, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
