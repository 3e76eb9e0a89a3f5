package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopkit/shopkit/internal/port"
)

type cartRepository struct {
	db querier
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{db: pool}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{db: tx}
}

func (r *cartRepository) Create(ctx context.Context) (domain.Cart, error) {
	var cart domain.Cart

	err := r.db.QueryRow(ctx,
		`INSERT INTO carts DEFAULT VALUES RETURNING id, created_at`).
		Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) Get(ctx context.Context, id uuid.UUID) (domain.Cart, error) {
	var cart domain.Cart

	err := r.db.QueryRow(ctx, `SELECT id, created_at FROM carts WHERE id = $1`, id).
		Scan(&cart.ID, &cart.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Cart{}, fmt.Errorf("cart[%s]: %w", id, domain.ErrNotFound)
		}
		return domain.Cart{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	cart.Lines, err = r.lines(ctx, id)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("lines: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) List(ctx context.Context) ([]domain.Cart, error) {
	rows, err := r.db.Query(ctx, `SELECT id, created_at FROM carts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	for i := range carts {
		carts[i].Lines, err = r.lines(ctx, carts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("lines: %w", err)
		}
	}

	return carts, nil
}

// Delete removes the cart; its lines go with it via the FK cascade.
func (r *cartRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) GetLine(ctx context.Context, cartID, itemID uuid.UUID) (domain.CartLine, error) {
	var line domain.CartLine

	err := r.db.QueryRow(ctx,
		`SELECT cart_id, item_id, quantity, created_at, updated_at
		 FROM cart_lines WHERE cart_id = $1 AND item_id = $2`,
		cartID, itemID).
		Scan(&line.CartID, &line.ItemID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CartLine{}, fmt.Errorf("line[%s/%s]: %w", cartID, itemID, domain.ErrNotFound)
		}
		return domain.CartLine{}, fmt.Errorf("db.QueryRow: %w", err)
	}

	return line, nil
}

func (r *cartRepository) AddLine(ctx context.Context, line domain.CartLine) error {
	if line.Quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", line.Quantity, domain.ErrInvalidQuantity)
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO cart_lines (cart_id, item_id, quantity) VALUES ($1, $2, $3)`,
		line.CartID, line.ItemID, line.Quantity)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	return nil
}

func (r *cartRepository) UpdateLineQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	tag, err := r.db.Exec(ctx,
		`UPDATE cart_lines SET quantity = $3, updated_at = now()
		 WHERE cart_id = $1 AND item_id = $2`,
		cartID, itemID, quantity)
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("line[%s/%s]: %w", cartID, itemID, domain.ErrNotFound)
	}

	return nil
}

func (r *cartRepository) RemoveLine(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM cart_lines WHERE cart_id = $1 AND item_id = $2`,
		cartID, itemID)
	if err != nil {
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *cartRepository) lines(ctx context.Context, cartID uuid.UUID) ([]domain.CartLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT cart_id, item_id, quantity, created_at, updated_at
		 FROM cart_lines WHERE cart_id = $1 ORDER BY created_at`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.CartID, &line.ItemID, &line.Quantity, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return lines, nil
}
