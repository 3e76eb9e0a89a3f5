package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopkit/shopkit/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const itemColumns = "id, name, price_amount, price_currency, description, thumbnail, stock, kind, created_at, updated_at"

type itemRepository struct {
	db querier
}

func NewItem(pool *pgxpool.Pool) port.ItemRepository {
	return &itemRepository{db: pool}
}

func NewItemWithTx(tx pgx.Tx) port.ItemRepository {
	return &itemRepository{db: tx}
}

func (r *itemRepository) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO items (name, price_amount, price_currency, description, thumbnail, stock, kind)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+itemColumns,
		item.Name, item.Price.Amount, item.Price.Currency.String(),
		item.Description, item.Thumbnail, item.Stock, string(item.Kind))

	created, err := scanItem(row)
	if err != nil {
		return domain.Item{}, fmt.Errorf("scanItem: %w", err)
	}

	return created, nil
}

func (r *itemRepository) Get(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	return r.get(ctx, id, false)
}

func (r *itemRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	return r.get(ctx, id, true)
}

func (r *itemRepository) get(ctx context.Context, id uuid.UUID, lock bool) (domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, fmt.Errorf("item[%s]: %w", id, domain.ErrNotFound)
		}
		return domain.Item{}, fmt.Errorf("scanItem: %w", err)
	}

	return item, nil
}

func (r *itemRepository) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanItem: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return items, nil
}

// Update applies a partial patch: nil fields keep their stored value.
func (r *itemRepository) Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return domain.Item{}, err
	}

	var priceAmount *decimal.Decimal
	var priceCurrency *string
	if patch.Price != nil {
		priceAmount = &patch.Price.Amount
		cur := patch.Price.Currency.String()
		priceCurrency = &cur
	}

	var kind *string
	if patch.Kind != nil {
		k := string(*patch.Kind)
		kind = &k
	}

	row := r.db.QueryRow(ctx,
		`UPDATE items SET
			name = COALESCE($2, name),
			price_amount = COALESCE($3, price_amount),
			price_currency = COALESCE($4, price_currency),
			description = COALESCE($5, description),
			thumbnail = COALESCE($6, thumbnail),
			stock = COALESCE($7, stock),
			kind = COALESCE($8, kind),
			updated_at = now()
		 WHERE id = $1
		 RETURNING `+itemColumns,
		id, patch.Name, priceAmount, priceCurrency, patch.Description, patch.Thumbnail, patch.Stock, kind)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, fmt.Errorf("item[%s]: %w", id, domain.ErrNotFound)
		}
		return domain.Item{}, fmt.Errorf("scanItem: %w", err)
	}

	return item, nil
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("item[%s]: %w", id, domain.ErrItemReferenced)
		}
		return false, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// DeleteBatch removes every listed item, failing the whole batch if one of
// them is still referenced by a cart line.
func (r *itemRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = ANY($1)`, ids)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("items: %w", domain.ErrItemReferenced)
		}
		return 0, fmt.Errorf("db.Exec: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *itemRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	var stock int64

	err := r.db.QueryRow(ctx,
		`UPDATE items SET stock = stock + $2, updated_at = now() WHERE id = $1 RETURNING stock`,
		id, delta).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("item[%s]: %w", id, domain.ErrNotFound)
		}
		if isCheckViolation(err) {
			// the stock >= 0 constraint is the backstop behind the
			// service-level check
			return 0, fmt.Errorf("item[%s]: %w", id, domain.ErrInsufficientStock)
		}
		return 0, fmt.Errorf("db.QueryRow: %w", err)
	}

	return stock, nil
}

func scanItem(row pgx.Row) (domain.Item, error) {
	var (
		item    domain.Item
		raw     string
		kindRaw string
	)

	err := row.Scan(&item.ID, &item.Name, &item.Price.Amount, &raw,
		&item.Description, &item.Thumbnail, &item.Stock, &kindRaw,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return domain.Item{}, err
	}

	item.Kind = domain.Kind(kindRaw)

	item.Price.Currency, err = currency.ParseISO(raw)
	if err != nil {
		return domain.Item{}, fmt.Errorf("currency[%s] is not valid: %w", raw, err)
	}

	return item, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
