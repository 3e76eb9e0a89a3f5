package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopkit/shopkit/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Item, error)
	// GetForUpdate locks the item row for the rest of the enclosing
	// transaction. Only meaningful on a tx-scoped repository.
	GetForUpdate(ctx context.Context, id uuid.UUID) (domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// DeleteBatch removes every listed item, returning how many rows went.
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
	// AdjustStock applies a relative stock change and returns the new level.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int64) (int64, error)
}
