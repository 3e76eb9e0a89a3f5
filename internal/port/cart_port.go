package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopkit/shopkit/internal/domain"
)

type CartRepository interface {
	Create(ctx context.Context) (domain.Cart, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Cart, error)
	List(ctx context.Context) ([]domain.Cart, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	GetLine(ctx context.Context, cartID, itemID uuid.UUID) (domain.CartLine, error)
	// AddLine inserts a fresh line. The caller guarantees no line exists for
	// the (cart, item) pair; merging lives in the cart service.
	AddLine(ctx context.Context, line domain.CartLine) error
	UpdateLineQuantity(ctx context.Context, cartID, itemID uuid.UUID, quantity int64) error
	RemoveLine(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
}
