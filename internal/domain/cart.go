package domain

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID    uuid.UUID
	Lines []CartLine

	CreatedAt time.Time
}

// CartLine is the quantity of one item within one cart, keyed by the
// (cart, item) pair. Quantity is always positive; a line that would drop to
// zero is removed instead.
type CartLine struct {
	CartID   uuid.UUID
	ItemID   uuid.UUID
	Quantity int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineDetails is the read-side view of a line: the referenced item plus the
// subtotal for the line's full current quantity. Computed, never stored.
type LineDetails struct {
	ItemID   uuid.UUID
	Quantity int64
	Item     Item
	Subtotal Money
}

// CartDetails is the read-side view of a whole cart. Total is recomputed
// from current item prices on every read.
type CartDetails struct {
	ID    uuid.UUID
	Lines []LineDetails
	Total Money
}
