package port

import "context"

// Stores bundles the repositories bound to one transaction.
type Stores struct {
	Items ItemRepository
	Carts CartRepository
}

// TxManager runs fn against transaction-scoped stores. The transaction
// commits when fn returns nil and rolls back otherwise, so a failed cart
// mutation leaves stock and line state untouched.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(s Stores) error) error
}
