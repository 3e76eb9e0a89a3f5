// Package service holds the cart service, the one place that is allowed to
// move stock: adding to a cart decrements the item's stock, removing
// restocks it, and both run inside a single transaction with the item row
// locked so concurrent requests can never overdraw.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopkit/shopkit/internal/port"
)

type CartService struct {
	tx    port.TxManager
	items port.ItemRepository
	carts port.CartRepository
}

func NewCart(tx port.TxManager, items port.ItemRepository, carts port.CartRepository) *CartService {
	return &CartService{
		tx:    tx,
		items: items,
		carts: carts,
	}
}

// AddItem puts quantity units of an item into the cart. An existing line for
// the same item is merged, not overwritten: the new line quantity is the old
// one plus the requested one. Stock is decremented by the requested quantity
// in the same transaction; when stock does not cover the request nothing
// changes and ErrInsufficientStock comes back.
//
// The returned view carries the full current line subtotal, not just this
// call's delta.
func (s *CartService) AddItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int64) (domain.LineDetails, error) {
	if quantity <= 0 {
		return domain.LineDetails{}, fmt.Errorf("quantity %d: %w", quantity, domain.ErrInvalidQuantity)
	}

	var details domain.LineDetails

	err := s.tx.WithinTx(ctx, func(st port.Stores) error {
		if _, err := st.Carts.Get(ctx, cartID); err != nil {
			return fmt.Errorf("carts.Get: %w", err)
		}

		// The row lock serializes the check-then-decrement against
		// concurrent adds for the same item.
		item, err := st.Items.GetForUpdate(ctx, itemID)
		if err != nil {
			return fmt.Errorf("items.GetForUpdate: %w", err)
		}

		if item.Stock < quantity {
			return fmt.Errorf("item[%s] stock %d < %d: %w", itemID, item.Stock, quantity, domain.ErrInsufficientStock)
		}

		lineQuantity := quantity

		line, err := st.Carts.GetLine(ctx, cartID, itemID)
		switch {
		case err == nil:
			lineQuantity += line.Quantity
			if err := st.Carts.UpdateLineQuantity(ctx, cartID, itemID, lineQuantity); err != nil {
				return fmt.Errorf("carts.UpdateLineQuantity: %w", err)
			}
		case errors.Is(err, domain.ErrNotFound):
			newLine := domain.CartLine{CartID: cartID, ItemID: itemID, Quantity: quantity}
			if err := st.Carts.AddLine(ctx, newLine); err != nil {
				return fmt.Errorf("carts.AddLine: %w", err)
			}
		default:
			return fmt.Errorf("carts.GetLine: %w", err)
		}

		item.Stock, err = st.Items.AdjustStock(ctx, itemID, -quantity)
		if err != nil {
			return fmt.Errorf("items.AdjustStock: %w", err)
		}

		details = domain.LineDetails{
			ItemID:   itemID,
			Quantity: lineQuantity,
			Item:     item,
			Subtotal: item.Price.Mul(lineQuantity),
		}
		return nil
	})
	if err != nil {
		return domain.LineDetails{}, err
	}

	return details, nil
}

// RemoveItem takes quantity units of an item back out of the cart and
// restocks them. A nil quantity means the whole line. Removing more than the
// line holds fails with ErrInvalidQuantity and changes nothing; removing the
// full line quantity deletes the line rather than leaving it at zero.
func (s *CartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID, quantity *int64) error {
	if quantity != nil && *quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", *quantity, domain.ErrInvalidQuantity)
	}

	return s.tx.WithinTx(ctx, func(st port.Stores) error {
		if _, err := st.Carts.Get(ctx, cartID); err != nil {
			return fmt.Errorf("carts.Get: %w", err)
		}

		// Same lock discipline as AddItem: item row first, then the line.
		if _, err := st.Items.GetForUpdate(ctx, itemID); err != nil {
			return fmt.Errorf("items.GetForUpdate: %w", err)
		}

		line, err := st.Carts.GetLine(ctx, cartID, itemID)
		if err != nil {
			return fmt.Errorf("carts.GetLine: %w", err)
		}

		if quantity != nil && *quantity > line.Quantity {
			return fmt.Errorf("remove %d of %d: %w", *quantity, line.Quantity, domain.ErrInvalidQuantity)
		}

		if quantity == nil || *quantity >= line.Quantity {
			if _, err := st.Carts.RemoveLine(ctx, cartID, itemID); err != nil {
				return fmt.Errorf("carts.RemoveLine: %w", err)
			}
			if _, err := st.Items.AdjustStock(ctx, itemID, line.Quantity); err != nil {
				return fmt.Errorf("items.AdjustStock: %w", err)
			}
			return nil
		}

		if err := st.Carts.UpdateLineQuantity(ctx, cartID, itemID, line.Quantity-*quantity); err != nil {
			return fmt.Errorf("carts.UpdateLineQuantity: %w", err)
		}
		if _, err := st.Items.AdjustStock(ctx, itemID, *quantity); err != nil {
			return fmt.Errorf("items.AdjustStock: %w", err)
		}
		return nil
	})
}

// GetCartDetails assembles the read view of one cart, recomputing every
// subtotal and the total from current item prices. Lines whose item has
// since disappeared are skipped rather than failing the whole view.
func (s *CartService) GetCartDetails(ctx context.Context, cartID uuid.UUID) (domain.CartDetails, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return domain.CartDetails{}, fmt.Errorf("carts.Get: %w", err)
	}

	return s.assemble(ctx, cart)
}

// ListCartDetails returns the detail view for every cart.
func (s *CartService) ListCartDetails(ctx context.Context) ([]domain.CartDetails, error) {
	carts, err := s.carts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("carts.List: %w", err)
	}

	details := make([]domain.CartDetails, 0, len(carts))
	for _, cart := range carts {
		d, err := s.assemble(ctx, cart)
		if err != nil {
			return nil, fmt.Errorf("assemble cart[%s]: %w", cart.ID, err)
		}
		details = append(details, d)
	}

	return details, nil
}

func (s *CartService) CreateCart(ctx context.Context) (domain.Cart, error) {
	return s.carts.Create(ctx)
}

func (s *CartService) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	deleted, err := s.carts.Delete(ctx, cartID)
	if err != nil {
		return fmt.Errorf("carts.Delete: %w", err)
	}
	if !deleted {
		return fmt.Errorf("cart[%s]: %w", cartID, domain.ErrNotFound)
	}
	return nil
}

func (s *CartService) assemble(ctx context.Context, cart domain.Cart) (domain.CartDetails, error) {
	details := domain.CartDetails{
		ID:    cart.ID,
		Lines: []domain.LineDetails{},
	}

	for _, line := range cart.Lines {
		item, err := s.items.Get(ctx, line.ItemID)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return domain.CartDetails{}, fmt.Errorf("items.Get: %w", err)
		}

		subtotal := Subtotal(line.Quantity, item.Price)

		details.Total, err = details.Total.Add(subtotal)
		if err != nil {
			return domain.CartDetails{}, fmt.Errorf("total: %w", err)
		}

		details.Lines = append(details.Lines, domain.LineDetails{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Item:     item,
			Subtotal: subtotal,
		})
	}

	return details, nil
}

// Subtotal is quantity times unit price, in exact decimal arithmetic.
func Subtotal(quantity int64, unitPrice domain.Money) domain.Money {
	return unitPrice.Mul(quantity)
}
