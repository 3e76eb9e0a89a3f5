package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two sellable variants. It is a tagged enum on the
// item record, not a type hierarchy.
type Kind string

const (
	KindProduct Kind = "Product"
	KindEvent   Kind = "Event"
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindProduct, KindEvent:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("kind %q: %w", s, ErrInvalidInput)
	}
}

type Item struct {
	ID          uuid.UUID
	Name        string
	Price       Money
	Description string
	Thumbnail   string
	Stock       int64
	Kind        Kind

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("name is empty: %w", ErrInvalidInput)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("price is negative: %w", ErrInvalidInput)
	}
	if i.Stock < 0 {
		return fmt.Errorf("stock is negative: %w", ErrInvalidInput)
	}
	if _, err := ParseKind(string(i.Kind)); err != nil {
		return err
	}
	return nil
}

// ItemPatch carries a partial update: nil fields keep their stored value.
type ItemPatch struct {
	Name        *string
	Price       *Money
	Description *string
	Thumbnail   *string
	Stock       *int64
	Kind        *Kind
}

func (p ItemPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("name is empty: %w", ErrInvalidInput)
	}
	if p.Price != nil && p.Price.IsNegative() {
		return fmt.Errorf("price is negative: %w", ErrInvalidInput)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("stock is negative: %w", ErrInvalidInput)
	}
	if p.Kind != nil {
		if _, err := ParseKind(string(*p.Kind)); err != nil {
			return err
		}
	}
	return nil
}
