package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const defaultCurrency = "USD"

type itemRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Stock       int64           `json:"stock"`
	Kind        string          `json:"kind"`
}

type itemPatchRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency"`
	Description *string          `json:"description"`
	Thumbnail   *string          `json:"thumbnail"`
	Stock       *int64           `json:"stock"`
	Kind        *string          `json:"kind"`
}

type itemDeleteRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

type itemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Thumbnail   string          `json:"thumbnail"`
	Stock       int64           `json:"stock"`
	Kind        string          `json:"kind"`
}

func toItemResponse(item domain.Item) itemResponse {
	return itemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Price:       item.Price.Amount,
		Currency:    item.Price.Currency.String(),
		Description: item.Description,
		Thumbnail:   item.Thumbnail,
		Stock:       item.Stock,
		Kind:        string(item.Kind),
	}
}

// CreateItem handles POST /items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errInvalid("invalid json"))
		return
	}

	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if req.Currency == "" {
		req.Currency = defaultCurrency
	}
	unit, err := currency.ParseISO(req.Currency)
	if err != nil {
		h.writeError(w, r, errInvalid("currency %q", req.Currency))
		return
	}

	item, err := h.items.Create(r.Context(), domain.Item{
		Name:        req.Name,
		Price:       domain.Money{Amount: req.Price, Currency: unit},
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Stock:       req.Stock,
		Kind:        kind,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// ListItems handles GET /items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]itemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetItem handles GET /items/{id}.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.items.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// UpdateItem handles PATCH /items/{id}: only supplied fields change.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req itemPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errInvalid("invalid json"))
		return
	}

	patch := domain.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Thumbnail:   req.Thumbnail,
		Stock:       req.Stock,
	}

	if req.Kind != nil {
		kind, err := domain.ParseKind(*req.Kind)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		patch.Kind = &kind
	}

	if req.Price != nil {
		cur := defaultCurrency
		if req.Currency != nil {
			cur = *req.Currency
		}
		unit, err := currency.ParseISO(cur)
		if err != nil {
			h.writeError(w, r, errInvalid("currency %q", cur))
			return
		}
		patch.Price = &domain.Money{Amount: *req.Price, Currency: unit}
	}

	item, err := h.items.Update(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// DeleteItem handles DELETE /items/{id}. Items still referenced by a cart
// line are refused with 409.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deleted, err := h.items.Delete(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !deleted {
		h.writeError(w, r, fmt.Errorf("item[%s]: %w", id, domain.ErrNotFound))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// DeleteItems handles DELETE /items with a body listing item ids.
func (h *Handler) DeleteItems(w http.ResponseWriter, r *http.Request) {
	var req itemDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errInvalid("invalid json"))
		return
	}
	if len(req.ItemIDs) == 0 {
		h.writeError(w, r, errInvalid("item_ids is empty"))
		return
	}

	deleted, err := h.items.DeleteBatch(r.Context(), req.ItemIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
