package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopkit/shopkit/internal/domain"
	"github.com/shopspring/decimal"
)

type cartAddRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int64     `json:"quantity"`
}

type cartRemoveRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity *int64    `json:"quantity"` // absent means the whole line
}

type lineResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity int64           `json:"quantity"`
	Item     itemResponse    `json:"item"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	ID       uuid.UUID       `json:"id"`
	Items    []lineResponse  `json:"items"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency,omitempty"`
}

func toLineResponse(d domain.LineDetails) lineResponse {
	return lineResponse{
		ItemID:   d.ItemID,
		Quantity: d.Quantity,
		Item:     toItemResponse(d.Item),
		Subtotal: d.Subtotal.Amount,
	}
}

func toCartResponse(d domain.CartDetails) cartResponse {
	resp := cartResponse{
		ID:    d.ID,
		Items: make([]lineResponse, 0, len(d.Lines)),
		Total: d.Total.Amount,
	}
	if len(d.Lines) > 0 {
		resp.Currency = d.Total.Currency.String()
	}

	for _, line := range d.Lines {
		resp.Items = append(resp.Items, toLineResponse(line))
	}
	return resp
}

// CreateCart handles POST /carts. Carts start empty.
func (h *Handler) CreateCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.CreateCart(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse{
		ID:    cart.ID,
		Items: []lineResponse{},
		Total: decimal.Zero,
	})
}

// ListCarts handles GET /carts, returning every cart with computed totals.
func (h *Handler) ListCarts(w http.ResponseWriter, r *http.Request) {
	details, err := h.carts.ListCartDetails(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]cartResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, toCartResponse(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCart handles GET /carts/{id}.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	details, err := h.carts.GetCartDetails(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(details))
}

// DeleteCart handles DELETE /carts/{id}; the cart's lines go with it.
func (h *Handler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.carts.DeleteCart(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AddToCart handles POST /carts/{id}/add.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req cartAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errInvalid("invalid json"))
		return
	}

	line, err := h.carts.AddItem(r.Context(), id, req.ItemID, req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toLineResponse(line))
}

// RemoveFromCart handles DELETE /carts/{id}/remove. Quantity in the body is
// optional; leaving it out removes the item's whole line.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req cartRemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errInvalid("invalid json"))
		return
	}

	if err := h.carts.RemoveItem(r.Context(), id, req.ItemID, req.Quantity); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
