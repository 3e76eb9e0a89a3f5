// Package httpserver maps HTTP requests onto the item store and the cart
// service and turns their typed failures into status codes.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopkit/shopkit/internal/domain"
)

// ItemStore is the slice of the item repository the HTTP layer needs.
type ItemStore interface {
	Create(ctx context.Context, item domain.Item) (domain.Item, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	Update(ctx context.Context, id uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type CartService interface {
	CreateCart(ctx context.Context) (domain.Cart, error)
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
	GetCartDetails(ctx context.Context, cartID uuid.UUID) (domain.CartDetails, error)
	ListCartDetails(ctx context.Context) ([]domain.CartDetails, error)
	AddItem(ctx context.Context, cartID, itemID uuid.UUID, quantity int64) (domain.LineDetails, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID, quantity *int64) error
}

type Handler struct {
	items ItemStore
	carts CartService
	log   *slog.Logger
}

func NewHandler(items ItemStore, carts CartService, log *slog.Logger) *Handler {
	return &Handler{items: items, carts: carts, log: log}
}

func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Health).Methods(http.MethodGet)

	r.HandleFunc("/items", h.CreateItem).Methods(http.MethodPost)
	r.HandleFunc("/items", h.ListItems).Methods(http.MethodGet)
	r.HandleFunc("/items", h.DeleteItems).Methods(http.MethodDelete)
	r.HandleFunc("/items/{id}", h.GetItem).Methods(http.MethodGet)
	r.HandleFunc("/items/{id}", h.UpdateItem).Methods(http.MethodPatch)
	r.HandleFunc("/items/{id}", h.DeleteItem).Methods(http.MethodDelete)

	r.HandleFunc("/carts", h.CreateCart).Methods(http.MethodPost)
	r.HandleFunc("/carts", h.ListCarts).Methods(http.MethodGet)
	r.HandleFunc("/carts/{id}", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/carts/{id}", h.DeleteCart).Methods(http.MethodDelete)
	r.HandleFunc("/carts/{id}/add", h.AddToCart).Methods(http.MethodPost)
	r.HandleFunc("/carts/{id}/remove", h.RemoveFromCart).Methods(http.MethodDelete)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFromError(err)
	if code == http.StatusInternalServerError {
		h.log.Error("request failed", slog.String("path", r.URL.Path), slog.Any("err", err))
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrItemReferenced):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := mux.Vars(r)["id"]

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errInvalid("id %q is not a valid UUID", raw)
	}
	return id, nil
}

func errInvalid(format string, args ...any) error {
	args = append(args, domain.ErrInvalidInput)
	return fmt.Errorf(format+": %w", args...)
}
