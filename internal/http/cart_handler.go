package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/webstore/cart-service/internal/domain"
	"github.com/webstore/cart-service/internal/service"
)

// CartService is what the handlers need from the service layer.
// Consumers define this interface, not the implementation.
type CartService interface {
	AddToCart(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*domain.Cart, error)
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
	ApplyCoupon(ctx context.Context, userID, code string) (*domain.Cart, error)
}

type CartHandler struct {
	service CartService
	timeout time.Duration
}

func NewCartHandler(service CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		service: service,
		timeout: timeout,
	}
}

// Quantity is a *int so a missing field (defaults to 1) is distinguishable
// from zero, and a string value fails decoding instead of being coerced.
type AddItemRequestDTO struct {
	Product  string `json:"product"`
	Quantity *int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type ApplyCouponRequestDTO struct {
	Coupon string `json:"coupon"`
}

type CartResponse struct {
	Message string       `json:"message"`
	Cart    *domain.Cart `json:"cart,omitempty"`
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Product == "" {
		respondError(w, http.StatusBadRequest, "product is required")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			respondError(w, http.StatusBadRequest, "quantity must be a non-negative integer")
			return
		}
		quantity = *req.Quantity
	}

	cart, err := h.service.AddToCart(ctx, userID, req.Product, quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "item id is required")
		return
	}

	cart, err := h.service.RemoveItem(ctx, userID, itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "item id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "quantity must be a non-negative integer")
		return
	}

	cart, err := h.service.UpdateItemQuantity(ctx, userID, itemID, *req.Quantity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	cart, err := h.service.GetCart(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondCart(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	if err := h.service.ClearCart(ctx, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Message: "success"})
}

func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "missing user authentication")
		return
	}

	var req ApplyCouponRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Coupon == "" {
		respondError(w, http.StatusBadRequest, "coupon is required")
		return
	}

	cart, err := h.service.ApplyCoupon(ctx, userID, req.Coupon)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondCart(w, http.StatusOK, cart)
}

func respondCart(w http.ResponseWriter, status int, cart *domain.Cart) {
	respondJSON(w, status, CartResponse{Message: "success", Cart: cart})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, CartResponse{Message: message})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSoldOut):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCoupon):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
