package transport

import (
	"net/http"

	"sweet-treats/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// AddItemRequest adds one unit of a product to the cart.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Variant   string `json:"variant,omitempty"`
}

// ChangeQuantityRequest adjusts a cart line by a signed delta. The pointer
// distinguishes an explicit zero, which is a no-op, from a missing field.
type ChangeQuantityRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// SelectShippingRequest picks a shipping zone by name; empty clears it.
type SelectShippingRequest struct {
	Zone string `json:"zone"`
}

// GetCart returns the session's cart with fresh totals and any pending
// reconciliation notices.
func (h *StorefrontHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)
	middleware.RespondWithJSON(w, http.StatusOK, h.svc.CartView(sess))
}

// AddItem handles POST /api/cart/items.
func (h *StorefrontHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)

	var req AddItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if fieldErrors := middleware.FormatValidationErrors(err); len(fieldErrors) > 0 {
			middleware.RespondWithValidationErrors(w, fieldErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.AddToCart(sess, req.ProductID, req.Variant); err != nil {
		h.respondCartError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, h.svc.CartView(sess))
}

// ChangeQuantity handles PATCH /api/cart/items/{lineID}.
func (h *StorefrontHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)
	lineID := chi.URLParam(r, "lineID")

	var req ChangeQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if fieldErrors := middleware.FormatValidationErrors(err); len(fieldErrors) > 0 {
			middleware.RespondWithValidationErrors(w, fieldErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.ChangeQuantity(sess, lineID, *req.Delta); err != nil {
		h.respondCartError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.svc.CartView(sess))
}

// RemoveItem handles DELETE /api/cart/items/{lineID}.
func (h *StorefrontHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)

	if err := h.svc.RemoveLine(sess, chi.URLParam(r, "lineID")); err != nil {
		h.respondCartError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.svc.CartView(sess))
}

// SelectShipping handles PUT /api/cart/shipping.
func (h *StorefrontHandler) SelectShipping(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)

	var req SelectShippingRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SelectShipping(sess, req.Zone); err != nil {
		h.respondCartError(w, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, h.svc.CartView(sess))
}
