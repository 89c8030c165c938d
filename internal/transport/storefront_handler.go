package transport

import (
	"errors"
	"net/http"

	"sweet-treats/internal/cart"
	"sweet-treats/internal/checkout"
	"sweet-treats/internal/middleware"
	"sweet-treats/internal/service"
	"sweet-treats/internal/session"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActivityRequest is the client's visibility/activity beacon.
type ActivityRequest struct {
	Visible bool `json:"visible"`
}

// StorefrontHandler exposes the storefront operations over HTTP.
type StorefrontHandler struct {
	svc      service.StorefrontService
	sessions *session.Manager
	logger   *zap.Logger
}

// NewStorefrontHandler creates a StorefrontHandler.
func NewStorefrontHandler(svc service.StorefrontService, sessions *session.Manager, logger *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{svc: svc, sessions: sessions, logger: logger}
}

// RegisterRoutes registers all storefront routes.
func (h *StorefrontHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", h.GetCatalog)
		r.Post("/catalog/refresh", h.RefreshCatalog)
		r.Post("/activity", h.ReportActivity)
		r.Get("/shipping", h.GetShippingZones)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{lineID}", h.ChangeQuantity)
			r.Delete("/items/{lineID}", h.RemoveItem)
			r.Put("/shipping", h.SelectShipping)
		})

		r.Post("/checkout", h.Checkout)
	})
}

// GetCatalog returns the current menu, or the unavailable state when no
// feed load has ever succeeded.
func (h *StorefrontHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	view := h.svc.Catalog()
	if !view.Available {
		middleware.RespondWithJSON(w, http.StatusServiceUnavailable, view)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// RefreshCatalog forces a reload cycle on the user's signal. The reload is
// asynchronous; the client sees its effect on the next catalog read.
func (h *StorefrontHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	h.svc.RefreshNow()
	middleware.RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "refresh scheduled"})
}

// ReportActivity feeds visibility changes into the refresh scheduler.
func (h *StorefrontHandler) ReportActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.svc.ReportActivity(req.Visible)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetShippingZones returns the static delivery fee table.
func (h *StorefrontHandler) GetShippingZones(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, h.svc.ShippingZones())
}

// respondCartError maps business-rule rejections onto HTTP statuses. These
// are expected outcomes, not failures; the handler logs them at debug only.
func (h *StorefrontHandler) respondCartError(w http.ResponseWriter, err error) {
	h.logger.Debug("Cart operation rejected", zap.Error(err))

	switch {
	case errors.Is(err, cart.ErrProductNotFound), errors.Is(err, cart.ErrLineNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, cart.ErrSoldOut),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, cart.ErrVariantUnavailable):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrUnknownVariant), errors.Is(err, cart.ErrUnknownZone):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCatalogUnavailable):
		middleware.RespondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("Cart operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
