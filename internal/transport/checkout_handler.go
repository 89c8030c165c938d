package transport

import (
	"net/http"

	"sweet-treats/internal/domain"
	"sweet-treats/internal/middleware"

	"go.uber.org/zap"
)

// CheckoutRequest is the customer form submitted before the order summary
// is generated.
type CheckoutRequest struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address" validate:"required"`
	Landmark      string `json:"landmark,omitempty"`
	OrderType     string `json:"order_type" validate:"required,oneof=Delivery Pickup"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=Cash GCASH"`
}

// CheckoutResponse carries the receipt text the client copies to the
// clipboard and the chat URL it then opens.
type CheckoutResponse struct {
	Receipt      string `json:"receipt"`
	MessengerURL string `json:"messenger_url"`
}

// Checkout handles POST /api/checkout.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess := h.ensureSession(w, r)

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		if fieldErrors := middleware.FormatValidationErrors(err); len(fieldErrors) > 0 {
			middleware.RespondWithValidationErrors(w, fieldErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.svc.Checkout(sess, domain.CustomerInfo{
		Name:          req.Name,
		Address:       req.Address,
		Landmark:      req.Landmark,
		OrderType:     req.OrderType,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{
		Receipt:      receipt.Text,
		MessengerURL: receipt.MessengerURL,
	})
}
