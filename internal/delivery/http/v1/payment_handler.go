package v1

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

type PaymentHandler struct {
	payments *usecase.PaymentUsecase
}

func NewPaymentHandler(payments *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePaymentIntent prices the basket server-side and returns the client secret.
// POST /create-payment-intent
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req usecase.PaymentIntentReq
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.payments.CreatePaymentIntent(r.Context(), auth.PrincipalFrom(r.Context()).Email, req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
