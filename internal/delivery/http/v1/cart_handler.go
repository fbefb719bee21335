package v1

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

type CartHandler struct {
	carts *usecase.CartUsecase
}

func NewCartHandler(carts *usecase.CartUsecase) *CartHandler {
	return &CartHandler{carts: carts}
}

// POST /carts
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddToCartReq
	if !decodeBody(w, r, &req) {
		return
	}
	line, err := h.carts.AddToCart(r.Context(), auth.PrincipalFrom(r.Context()), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"insertedId": line.ID,
		"item":       line,
	})
}

// GET /carts?email=
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.carts.ListCart(r.Context(), auth.PrincipalFrom(r.Context()), r.URL.Query().Get("email"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, lines)
}

// DELETE /carts/{id}
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.carts.RemoveFromCart(r.Context(), auth.PrincipalFrom(r.Context()), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}
