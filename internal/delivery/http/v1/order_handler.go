package v1

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

type OrderHandler struct {
	orders *usecase.OrderUsecase
}

func NewOrderHandler(orders *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// PlaceOrder records a checkout. Prices are recomputed server-side.
// POST /orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req usecase.PlaceOrderReq
	if !decodeBody(w, r, &req) {
		return
	}

	principal := auth.PrincipalFrom(r.Context())
	order, err := h.orders.PlaceOrder(r.Context(), utils.NormalizeEmail(principal.Email), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"insertedId": order.ID,
		"order":      order,
	})
}

// ListMyOrders returns the caller's orders. Admins may pass ?email= to look at someone else's.
// GET /orders?email=&page=1&limit=20
func (h *OrderHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFrom(r.Context())
	q := r.URL.Query()

	email := utils.NormalizeEmail(principal.Email)
	if requested := utils.NormalizeEmail(q.Get("email")); requested != "" && requested != email {
		if !principal.IsAdmin() {
			writeDomainError(w, r, domain.ErrForbidden)
			return
		}
		email = requested
	}

	h.list(w, r, domain.OrderFilter{
		Page:  utils.ParseInt(q.Get("page"), 1),
		Limit: utils.ParseInt(q.Get("limit"), 20),
		Email: email,
	})
}

// ListOrders returns every order, optionally filtered by delivery status.
// GET /admin/orders?status=&page=1&limit=20
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, domain.OrderFilter{
		Page:           utils.ParseInt(q.Get("page"), 1),
		Limit:          utils.ParseInt(q.Get("limit"), 20),
		Email:          utils.NormalizeEmail(q.Get("email")),
		DeliveryStatus: q.Get("status"),
	})
}

func (h *OrderHandler) list(w http.ResponseWriter, r *http.Request, filter domain.OrderFilter) {
	orders, pagination, err := h.orders.ListOrders(r.Context(), filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":       orders,
		"pagination": pagination,
	})
}

// PATCH /admin/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.orders.UpdateDeliveryStatus(r.Context(), id, req.Status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}
