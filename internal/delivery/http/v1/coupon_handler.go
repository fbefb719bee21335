package v1

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// CouponHandler serves coupon validation to shoppers.
type CouponHandler struct {
	couponUC *usecase.CouponUsecase
}

func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{couponUC: uc}
}

// ValidateCoupon checks a code against a prospective purchase amount.
// GET /coupons/{code}?amount=1200
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	amount := decimal.Zero
	if raw := strings.TrimSpace(r.URL.Query().Get("amount")); raw != "" {
		var err error
		amount, err = decimal.NewFromString(raw)
		if err != nil {
			writeDomainError(w, r, domain.Malformed("amount must be a number"))
			return
		}
	}

	terms, err := h.couponUC.ValidateCoupon(r.Context(), r.PathValue("code"), amount)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"code":          terms.Code,
		"discountType":  terms.DiscountType,
		"discountValue": terms.DiscountValue,
		"minPurchase":   terms.MinPurchase,
		"message":       "Coupon applied successfully!",
	})
}

// IncrementUsage credits one use of a coupon to the caller.
// PATCH /coupons/update-count/{code}
func (h *CouponHandler) IncrementUsage(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFrom(r.Context())
	if err := h.couponUC.IncrementUsage(r.Context(), r.PathValue("code"), principal.Email); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"modifiedCount": 1})
}

// AdminCouponHandler handles admin coupon management endpoints.
type AdminCouponHandler struct {
	couponUC *usecase.CouponUsecase
}

func NewAdminCouponHandler(uc *usecase.CouponUsecase) *AdminCouponHandler {
	return &AdminCouponHandler{couponUC: uc}
}

// POST /admin/add-coupon
func (h *AdminCouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateCouponRequest
	if !decodeBody(w, r, &req) {
		return
	}
	coupon, err := h.couponUC.CreateCoupon(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"insertedId": coupon.ID,
		"coupon":     coupon,
	})
}

// GET /admin/coupons
func (h *AdminCouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponUC.ListCoupons(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, coupons)
}

// DELETE /admin/coupons/{id}
func (h *AdminCouponHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.couponUC.DeleteCoupon(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}

// PATCH /admin/coupons/update/{id}
func (h *AdminCouponHandler) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req usecase.UpdateCouponRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.couponUC.UpdateCoupon(r.Context(), id, req); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"modifiedCount": 1})
}

// PATCH /admin/coupons/status/{id}
func (h *AdminCouponHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.IsActive == nil {
		writeDomainError(w, r, domain.Malformed("isActive is required"))
		return
	}
	if err := h.couponUC.SetCouponStatus(r.Context(), id, *req.IsActive); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"modifiedCount": 1})
}
