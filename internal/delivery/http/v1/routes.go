package v1

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/internal/delivery/http/middleware"
	"net/http"
)

// Handlers groups every v1 handler for route registration.
type Handlers struct {
	Products *ProductHandler
	Uploads  *UploadHandler
	Carts    *CartHandler
	Coupons  *CouponHandler
	Admin    *AdminCouponHandler
	Payments *PaymentHandler
	Orders   *OrderHandler
	Users    *UserHandler
	Stats    *StatsHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the public, authenticated and admin routes on mux.
func RegisterRoutes(mux *http.ServeMux, h Handlers, a *middleware.Auth) {
	protect := func(resource, action string, fn http.HandlerFunc) http.Handler {
		return a.Protect(resource, action, fn)
	}

	// Public
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /products", h.Products.ListProducts)
	mux.HandleFunc("GET /products/{id}", h.Products.GetProduct)
	mux.HandleFunc("GET /coupons/{code}", h.Coupons.ValidateCoupon)

	// Shopper
	mux.Handle("POST /users", a.Authenticate(http.HandlerFunc(h.Users.Register)))
	mux.Handle("GET /users/me", protect(auth.ResourceProfile, auth.ActionRead, h.Users.Me))
	mux.Handle("POST /carts", protect(auth.ResourceCarts, auth.ActionWrite, h.Carts.AddToCart))
	mux.Handle("GET /carts", protect(auth.ResourceCarts, auth.ActionRead, h.Carts.GetCart))
	mux.Handle("DELETE /carts/{id}", protect(auth.ResourceCarts, auth.ActionWrite, h.Carts.RemoveFromCart))
	mux.Handle("POST /create-payment-intent", protect(auth.ResourcePayments, auth.ActionCreate, h.Payments.CreatePaymentIntent))
	mux.Handle("POST /orders", protect(auth.ResourceOrders, auth.ActionCreate, h.Orders.PlaceOrder))
	mux.Handle("GET /orders", protect(auth.ResourceOrders, auth.ActionRead, h.Orders.ListMyOrders))
	mux.Handle("PATCH /coupons/update-count/{code}", protect(auth.ResourceCoupons, auth.ActionRedeem, h.Coupons.IncrementUsage))

	// Admin catalog
	mux.Handle("POST /products", protect(auth.ResourceProducts, auth.ActionWrite, h.Products.CreateProduct))
	mux.Handle("PATCH /products/{id}", protect(auth.ResourceProducts, auth.ActionWrite, h.Products.UpdateProduct))
	mux.Handle("DELETE /products/{id}", protect(auth.ResourceProducts, auth.ActionWrite, h.Products.DeleteProduct))
	mux.Handle("POST /products/images", protect(auth.ResourceProducts, auth.ActionWrite, h.Uploads.UploadProductImage))

	// Admin coupons
	mux.Handle("POST /admin/add-coupon", protect(auth.ResourceCoupons, auth.ActionManage, h.Admin.CreateCoupon))
	mux.Handle("GET /admin/coupons", protect(auth.ResourceCoupons, auth.ActionManage, h.Admin.ListCoupons))
	mux.Handle("DELETE /admin/coupons/{id}", protect(auth.ResourceCoupons, auth.ActionManage, h.Admin.DeleteCoupon))
	mux.Handle("PATCH /admin/coupons/update/{id}", protect(auth.ResourceCoupons, auth.ActionManage, h.Admin.UpdateCoupon))
	mux.Handle("PATCH /admin/coupons/status/{id}", protect(auth.ResourceCoupons, auth.ActionManage, h.Admin.SetStatus))

	// Admin orders, users, dashboard
	mux.Handle("GET /admin/orders", protect(auth.ResourceOrders, auth.ActionManage, h.Orders.ListOrders))
	mux.Handle("PATCH /admin/orders/{id}/status", protect(auth.ResourceOrders, auth.ActionManage, h.Orders.UpdateStatus))
	mux.Handle("GET /admin/users", protect(auth.ResourceUsers, auth.ActionManage, h.Users.ListUsers))
	mux.Handle("PATCH /admin/users/{id}/role", protect(auth.ResourceUsers, auth.ActionManage, h.Users.UpdateRole))
	mux.Handle("GET /admin/stats", protect(auth.ResourceStats, auth.ActionRead, h.Stats.Dashboard))
}
