package v1

import (
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

type ProductHandler struct {
	catalog *usecase.CatalogUsecase
}

func NewProductHandler(catalog *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ListProducts returns products, newest first.
// GET /products?category=&page=1&limit=20
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.ListProducts(r.Context(),
		q.Get("category"),
		utils.ParseInt(q.Get("page"), 1),
		utils.ParseInt(q.Get("limit"), 20),
	)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.GetProductByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateProductReq
	if !decodeBody(w, r, &req) {
		return
	}
	product, err := h.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"insertedId": product.ID,
		"product":    product,
	})
}

// PATCH /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch domain.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	product, err := h.catalog.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, product)
}

// DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}
