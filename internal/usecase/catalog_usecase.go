package usecase

import (
	"context"
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

const maxPageSize = 100

var errImageStoreDisabled = errors.New("image storage is not configured")

// ImageStore persists processed product images and returns their public URL.
type ImageStore interface {
	UploadBuffer(ctx context.Context, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

type CatalogUsecase struct {
	repo   domain.ProductRepository
	images ImageStore
	cache  cache.CacheService
}

func NewCatalogUsecase(repo domain.ProductRepository, images ImageStore, cache cache.CacheService) *CatalogUsecase {
	return &CatalogUsecase{
		repo:   repo,
		images: images,
		cache:  cache,
	}
}

// CreateProductReq is the admin payload for a new product.
type CreateProductReq struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Stock       int              `json:"stock"`
	Description string           `json:"description"`
	Images      []string         `json:"images"`
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, req CreateProductReq) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price == nil || req.Price.IsZero() {
		return nil, domain.Malformed("product name and price are required")
	}
	if req.Price.IsNegative() {
		return nil, domain.Malformed("price must not be negative")
	}
	if req.Stock < 0 {
		return nil, domain.Malformed("stock must not be negative")
	}

	product := &domain.Product{
		Name:        name,
		Price:       req.Price.Round(2),
		Category:    strings.TrimSpace(req.Category),
		Stock:       req.Stock,
		Description: req.Description,
		Images:      req.Images,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, domain.Upstream(err, "create product")
	}

	uc.invalidateStatsCache()
	logger.WithContext(ctx).Info().Str("product_id", product.ID).Str("name", product.Name).Msg("Catalog: product created")
	return product, nil
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, domain.Malformed("product name must not be empty")
	}
	if patch.Price != nil {
		if patch.Price.IsNegative() {
			return nil, domain.Malformed("price must not be negative")
		}
		rounded := patch.Price.Round(2)
		patch.Price = &rounded
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, domain.Malformed("stock must not be negative")
	}

	product, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, classify(err, "update product")
	}
	return product, nil
}

// DeleteProduct removes the product and, best effort, its stored images.
// Cart lines that still reference it are left alone; pricing skips them.
func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return classify(err, "load product")
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return classify(err, "delete product")
	}

	uc.invalidateStatsCache()

	if uc.images != nil {
		for _, url := range product.Images {
			if err := uc.images.DeleteFile(ctx, url); err != nil {
				logger.WithContext(ctx).Warn().Err(err).Str("url", url).Msg("Catalog: failed to delete product image")
			}
		}
	}
	return nil
}

func (uc *CatalogUsecase) ListProducts(ctx context.Context, category string, page, limit int) ([]domain.Product, error) {
	_, limit, offset := utils.PageOffset(page, limit, maxPageSize)
	products, err := uc.repo.List(ctx, domain.ProductFilter{
		Category: strings.TrimSpace(category),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, domain.Upstream(err, "list products")
	}
	return products, nil
}

func (uc *CatalogUsecase) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "load product")
	}
	return product, nil
}

// UploadImage resizes and re-encodes an image and stores it, returning its public URL.
func (uc *CatalogUsecase) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	if uc.images == nil {
		return "", domain.Upstream(errImageStoreDisabled, "upload image")
	}

	data, contentType, err := utils.ProcessImage(file, filename)
	if err != nil {
		return "", domain.Malformed("could not decode image: %v", err)
	}

	url, err := uc.images.UploadBuffer(ctx, data, contentType)
	if err != nil {
		return "", domain.Upstream(err, "upload image")
	}

	logger.WithContext(ctx).Info().Str("url", url).Int("bytes", len(data)).Msg("Catalog: image uploaded")
	return url, nil
}

func (uc *CatalogUsecase) invalidateStatsCache() {
	uc.cache.Delete(dashboardStatsKey)
}
