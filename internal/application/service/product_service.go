package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/invex-billing/internal/domain/billing"
	"github.com/sangkips/invex-billing/internal/domain/entity"
	"github.com/sangkips/invex-billing/internal/domain/repository"
	"github.com/sangkips/invex-billing/internal/infrastructure/cache"
	"github.com/sangkips/invex-billing/internal/infrastructure/notify"
	"github.com/sangkips/invex-billing/pkg/apperror"
	"github.com/sangkips/invex-billing/pkg/pagination"
	"github.com/sangkips/invex-billing/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const catalogCacheKey = "catalog"

// ProductService handles catalog operations and serves the catalog
// snapshot used by bill drafts
type ProductService struct {
	productRepo repository.ProductRepository
	hub         notify.Hub
	catalog     cache.Cache[string, billing.CatalogSnapshot]
	catalogTTL  time.Duration
	log         *zap.Logger
	unsubscribe func()
}

// NewProductService creates a new product service. The cached snapshot is
// dropped whenever a products event arrives on the hub, including events
// published by other instances.
func NewProductService(
	productRepo repository.ProductRepository,
	hub notify.Hub,
	catalogTTL time.Duration,
	log *zap.Logger,
) *ProductService {
	s := &ProductService{
		productRepo: productRepo,
		hub:         hub,
		catalog:     cache.NewTTLCache[string, billing.CatalogSnapshot](),
		catalogTTL:  catalogTTL,
		log:         log.Named("products"),
	}
	s.unsubscribe = hub.Subscribe(notify.TopicProducts, func(notify.Event) {
		s.catalog.Delete(catalogCacheKey)
	})
	return s
}

// Close stops listening for catalog changes
func (s *ProductService) Close() {
	s.unsubscribe()
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name  string
	Code  string
	Price decimal.Decimal
}

// CreateProduct adds a product to the catalog
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
	}
	if input.Price.IsNegative() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "price", Message: "Price must not be negative"}})
	}

	// Auto-generate code if not provided
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	product := &entity.Product{
		Name:  name,
		Code:  code,
		Price: input.Price.Round(billing.PriceScale),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.changed(ctx, notify.ActionCreated, product.ID)
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID    uuid.UUID
	Name  *string
	Code  *string
	Price *decimal.Decimal
}

// UpdateProduct updates a product. Persisted bills keep the name and price
// they were finalized with.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
		}
		product.Name = name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "price", Message: "Price must not be negative"}})
		}
		product.Price = input.Price.Round(billing.PriceScale)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.changed(ctx, notify.ActionUpdated, product.ID)
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.changed(ctx, notify.ActionDeleted, id)
	return nil
}

// Catalog returns the current catalog snapshot, loading it when the cached
// one expired or was invalidated
func (s *ProductService) Catalog(ctx context.Context) (billing.Catalog, error) {
	snap, err := cache.GetOrLoad(s.catalog, catalogCacheKey, s.catalogTTL, func() (billing.CatalogSnapshot, error) {
		products, err := s.productRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]billing.CatalogProduct, 0, len(products))
		for _, p := range products {
			items = append(items, billing.CatalogProduct{ID: p.ID.String(), Name: p.Name, Price: p.Price})
		}
		return billing.NewCatalogSnapshot(items), nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *ProductService) changed(ctx context.Context, action string, id uuid.UUID) {
	s.catalog.Delete(catalogCacheKey)
	event := notify.Event{Topic: notify.TopicProducts, Action: action, ID: id.String(), At: time.Now()}
	if err := s.hub.Publish(ctx, event); err != nil {
		s.log.Warn("publish product change", zap.String("product_id", id.String()), zap.Error(err))
	}
}
