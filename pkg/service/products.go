package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/models"
)

type ProductService struct {
	db     *gorm.DB
	logger *zap.Logger
	ledger InventoryLedger
}

func NewProductService(db *gorm.DB, logger *zap.Logger) *ProductService {
	return &ProductService{db: db, logger: logger}
}

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Unit        string          `json:"unit" binding:"required"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
}

// UpdateProductRequest deliberately has no SKU field; SKUs are
// immutable after creation.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Unit        *string          `json:"unit"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
	Category    *string          `json:"category"`
	IsActive    *bool            `json:"isActive"`
}

type ProductQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	if req.Price.IsNegative() {
		return nil, ValidationError("price must not be negative")
	}
	if req.Stock < 0 {
		return nil, ValidationError("stock must not be negative")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("sku = ?", req.SKU).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ConflictError("Product SKU already exists")
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		Unit:        req.Unit,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

func (s *ProductService) List(ctx context.Context, query *ProductQuery) (*Page, error) {
	page, limit := normalizePaging(query.Page, query.Limit)

	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("name LIKE ? OR sku LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	err := q.
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	return NewPage(products, total, page, limit), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Product")
		}
		return nil, err
	}
	return &product, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ValidationError("price must not be negative")
		}
		updates["price"] = *req.Price
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *ProductService) Remove(ctx context.Context, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(product).Error
}

// AdjustStock applies a manual stock adjustment through the inventory
// ledger. Positive quantities restock; negative quantities go through
// the guarded decrement so stock can never drop below zero.
func (s *ProductService) AdjustStock(ctx context.Context, id string, quantity int) (*models.Product, error) {
	if quantity == 0 {
		return nil, ValidationError("adjustment quantity must not be zero")
	}

	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if quantity > 0 {
			product, err = s.ledger.Increment(tx, id, quantity)
			return err
		}

		if err = s.ledger.Decrement(tx, id, -quantity); err != nil {
			return err
		}
		var updated models.Product
		if err = tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return err
		}
		product = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Categories lists the distinct categories of active products.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND category <> ''", true).
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
