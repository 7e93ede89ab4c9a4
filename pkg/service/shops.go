package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/models"
)

type ShopService struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewShopService(db *gorm.DB, logger *zap.Logger) *ShopService {
	return &ShopService{db: db, logger: logger}
}

type CreateShopRequest struct {
	Name          string `json:"name" binding:"required"`
	Address       string `json:"address" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Region        string `json:"region"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
}

type UpdateShopRequest struct {
	Name          *string `json:"name"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Region        *string `json:"region"`
	ContactPerson *string `json:"contactPerson"`
	Email         *string `json:"email"`
	IsActive      *bool   `json:"isActive"`
}

func (s *ShopService) Create(ctx context.Context, req *CreateShopRequest) (*models.Shop, error) {
	shop := models.Shop{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Address:       req.Address,
		Phone:         req.Phone,
		Region:        req.Region,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (s *ShopService) List(ctx context.Context, page, limit int, region string) (*Page, error) {
	page, limit = normalizePaging(page, limit)

	q := s.db.WithContext(ctx).Model(&models.Shop{}).Where("is_active = ?", true)
	if region != "" {
		q = q.Where("region = ?", region)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	var shops []models.Shop
	err := q.
		Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&shops).Error
	if err != nil {
		return nil, err
	}

	return NewPage(shops, total, page, limit), nil
}

func (s *ShopService) Get(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Shop")
		}
		return nil, err
	}
	return &shop, nil
}

func (s *ShopService) Update(ctx context.Context, id string, req *UpdateShopRequest) (*models.Shop, error) {
	shop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Region != nil {
		updates["region"] = *req.Region
	}
	if req.ContactPerson != nil {
		updates["contact_person"] = *req.ContactPerson
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(shop).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, id)
}

func (s *ShopService) Remove(ctx context.Context, id string) error {
	shop, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(shop).Error
}

// Regions lists the distinct regions of active shops.
func (s *ShopService) Regions(ctx context.Context) ([]string, error) {
	var regions []string
	err := s.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("is_active = ? AND region <> ''", true).
		Distinct().
		Pluck("region", &regions).Error
	if err != nil {
		return nil, err
	}
	return regions, nil
}
