package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Product{}, &models.Order{}, &models.OrderItem{})
	require.NoError(t, err)

	return db
}

func newTestOrderService(t *testing.T, db *gorm.DB) *OrderService {
	t.Helper()
	return NewOrderService(db, zap.NewNop(), nil, nil, nil, false)
}

func createTestUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Name:     "Test " + string(role),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestShop(t *testing.T, db *gorm.DB, name string) *models.Shop {
	t.Helper()

	shop := &models.Shop{
		ID:       uuid.NewString(),
		Name:     name,
		Address:  "1 Test Street",
		Phone:    "+95911111111",
		Region:   "Yangon",
		IsActive: true,
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:       uuid.NewString(),
		Name:     name,
		SKU:      "SKU-" + uuid.NewString()[:8],
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Unit:     "pcs",
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func productStock(t *testing.T, db *gorm.DB, id string) int {
	t.Helper()

	var product models.Product
	require.NoError(t, db.Where("id = ?", id).First(&product).Error)
	return product.Stock
}
