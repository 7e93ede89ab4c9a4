package main

import (
	"flag"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/auth"
	"github.com/example/nyksales/pkg/config"
	"github.com/example/nyksales/pkg/models"
)

// Seeds a development database with an admin, a salesperson and a few
// shops and products. Existing rows (matched by email/SKU/name) are
// left untouched.
func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}

	err = db.AutoMigrate(&models.User{}, &models.Shop{}, &models.Product{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		logger.Fatal("Failed to migrate", zap.Error(err))
	}

	seedUser(db, logger, "admin@nyk.com", "admin123", "Admin User", models.RoleAdmin, "+959123456789", "")
	seedUser(db, logger, "sales@nyk.com", "sales123", "Sales Person", models.RoleSalesperson, "+959987654321", "Yangon")

	seedShop(db, logger, models.Shop{
		Name: "Beauty Corner", Address: "123 Main Street, Yangon",
		Phone: "+959111222333", Region: "Yangon", ContactPerson: "Ma Aye",
	})
	seedShop(db, logger, models.Shop{
		Name: "Glamour House", Address: "456 Second Street, Mandalay",
		Phone: "+959444555666", Region: "Mandalay", ContactPerson: "Ma Thin",
	})

	seedProduct(db, logger, models.Product{
		Name: "NYK Face Cream", SKU: "NYK-FC-001",
		Price: decimal.NewFromInt(15000), Stock: 100, Unit: "box", Category: "Skincare",
	})
	seedProduct(db, logger, models.Product{
		Name: "NYK Lipstick Red", SKU: "NYK-LS-001",
		Price: decimal.NewFromInt(8000), Stock: 200, Unit: "pcs", Category: "Makeup",
	})
	seedProduct(db, logger, models.Product{
		Name: "NYK Sunscreen SPF50", SKU: "NYK-SS-001",
		Price: decimal.NewFromInt(22000), Stock: 80, Unit: "bottle", Category: "Skincare",
	})

	logger.Info("Seeding complete")
}

func seedUser(db *gorm.DB, logger *zap.Logger, email, password, name string, role models.UserRole, phone, region string) {
	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		logger.Fatal("Failed to hash password", zap.Error(err))
	}

	user := models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     role,
		Phone:    phone,
		Region:   region,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		logger.Fatal("Failed to seed user", zap.String("email", email), zap.Error(err))
	}
	logger.Info("Seeded user", zap.String("email", email), zap.String("role", string(role)))
}

func seedShop(db *gorm.DB, logger *zap.Logger, shop models.Shop) {
	var count int64
	db.Model(&models.Shop{}).Where("name = ?", shop.Name).Count(&count)
	if count > 0 {
		return
	}

	shop.ID = uuid.NewString()
	shop.IsActive = true
	if err := db.Create(&shop).Error; err != nil {
		logger.Fatal("Failed to seed shop", zap.String("name", shop.Name), zap.Error(err))
	}
	logger.Info("Seeded shop", zap.String("name", shop.Name))
}

func seedProduct(db *gorm.DB, logger *zap.Logger, product models.Product) {
	var count int64
	db.Model(&models.Product{}).Where("sku = ?", product.SKU).Count(&count)
	if count > 0 {
		return
	}

	product.ID = uuid.NewString()
	product.IsActive = true
	if err := db.Create(&product).Error; err != nil {
		logger.Fatal("Failed to seed product", zap.String("sku", product.SKU), zap.Error(err))
	}
	logger.Info("Seeded product", zap.String("sku", product.SKU))
}
