package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/example/nyksales/pkg/models"
)

// InventoryLedger is the single writer of product stock counts. All
// methods run against the *gorm.DB handle the caller supplies, so the
// caller owns the transaction boundary: order creation passes its
// transaction handle and a failed decrement aborts the whole commit.
type InventoryLedger struct{}

// CheckAvailability loads the product and verifies it can cover the
// requested quantity. It does not reserve anything; the guarded
// Decrement inside the same transaction is what makes the check safe
// against concurrent orders.
func (InventoryLedger) CheckAvailability(db *gorm.DB, productID string, quantity int) (*models.Product, error) {
	var product models.Product
	err := db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("Product")
		}
		return nil, err
	}

	if product.Stock < quantity {
		return nil, InsufficientStockError(product.Name)
	}

	return &product, nil
}

// Decrement reduces stock by quantity. The WHERE guard keeps stock
// from ever going negative: if a concurrent order drained the product
// between check and decrement, zero rows match and the caller's
// transaction must roll back.
func (InventoryLedger) Decrement(db *gorm.DB, productID string, quantity int) error {
	res := db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		var product models.Product
		if err := db.Select("name").Where("id = ?", productID).First(&product).Error; err != nil {
			return NotFoundError("Product")
		}
		return InsufficientStockError(product.Name)
	}

	return nil
}

// Increment adds quantity back to stock (restock / manual adjustment).
func (InventoryLedger) Increment(db *gorm.DB, productID string, quantity int) (*models.Product, error) {
	res := db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, NotFoundError("Product")
	}

	var product models.Product
	if err := db.Where("id = ?", productID).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
