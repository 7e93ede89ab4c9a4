package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions
// under strict transition checking. Pending and approved orders can
// still move; everything else is a final state.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderNumber   string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"orderNumber"`
	ShopID        string          `gorm:"type:varchar(36);not null;index" json:"shopId"`
	Shop          Shop            `gorm:"foreignKey:ShopID" json:"-"`
	SalespersonID string          `gorm:"type:varchar(36);not null;index" json:"salespersonId"`
	Salesperson   User            `gorm:"foreignKey:SalespersonID" json:"-"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalAmount"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	ApprovedByID  *string         `gorm:"type:varchar(36)" json:"-"`
	ApprovedBy    *User           `gorm:"foreignKey:ApprovedByID" json:"-"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is created together with its Order and never mutated afterwards.
// Price is a snapshot of the product price at order time.
type OrderItem struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"-"`
	ProductID string          `gorm:"type:varchar(36);not null;index" json:"productId"`
	Product   Product         `gorm:"foreignKey:ProductID" json:"-"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
