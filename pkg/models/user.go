package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin         UserRole = "admin"
	RoleSalesperson   UserRole = "salesperson"
	RoleRegionalSales UserRole = "regional_sales"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesperson, RoleRegionalSales:
		return true
	}
	return false
}

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Role      UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Region    string    `gorm:"type:varchar(50)" json:"region,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
