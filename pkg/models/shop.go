package models

import (
	"time"
)

type Shop struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Address       string    `gorm:"type:varchar(255);not null" json:"address"`
	Phone         string    `gorm:"type:varchar(20);not null" json:"phone"`
	Region        string    `gorm:"type:varchar(50);index" json:"region,omitempty"`
	ContactPerson string    `gorm:"type:varchar(100)" json:"contactPerson,omitempty"`
	Email         string    `gorm:"type:varchar(100)" json:"email,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Shop) TableName() string {
	return "shops"
}
