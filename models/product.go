package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	StoreID uint   `gorm:"not null;index" json:"store_id"`
	Name    string `gorm:"size:100;not null" json:"name"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StoreID     uint      `gorm:"not null;index" json:"store_id"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Category    Category  `json:"category,omitempty"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	HasVariants bool      `gorm:"not null;default:false" json:"has_variants"`
	ImageURL    *string   `gorm:"size:255" json:"image_url,omitempty"`
	Variants    []Variant `json:"variants"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Variant is the purchasable unit. A product with has_variants=false still
// owns exactly one variant row ("Default") so stock and pricing never
// special-case variant-less products.
type Variant struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	ProductID    uint    `gorm:"not null;index" json:"product_id"`
	Name         *string `gorm:"size:100" json:"name,omitempty"`
	Stock        int     `gorm:"not null;default:0" json:"stock"`
	OnlinePrice  float64 `gorm:"not null;default:0" json:"online_price"`
	OfflinePrice float64 `gorm:"not null;default:0" json:"offline_price"`
	ImageURL     *string `gorm:"size:255" json:"image_url,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DisplayName resolves the "Default" label for implicit variants.
func (v Variant) DisplayName() string {
	if v.Name == nil || *v.Name == "" {
		return "Default"
	}
	return *v.Name
}
