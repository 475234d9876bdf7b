package models

import (
	"time"
)

type Transaction struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Kode          string  `gorm:"size:32;uniqueIndex;not null" json:"kode_transaksi"`
	StoreID       uint    `gorm:"not null;index" json:"store_id"`
	UserID        uint    `gorm:"not null" json:"user_id"`
	User          User    `json:"user,omitempty"`
	Channel       string  `gorm:"size:10;not null;default:'offline'" json:"channel"`
	PaymentMethod string  `gorm:"size:10;not null" json:"payment_method"`
	Total         float64 `gorm:"not null;default:0" json:"total"`
	Discount      float64 `gorm:"not null;default:0" json:"discount"`
	GrandTotal    float64 `gorm:"not null;default:0" json:"grand_total"`

	Details  []TransactionDetail  `json:"details"`
	Payments []TransactionPayment `json:"payments"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TransactionDetail rows are immutable once written; edits delete and
// recreate the whole set. VariantID is nullable only to tolerate rows
// imported from the legacy system — every row this code writes has it.
type TransactionDetail struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	TransactionID uint     `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint     `gorm:"not null" json:"product_id"`
	Product       Product  `json:"product,omitempty"`
	VariantID     *uint    `gorm:"index" json:"variant_id,omitempty"`
	Variant       *Variant `json:"variant,omitempty"`
	Quantity      int      `gorm:"not null" json:"quantity"`
	Price         float64  `gorm:"not null" json:"price"`
	Subtotal      float64  `gorm:"not null" json:"subtotal"`
}

type TransactionPayment struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TransactionID uint    `gorm:"not null;index" json:"transaction_id"`
	Method        string  `gorm:"size:10;not null" json:"method"`
	Nominal       float64 `gorm:"not null" json:"nominal"`
	Keterangan    *string `gorm:"size:100" json:"keterangan,omitempty"`
}

type AuditLog struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	EntityType  string  `gorm:"size:30;not null" json:"entity_type"`
	EntityID    uint    `gorm:"not null" json:"entity_id"`
	Action      string  `gorm:"size:20;not null" json:"action"`
	UserID      *uint   `json:"user_id,omitempty"`
	OldValue    *string `gorm:"type:text" json:"old_value,omitempty"`
	NewValue    *string `gorm:"type:text" json:"new_value,omitempty"`
	IPAddress   *string `gorm:"size:45" json:"ip_address,omitempty"`
	Description string  `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
