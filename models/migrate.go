package models

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Store{},
		&User{},
		&Category{},
		&Product{},
		&Variant{},
		&Transaction{},
		&TransactionDetail{},
		&TransactionPayment{},
		&AuditLog{},
	)
}
