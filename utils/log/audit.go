package log

import (
	"encoding/json"

	"gorm.io/gorm"

	"pos-api/models"
)

// CreateTransactionAuditLog writes an audit row inside the caller's DB
// transaction so the log is rolled back together with the operation.
func CreateTransactionAuditLog(
	db *gorm.DB,
	action string,
	entityID uint,
	oldTx, newTx *models.Transaction,
	userID *uint,
	ipAddress string,
	description string,
) error {
	auditLog := models.AuditLog{
		EntityType:  "transaction",
		EntityID:    entityID,
		Action:      action,
		UserID:      userID,
		OldValue:    toJSONString(oldTx),
		NewValue:    toJSONString(newTx),
		IPAddress:   &ipAddress,
		Description: description,
	}

	return db.Create(&auditLog).Error
}

func CreateProductAuditLog(
	db *gorm.DB,
	action string,
	entityID uint,
	oldProduct, newProduct *models.Product,
	userID *uint,
	ipAddress string,
	description string,
) error {
	auditLog := models.AuditLog{
		EntityType:  "product",
		EntityID:    entityID,
		Action:      action,
		UserID:      userID,
		OldValue:    toJSONString(oldProduct),
		NewValue:    toJSONString(newProduct),
		IPAddress:   &ipAddress,
		Description: description,
	}

	return db.Create(&auditLog).Error
}

func toJSONString(v interface{}) *string {
	if v == nil {
		return nil
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	str := string(bytes)
	return &str
}
