package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/config"
	"pos-api/models"
	"pos-api/utils/common"
)

const lowStockThreshold = 5

type topVariant struct {
	ProductName string  `json:"product_name"`
	VariantName *string `json:"variant_name"`
	Quantity    int     `json:"quantity"`
}

// GetDashboard summarises today's sales for the cashier home screen.
func GetDashboard(c *gin.Context) {
	storeID := common.GetStoreID(c)

	var cached gin.H
	if cacheGetJSON(c.Request.Context(), dashboardCacheKey(storeID), &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var revenue float64
	var count int64
	if err := config.DB.Model(&models.Transaction{}).
		Where("store_id = ? AND created_at >= ?", storeID, startOfDay).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(&models.Transaction{}).
		Where("store_id = ? AND created_at >= ?", storeID, startOfDay).
		Select("COALESCE(SUM(grand_total), 0)").
		Scan(&revenue)

	var lowStock []models.Variant
	config.DB.
		Joins("JOIN products ON products.id = variants.product_id").
		Where("products.store_id = ? AND products.deleted_at IS NULL AND variants.stock < ?", storeID, lowStockThreshold).
		Order("variants.stock ASC").
		Find(&lowStock)

	var topVariants []topVariant
	config.DB.Model(&models.TransactionDetail{}).
		Select("products.name AS product_name, variants.name AS variant_name, SUM(transaction_details.quantity) AS quantity").
		Joins("JOIN transactions ON transactions.id = transaction_details.transaction_id").
		Joins("JOIN products ON products.id = transaction_details.product_id").
		Joins("LEFT JOIN variants ON variants.id = transaction_details.variant_id").
		Where("transactions.store_id = ? AND transactions.created_at >= ?", storeID, startOfDay).
		Group("products.name, variants.name").
		Order("quantity DESC").
		Limit(5).
		Scan(&topVariants)

	body := gin.H{
		"date":              startOfDay.Format("2006-01-02"),
		"revenue":           revenue,
		"transaction_count": count,
		"low_stock":         lowStock,
		"top_variants":      topVariants,
	}

	cacheSetJSON(c.Request.Context(), dashboardCacheKey(storeID), body, config.CacheTTLShort)
	c.JSON(http.StatusOK, body)
}
