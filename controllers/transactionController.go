package controllers

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pos-api/config"
	"pos-api/dtos"
	"pos-api/models"
	"pos-api/services"
	"pos-api/utils"
	"pos-api/utils/common"
	"pos-api/utils/pagination"
	"pos-api/utils/response"
)

func actorFromContext(c *gin.Context) services.Actor {
	actor := services.Actor{
		StoreID: common.GetStoreID(c),
		IP:      c.ClientIP(),
	}
	if userID := common.GetUserID(c); userID != nil {
		actor.UserID = *userID
	}
	return actor
}

// Commit a checkout cart as one atomic transaction
func CreateTransaction(c *gin.Context) {
	var input dtos.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	actor := actorFromContext(c)
	service := services.NewTransactionService(config.DB)

	result, err := service.Commit(actor, input)
	if err != nil {
		response.HandleServiceError(c, err)
		return
	}

	invalidateStoreCaches(c.Request.Context(), actor.StoreID)
	go notifyOwner(result)

	c.JSON(http.StatusCreated, dtos.CheckoutResponse{
		Success:       true,
		KodeTransaksi: result.Kode,
		GrandTotal:    result.GrandTotal,
		Change:        result.Change,
	})
}

// Update replaces a transaction's cart and payments in place
func UpdateTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid transaction id"})
		return
	}

	var input dtos.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	actor := actorFromContext(c)
	service := services.NewTransactionService(config.DB)

	result, err := service.Update(actor, uint(id), input)
	if err != nil {
		response.HandleServiceError(c, err)
		return
	}

	invalidateStoreCaches(c.Request.Context(), actor.StoreID)

	c.JSON(http.StatusOK, dtos.CheckoutResponse{
		Success:       true,
		KodeTransaksi: result.Kode,
		GrandTotal:    result.GrandTotal,
		Change:        result.Change,
	})
}

// Delete reverses stock and removes the transaction graph
func DeleteTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid transaction id"})
		return
	}

	actor := actorFromContext(c)
	service := services.NewTransactionService(config.DB)

	if err := service.Delete(actor, uint(id)); err != nil {
		response.HandleServiceError(c, err)
		return
	}

	invalidateStoreCaches(c.Request.Context(), actor.StoreID)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Transaksi berhasil dihapus"})
}

// Get all transactions with pagination and optional per-day filter
func GetTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	filterDate := c.Query("date")

	p := pagination.New(page, pageSize)
	storeID := common.GetStoreID(c)

	var transactions []models.Transaction
	var total int64

	db := config.DB.Model(&models.Transaction{}).Where("store_id = ?", storeID)

	if filterDate != "" {
		start, err := time.Parse("2006-01-02", filterDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid date, expected YYYY-MM-DD"})
			return
		}
		end := start.Add(24 * time.Hour)
		db = db.Where("created_at >= ? AND created_at < ?", start, end)
	}

	if err := db.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if err := db.Preload("Details.Product").Preload("Details.Variant").Preload("Payments").
		Order("created_at DESC").
		Limit(p.PageSize).
		Offset(p.Offset).
		Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": transactions,
		"meta": pagination.BuildMeta(p.Page, p.PageSize, total),
	})
}

// Get the full transaction graph by kode or numeric id
func GetTransactionDetail(c *gin.Context) {
	key := c.Param("kode")
	storeID := common.GetStoreID(c)

	query := config.DB.
		Preload("Details.Product.Category").
		Preload("Details.Variant").
		Preload("Payments").
		Preload("User").
		Where("store_id = ?", storeID)

	var transaction models.Transaction
	var err error
	if id, convErr := strconv.ParseUint(key, 10, 64); convErr == nil {
		err = query.First(&transaction, uint(id)).Error
	} else {
		err = query.Where("kode = ?", key).First(&transaction).Error
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Transaksi tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, transaction)
}

func getOwnerPhone() string {
	return os.Getenv("OWNER_PHONE")
}

// notifyOwner sends the sale to the store owner's WhatsApp when
// configured. Failures only log; the sale is already committed.
func notifyOwner(result *services.CommitResult) {
	phone := getOwnerPhone()
	if phone == "" {
		return
	}

	var details []models.TransactionDetail
	if err := config.DB.Preload("Product").
		Where("transaction_id = ?", result.TransactionID).
		Find(&details).Error; err != nil {
		log.Warnf("failed to load details for notification: %v", err)
		return
	}

	lines := make([]string, 0, len(details))
	for _, d := range details {
		lines = append(lines, fmt.Sprintf("%s x%d", d.Product.Name, d.Quantity))
	}

	message := utils.FormatSaleMessage(result.Kode, result.GrandTotal, lines)
	if err := utils.SendWhatsAppNotification(phone, message); err != nil {
		log.Warnf("failed to send WhatsApp notification: %v", err)
	}
}
