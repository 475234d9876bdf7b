package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pos-api/config"
	"pos-api/dtos"
	"pos-api/models"
	"pos-api/utils/common"
	auditlog "pos-api/utils/log"
	"pos-api/utils/pagination"
)

func GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	name := c.Query("name")

	p := pagination.New(page, pageSize)
	storeID := common.GetStoreID(c)

	// Cache-aside only for the unfiltered first page, the cashier
	// screen's hot path.
	cacheable := name == "" && p.Page == 1 && p.PageSize == 10
	if cacheable {
		var cached gin.H
		if cacheGetJSON(c.Request.Context(), productCacheKey(storeID), &cached) {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	var products []models.Product
	var total int64

	query := config.DB.Model(&models.Product{}).Where("store_id = ?", storeID)
	for _, term := range strings.Fields(strings.ToLower(strings.TrimSpace(name))) {
		query = query.Where("LOWER(name) LIKE ?", "%"+term+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := query.Preload("Category").Preload("Variants").
		Offset(p.Offset).
		Limit(p.PageSize).
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{
		"data": products,
		"meta": pagination.BuildMeta(p.Page, p.PageSize, total),
	}
	if cacheable {
		cacheSetJSON(c.Request.Context(), productCacheKey(storeID), body, config.CacheTTLShort)
	}

	c.JSON(http.StatusOK, body)
}

func GetProductByID(c *gin.Context) {
	var product models.Product
	if err := config.DB.Preload("Category").Preload("Variants").
		Where("store_id = ?", common.GetStoreID(c)).
		First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func CreateProduct(c *gin.Context) {
	var input dtos.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	storeID := common.GetStoreID(c)

	var category models.Category
	if err := config.DB.Where("id = ? AND store_id = ?", input.CategoryID, storeID).
		First(&category).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kategori tidak ditemukan"})
		return
	}

	if input.HasVariants && len(input.Variants) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Produk dengan varian harus memiliki minimal satu varian"})
		return
	}

	product := models.Product{
		StoreID:     storeID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		HasVariants: input.HasVariants,
		ImageURL:    input.ImageURL,
	}

	if input.HasVariants {
		for _, v := range input.Variants {
			product.Variants = append(product.Variants, models.Variant{
				Name:         v.Name,
				Stock:        v.Stock,
				OnlinePrice:  v.OnlinePrice,
				OfflinePrice: v.OfflinePrice,
				ImageURL:     v.ImageURL,
			})
		}
	} else {
		// Non-variant products still get one real variant row so stock
		// and pricing never branch on has_variants.
		product.Variants = []models.Variant{{
			Stock:        input.Stock,
			OnlinePrice:  input.OnlinePrice,
			OfflinePrice: input.OfflinePrice,
		}}
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}

		description := fmt.Sprintf("Product '%s' created", product.Name)
		return auditlog.CreateProductAuditLog(
			tx,
			"create",
			product.ID,
			nil,
			&product,
			common.GetUserID(c),
			c.ClientIP(),
			description,
		)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateStoreCaches(c.Request.Context(), storeID)
	c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c *gin.Context) {
	storeID := common.GetStoreID(c)

	var oldProduct models.Product
	if err := config.DB.Preload("Variants").
		Where("store_id = ?", storeID).
		First(&oldProduct, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input dtos.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldCopy := oldProduct

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		oldProduct.Name = input.Name
		oldProduct.CategoryID = input.CategoryID
		oldProduct.ImageURL = input.ImageURL

		if err := tx.Save(&oldProduct).Error; err != nil {
			return err
		}

		description := fmt.Sprintf("Product '%s' updated", oldProduct.Name)
		return auditlog.CreateProductAuditLog(
			tx,
			"update",
			oldProduct.ID,
			&oldCopy,
			&oldProduct,
			common.GetUserID(c),
			c.ClientIP(),
			description,
		)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateStoreCaches(c.Request.Context(), storeID)
	c.JSON(http.StatusOK, oldProduct)
}

func DeleteProduct(c *gin.Context) {
	storeID := common.GetStoreID(c)

	var product models.Product
	if err := config.DB.Where("store_id = ?", storeID).
		First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	productCopy := product

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&product).Error; err != nil {
			return err
		}

		description := fmt.Sprintf("Product '%s' deleted", productCopy.Name)
		return auditlog.CreateProductAuditLog(
			tx,
			"delete",
			productCopy.ID,
			&productCopy,
			nil,
			common.GetUserID(c),
			c.ClientIP(),
			description,
		)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateStoreCaches(c.Request.Context(), storeID)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
