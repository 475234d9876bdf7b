package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pos-api/config"
	"pos-api/services"
)

func GetSalesReport(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start harus berformat YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end harus berformat YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end tidak boleh sebelum start"})
		return
	}

	svc := services.NewReportService(config.DB)
	report, err := svc.SalesReport(actorFromContext(c), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
