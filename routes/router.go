package routes

import (
	"pos-api/controllers"
	"pos-api/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {

	r.POST("/login", middlewares.LoginRateLimit(), controllers.Login)

	// Categories
	categories := r.Group("/categories")
	categories.Use(middlewares.AuthMiddleware())
	{
		categories.GET("/", controllers.GetCategories)
		categories.POST("/", middlewares.RoleMiddleware("admin"), controllers.CreateCategory)
		categories.PUT("/:id", middlewares.RoleMiddleware("admin"), controllers.UpdateCategory)
		categories.DELETE("/:id", middlewares.RoleMiddleware("admin"), controllers.DeleteCategory)
	}

	// Products
	products := r.Group("/products")
	products.Use(middlewares.AuthMiddleware())
	{
		products.GET("/", controllers.GetProducts)
		products.GET("/:id", controllers.GetProductByID)
		products.POST("/", middlewares.RoleMiddleware("admin", "cashier"), controllers.CreateProduct)
		products.PUT("/:id", middlewares.RoleMiddleware("admin", "cashier"), controllers.UpdateProduct)
		products.DELETE("/:id", middlewares.RoleMiddleware("admin"), controllers.DeleteProduct)
	}

	// Transactions
	transactions := r.Group("/transactions")
	transactions.Use(middlewares.AuthMiddleware())
	{
		transactions.POST("/", controllers.CreateTransaction)
		transactions.GET("/", controllers.GetTransactions)
		transactions.GET("/:kode", controllers.GetTransactionDetail)
		transactions.PUT("/:id", controllers.UpdateTransaction)
		transactions.DELETE("/:id", controllers.DeleteTransaction)
	}

	// Reports (admin only)
	reports := r.Group("/reports")
	reports.Use(middlewares.AuthMiddleware(), middlewares.RoleMiddleware("admin"))
	{
		reports.GET("/sales", controllers.GetSalesReport)
	}

	// Dashboard
	dashboard := r.Group("/dashboard")
	dashboard.Use(middlewares.AuthMiddleware())
	{
		dashboard.GET("/", controllers.GetDashboard)
	}
}
