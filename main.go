package main

import (
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pos-api/config"
	"pos-api/routes"
	"pos-api/seeders"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file, using environment as-is")
	}

	// connect db + cache
	config.ConnectDatabase()
	config.ConnectRedis()

	// init router
	r := gin.Default() // sudah ada Logger & Recovery

	// PASANG CORS SEBELUM ROUTES
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// routes
	routes.RegisterRoutes(r)

	// seed data
	seeders.Seed()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
