package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/freshpress/juicebar-app/config"
	"github.com/freshpress/juicebar-app/middlewares"
	"github.com/freshpress/juicebar-app/models"
	"github.com/freshpress/juicebar-app/router"
	"github.com/freshpress/juicebar-app/utils"
	"github.com/freshpress/juicebar-app/ws"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	for _, envVar := range []string{"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET"} {
		if os.Getenv(envVar) == "" {
			log.Printf("Warning: %s is not set, payment endpoints will be unavailable", envVar)
		}
	}
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	hub := ws.Init()
	defer ws.Shutdown()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, hub)
	r.Use(rateLimiter.RateLimit())
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Size{},
		&models.AddOn{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
