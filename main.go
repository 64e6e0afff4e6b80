package main

import (
	"fmt"
	"log"
	"os"

	"suriparts-backend/config"
	"suriparts-backend/controllers"
	"suriparts-backend/models"
	"suriparts-backend/routes"
	"suriparts-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Part{},
		&models.Client{},
		&models.Supplier{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.QuoteSequence{},
		&models.RFQ{},
		&models.ActivityLog{},
	)
}

func main() {
	notifier := services.NewNotifyService()
	if notifier.Enabled() {
		controllers.Notifier = notifier
	} else {
		log.Println("Twilio not configured, quote notifications disabled")
	}

	services.NewExpiryService(config.DB).StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
