package routes

import (
	"os"
	"strings"
	"time"

	"suriparts-backend/config"
	"suriparts-backend/controllers"
	"suriparts-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Inventory routes
		parts := api.Group("/parts")
		{
			parts.POST("", controllers.CreatePart)
			parts.GET("", controllers.GetParts)
			parts.GET("/categories", controllers.GetPartCategories)
			parts.GET("/:id", controllers.GetPart)
			parts.PUT("/:id", controllers.UpdatePart)
			parts.DELETE("/:id", controllers.DeletePart)
		}

		// Client routes
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
		}

		// Quote routes
		quotes := api.Group("/quotes")
		{
			quotes.POST("", controllers.CreateQuote)
			quotes.GET("", controllers.GetQuotes)
			quotes.GET("/stats", controllers.GetQuoteStats)
			quotes.GET("/:id", controllers.GetQuote)
			quotes.GET("/:id/pdf", controllers.GetQuotePDF)
			quotes.PUT("/:id", controllers.UpdateQuote)
			quotes.POST("/:id/duplicate", controllers.DuplicateQuote)
			quotes.DELETE("/:id", controllers.DeleteQuote)
		}

		// Supplier routes (no delete route; suppliers are only ever edited)
		suppliers := api.Group("/suppliers")
		{
			suppliers.POST("", controllers.CreateSupplier)
			suppliers.GET("", controllers.GetSuppliers)
			suppliers.GET("/:id", controllers.GetSupplier)
			suppliers.PUT("/:id", controllers.UpdateSupplier)
		}

		// RFQ routes
		rfqs := api.Group("/rfqs")
		{
			rfqs.POST("", controllers.CreateRFQ)
			rfqs.GET("", controllers.GetRFQs)
			rfqs.GET("/:id", controllers.GetRFQ)
			rfqs.PUT("/:id", controllers.UpdateRFQ)
		}

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)
	}

	return r
}
