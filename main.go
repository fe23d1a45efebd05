package main

import (
	"net/http"
	"time"

	"github.com/ellie2222222/jewelry-workshop-api/config"
	"github.com/ellie2222222/jewelry-workshop-api/controllers"
	"github.com/ellie2222222/jewelry-workshop-api/logger"
	"github.com/ellie2222222/jewelry-workshop-api/middleware"
	"github.com/ellie2222222/jewelry-workshop-api/models"
	"github.com/ellie2222222/jewelry-workshop-api/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const catalogCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Sync()
	log := logger.L()

	if err := config.ConnectDatabase(); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := config.GetDB().AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database migration completed")

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatal("Failed to initialize S3", zap.Error(err))
		}
		services.InitImageService(s3Service)
	} else {
		log.Warn("AWS_S3_BUCKET not set, image uploads disabled")
	}

	if cfg.RedisURL != "" {
		if _, err := services.InitCacheService(cfg.RedisURL); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
	} else {
		log.Warn("REDIS_URL not set, response caching disabled")
	}

	services.InitPaymentGateway()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter()

	addr := ":" + cfg.Port
	log.Info("Server starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}

// setupRouter builds the gin engine with all middleware and routes. Split out
// of main so tests can mount the same routing table.
func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger.L()))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-Cache"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	staffWrite := middleware.RequireRole(models.RoleSaleStaff, models.RoleManager, models.RoleAdmin)
	managerOnly := middleware.RequireRole(models.RoleManager, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	anyStaff := middleware.RequireRole(models.RoleSaleStaff, models.RoleDesignStaff,
		models.RoleProductionStaff, models.RoleManager, models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		auth := v1.Group("/auth")
		{
			auth.POST("/signup", middleware.RateLimitStrict(), controllers.Signup)
			auth.POST("/login", middleware.RateLimitStrict(), controllers.Login)
			auth.POST("/refresh", middleware.RateLimitStrict(), controllers.Refresh)
			auth.POST("/logout", middleware.EnsureValidToken(), controllers.Logout)
		}

		users := v1.Group("/users", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			users.GET("", managerOnly, controllers.ListUsers)
			users.GET("/me", controllers.GetMyProfile)
			users.PATCH("/me", controllers.UpdateMyProfile)
			users.GET("/:id", managerOnly, controllers.GetUser)
			users.PATCH("/:id/role", adminOnly, controllers.ChangeUserRole)
			users.DELETE("/:id", adminOnly, controllers.DeleteUser)
		}

		jewelry := v1.Group("/jewelry", middleware.RateLimit())
		{
			jewelry.GET("", middleware.CachePage(catalogCacheTTL), controllers.ListJewelry)
			jewelry.GET("/:id", middleware.CachePage(catalogCacheTTL), controllers.GetJewelry)
			jewelry.POST("", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.CreateJewelry)
			jewelry.PATCH("/:id", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.UpdateJewelry)
			jewelry.DELETE("/:id", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.DeleteJewelry)
			jewelry.POST("/:id/images", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.UploadJewelryImage)
			jewelry.DELETE("/:id/images/:imageId", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.DeleteJewelryImage)
		}

		gemstones := v1.Group("/gemstones", middleware.RateLimit())
		{
			gemstones.GET("", middleware.CachePage(catalogCacheTTL), controllers.ListGemstones)
			gemstones.GET("/:id", middleware.CachePage(catalogCacheTTL), controllers.GetGemstone)
			gemstones.POST("", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.CreateGemstone)
			gemstones.PATCH("/:id", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.UpdateGemstone)
			gemstones.DELETE("/:id", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.DeleteGemstone)
		}

		materials := v1.Group("/materials", middleware.RateLimit())
		{
			materials.GET("", middleware.CachePage(catalogCacheTTL), controllers.ListMaterials)
			materials.GET("/:id", middleware.CachePage(catalogCacheTTL), controllers.GetMaterial)
			materials.POST("", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.CreateMaterial)
			materials.PATCH("/:id/price", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.UpdateMaterialPrice)
			materials.DELETE("/:id", middleware.EnsureValidToken(), managerOnly, middleware.InvalidateCache(), controllers.DeleteMaterial)
		}

		blogs := v1.Group("/blogs", middleware.RateLimit())
		{
			blogs.GET("", middleware.CachePage(catalogCacheTTL), controllers.ListBlogs)
			blogs.GET("/:id", middleware.CachePage(catalogCacheTTL), controllers.GetBlog)
			blogs.POST("", middleware.EnsureValidToken(), staffWrite, middleware.InvalidateCache(), controllers.CreateBlog)
			blogs.PATCH("/:id", middleware.EnsureValidToken(), staffWrite, middleware.InvalidateCache(), controllers.UpdateBlog)
			blogs.POST("/:id/image", middleware.EnsureValidToken(), staffWrite, middleware.InvalidateCache(), controllers.UploadBlogImage)
			blogs.DELETE("/:id", middleware.EnsureValidToken(), staffWrite, middleware.InvalidateCache(), controllers.DeleteBlog)
		}

		requests := v1.Group("/requests", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			requests.POST("", controllers.CreateRequest)
			requests.GET("", controllers.ListRequests)
			requests.GET("/:id", controllers.GetRequest)
			requests.PATCH("/:id", controllers.UpdateRequest)
			requests.PATCH("/:id/status", anyStaff, controllers.UpdateRequestStatus)
			requests.POST("/:id/cancel", controllers.CancelRequest)
		}

		quotes := v1.Group("/quotes", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			quotes.POST("", staffWrite, controllers.CreateQuote)
			quotes.GET("", controllers.ListQuotes)
			quotes.GET("/:id", controllers.GetQuote)
			quotes.PATCH("/:id/review", managerOnly, controllers.ReviewQuote)
			quotes.POST("/:id/decision", controllers.DecideQuote)
		}

		transactions := v1.Group("/transactions", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			transactions.POST("", controllers.CreateTransaction)
			transactions.GET("", anyStaff, controllers.ListTransactions)
			transactions.GET("/:id", controllers.GetTransaction)
		}

		invoices := v1.Group("/invoices", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			invoices.POST("", staffWrite, controllers.CreateInvoice)
			invoices.GET("", controllers.ListInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.GET("/:id/pdf", controllers.GetInvoicePDF)
		}

		worksOn := v1.Group("/works-on", middleware.EnsureValidToken(), managerOnly, middleware.RateLimit())
		{
			worksOn.POST("", controllers.CreateWorksOn)
			worksOn.GET("", controllers.ListWorksOn)
			worksOn.GET("/:id", controllers.GetWorksOn)
			worksOn.POST("/:id/staff", controllers.AddWorksOnStaff)
			worksOn.DELETE("/:id/staff/:staffId", controllers.RemoveWorksOnStaff)
		}

		productions := v1.Group("/productions", middleware.EnsureValidToken(), middleware.RateLimit(),
			middleware.RequireRole(models.RoleProductionStaff, models.RoleManager, models.RoleAdmin))
		{
			productions.POST("", controllers.CreateProduction)
			productions.GET("", controllers.ListProductions)
			productions.GET("/:id", controllers.GetProduction)
			productions.POST("/:id/complete", controllers.CompleteProduction)
		}

		designs := v1.Group("/designs", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			designs.POST("", middleware.RequireRole(models.RoleDesignStaff, models.RoleManager, models.RoleAdmin), controllers.CreateDesign)
			designs.GET("", controllers.ListDesigns)
			designs.GET("/:id", controllers.GetDesign)
			designs.PATCH("/:id/review", controllers.ReviewDesign)
			designs.DELETE("/:id", middleware.RequireRole(models.RoleDesignStaff, models.RoleManager, models.RoleAdmin), controllers.DeleteDesign)
		}

		warranties := v1.Group("/warranties", middleware.EnsureValidToken(), middleware.RateLimit())
		{
			warranties.GET("", controllers.ListWarranties)
			warranties.GET("/:id", controllers.GetWarranty)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/webhook", controllers.HandlePaymentWebhook)
			payments.GET("/:reference/status", middleware.EnsureValidToken(), controllers.GetPaymentStatus)
		}

		analytics := v1.Group("/analytics", middleware.EnsureValidToken(), managerOnly, middleware.RateLimit())
		{
			analytics.GET("/revenue", middleware.CachePage(catalogCacheTTL), controllers.GetTotalRevenue)
			analytics.GET("/revenue/growth", middleware.CachePage(catalogCacheTTL), controllers.GetRevenueGrowth)
			analytics.GET("/revenue/by-period", middleware.CachePage(catalogCacheTTL), controllers.GetRevenueByPeriod)
			analytics.GET("/materials/top", middleware.CachePage(catalogCacheTTL), controllers.GetTopMaterials)
			analytics.GET("/categories", middleware.CachePage(catalogCacheTTL), controllers.GetCategoryCounts)
			analytics.GET("/staff/top", middleware.CachePage(catalogCacheTTL), controllers.GetTopStaff)
		}

		uploads := v1.Group("/uploads", middleware.EnsureValidToken(), anyStaff, middleware.RateLimit())
		{
			uploads.POST("", controllers.UploadImage)
			uploads.GET("/*key", controllers.GetUploadedImageURL)
			uploads.DELETE("/*key", controllers.DeleteUploadedImage)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Jewelry Workshop API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
