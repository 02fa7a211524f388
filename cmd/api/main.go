package main

import (
	"log"
	"os"

	_ "tariff-backend/api/swagger" // swagger docs
	"tariff-backend/internal/database"
	"tariff-backend/internal/handler"
	"tariff-backend/internal/repository"
	"tariff-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Tariff Calculation API
// @version         1.0
// @description     Import duty calculation over temporally-versioned tariff rules.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "tariff")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up dependencies (Repository -> Service -> Handler)
	clock := service.SystemClock()
	txManager := repository.NewTransactionManager(db)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	countryRepo := repository.NewCountryRepository(db)
	ruleRepo := repository.NewTariffRuleRepository(db)

	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo)
	countryService := service.NewCountryService(countryRepo)
	ruleService := service.NewTariffRuleService(ruleRepo, txManager, clock)
	calcService := service.NewCalculationService(ruleService, clock)
	csvService := service.NewCsvService(productRepo, ruleService, clock)

	authHandler := handler.NewAuthHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	countryHandler := handler.NewCountryHandler(countryService)
	ruleHandler := handler.NewTariffRuleHandler(ruleService)
	calcHandler := handler.NewCalculationHandler(calcService)
	csvHandler := handler.NewCsvHandler(csvService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:5175"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// API Routing
	authHandler.RegisterRoutes(router.Group(""))
	productHandler.RegisterRoutes(router.Group(""))
	countryHandler.RegisterRoutes(router.Group(""))
	ruleHandler.RegisterRoutes(router.Group(""))
	calcHandler.RegisterRoutes(router.Group(""))
	csvHandler.RegisterRoutes(router.Group(""))

	port := getenv("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
