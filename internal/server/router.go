// Package server assembles the HTTP API: stores, services, the ledger engine,
// handlers and routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fintrack/internal/docs" // swagger docs
	"fintrack/internal/events"
	"fintrack/internal/handlers"
	"fintrack/internal/ledger"
	"fintrack/internal/lock"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

const healthTimeout = 2 * time.Second

// Dependencies are the external resources the API runs on. Locker and
// Publisher may be nil: wallets are then locked in process and ledger events
// are dropped.
type Dependencies struct {
	DB        *gorm.DB
	Locker    lock.Locker
	Publisher events.Publisher
}

// NewRouter wires every layer on top of deps and returns the gin engine.
func NewRouter(deps Dependencies) *gin.Engine {
	locker := deps.Locker
	if locker == nil {
		locker = lock.NewLocal()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	// Stores and services
	tx := store.NewTransactor(deps.DB)
	stores := tx.Stores()

	userService := services.NewUserService(tx)
	auditService := services.NewAuditService(stores.Audit)
	walletService := services.NewWalletService(tx, locker)
	categoryService := services.NewCategoryService(tx)
	transactionService := services.NewTransactionService(stores)
	budgetService := services.NewBudgetService(stores)
	goalService := services.NewGoalService(stores.Goals)
	engine := ledger.NewEngine(tx, locker, publisher)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	walletHandler := handlers.NewWalletHandler(walletService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	goalHandler := handlers.NewGoalHandler(goalService)
	operationHandler := handlers.NewOperationHandler(engine, auditService)
	adminHandler := handlers.NewAdminHandler(userService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", health(deps.DB))

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PATCH("/profile", authHandler.UpdateProfile)
	protected.GET("/profile/audit-logs", authHandler.GetAuditLogs)

	wallets := protected.Group("/wallets")
	wallets.POST("", walletHandler.CreateWallet)
	wallets.GET("", walletHandler.GetWallets)
	wallets.GET("/:id", walletHandler.GetWallet)
	wallets.PATCH("/:id", walletHandler.UpdateWallet)
	wallets.DELETE("/:id", walletHandler.DeleteWallet)
	wallets.GET("/:id/transactions", transactionHandler.GetWalletTransactions)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	transactions := protected.Group("/transactions")
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PATCH("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PATCH("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	operations := protected.Group("/operations")
	operations.POST("/transfer-between-wallets", operationHandler.TransferBetweenWallets)
	operations.POST("/transfer-to-user", operationHandler.TransferToUser)
	operations.POST("/purchase", operationHandler.Purchase)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PATCH("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/users/:id/audit-logs", adminHandler.GetUserAuditLogs)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// health reports whether the database answers a ping.
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
