package main

import (
	"context"
	"log"
	"time"

	"order_board/internal/config"
	"order_board/internal/database"
	"order_board/internal/handlers"
	"order_board/internal/metrics"
	"order_board/internal/notify"
	"order_board/internal/repository"
	"order_board/internal/services"
	"order_board/internal/stock"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis-backed notifier
	notifier, err := notify.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer notifier.Close()

	// Metrics registry
	reg := metrics.NewRegistry()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	productRepo := repository.NewProductRepository(db)

	// Initialize services
	engine := stock.NewEngine(cfg.StockLowThreshold)
	stockService := services.NewStockService(ingredientRepo, productRepo, orderRepo, engine, cfg.DemandIncludePreparing, notifier, reg)
	boardService := services.NewBoardService(orderRepo, stockService, notifier, reg)
	orderService := services.NewOrderService(orderRepo, stockService, notifier)

	// Re-run stock reconciliation on every order-change notification. The
	// push backend reacts immediately; the poller covers missed publishes.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sources := []notify.Source{notify.NewPushSource(notifier)}
	if cfg.OrderPollSeconds > 0 {
		sources = append(sources, notify.NewPollSource(time.Duration(cfg.OrderPollSeconds)*time.Second))
	}
	for _, source := range sources {
		go func(changes <-chan struct{}) {
			for range changes {
				if _, err := stockService.Reconcile(); err != nil {
					log.Printf("Stock reconciliation failed: %v", err)
				}
			}
		}(source.Changes(ctx))
	}

	// Initialize handlers
	boardTTL := time.Duration(cfg.BoardCacheTTL) * time.Second
	apiHandler := handlers.NewAPIHandler(boardService, orderService, stockService, notifier, boardTTL)

	// Setup routes
	router := gin.Default()

	router.GET("/metrics", gin.WrapH(reg.Handler()))

	api := router.Group("/api")
	{
		api.GET("/board", apiHandler.GetBoard)
		api.PUT("/board/reorder", apiHandler.ReorderColumn)
		api.POST("/board/move", apiHandler.MoveCard)

		api.POST("/orders", apiHandler.CreateOrder)
		api.GET("/orders", apiHandler.GetOrders)
		api.GET("/orders/:id", apiHandler.GetOrder)
		api.PUT("/orders/:id/status", apiHandler.UpdateOrderStatus)
		api.POST("/orders/:id/advance", apiHandler.AdvanceOrder)
		api.POST("/orders/:id/back", apiHandler.StepBackOrder)
		api.POST("/orders/:id/cancel", apiHandler.CancelOrder)
		api.POST("/orders/:id/duplicate", apiHandler.DuplicateOrder)

		api.GET("/stock/reconciliation", apiHandler.GetReconciliation)
		api.GET("/stock/shortfall", apiHandler.GetShoppingList)
		api.POST("/stock/movements", apiHandler.CreateStockMovement)

		api.GET("/ingredients", apiHandler.GetIngredients)
		api.POST("/ingredients", apiHandler.CreateIngredient)
		api.GET("/ingredients/:id/movements", apiHandler.GetIngredientMovements)
		api.GET("/products", apiHandler.GetProducts)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
