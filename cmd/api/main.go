package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"
	"go-inventory-ledger/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, envLoaded, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !envLoaded {
		log.Warn(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal("Failed to create upload dir", zap.String("dir", cfg.UploadDir), zap.Error(err))
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log)
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	store := repository.NewStore(db)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	catalogService := service.NewCatalogService(store)
	categoryService := service.NewCategoryService(store)
	checkoutService := service.NewCheckoutService(store)
	dashService := service.NewDashboardService(store)
	authService := service.NewAuthService(store.Users(), tokens)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, log),
		Product:     handler.NewProductHandler(catalogService, wsHub, log, cfg.UploadDir),
		Category:    handler.NewCategoryHandler(categoryService, log),
		Transaction: handler.NewTransactionHandler(checkoutService, wsHub, log),
		Dashboard:   handler.NewDashboardHandler(dashService, log),
	}

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Inventory Ledger v1.0",
		BodyLimit: 8 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())             // Panic recovery
	app.Use(cors.New())                // CORS
	app.Use(logger.RequestLogger(log)) // Logging request

	app.Static("/public/uploads", cfg.UploadDir)

	// 6. Routes
	handler.RegisterRoutes(app, handlers, middleware.RequireAuth(tokens, store.Users()))

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic("Server stopped", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
