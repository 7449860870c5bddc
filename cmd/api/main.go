package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-pos-backend/internal/handler"
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/internal/storage"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/database"
	"go-pos-backend/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on system env")
	}
	logger.Init()

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.BusinessLocation{},
		&model.Product{},
		&model.Purchase{},
		&model.InventoryLot{},
		&model.PurchaseAuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	seedDefaults(db)

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	docStore, err := storage.NewStore(filepath.Join(uploadDir, "purchases"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare document storage")
	}

	hub := ws.NewHub()
	go hub.Run()

	// Wiring
	purchaseRepo := repository.NewPurchaseRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	productRepo := repository.NewProductRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)
	userRepo := repository.NewUserRepo(db)

	txRunner := service.NewTxRunner(db)
	auditRecorder := service.NewAuditRecorder(auditRepo)

	purchaseService := service.NewPurchaseService(
		txRunner, purchaseRepo, inventoryRepo, supplierRepo,
		productRepo, locationRepo, auditRecorder, docStore, hub,
	)
	duesService := service.NewDuesService(txRunner, supplierRepo, purchaseRepo)
	inventoryService := service.NewInventoryService(txRunner, inventoryRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	authService := service.NewAuthService(userRepo)

	purchaseHandler := handler.NewPurchaseHandler(purchaseService, duesService, docStore)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	supplierHandler := handler.NewSupplierHandler(supplierService, duesService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName:   "POS Back Office v1.0",
		BodyLimit: 20 * 1024 * 1024,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Static("/documents", docStore.Dir())

	api := app.Group("/api/v1")

	api.Post("/login", authHandler.Login)
	api.Post("/reset-password", authHandler.ResetPassword)

	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/purchases", purchaseHandler.List)
	protected.Post("/purchases", purchaseHandler.Create)
	protected.Post("/purchases/supplier-dues", purchaseHandler.SupplierDues)
	protected.Get("/purchases/:id", purchaseHandler.Get)
	protected.Put("/purchases/:id", purchaseHandler.Update)
	protected.Delete("/purchases/:id", purchaseHandler.Delete)
	protected.Post("/purchases/:id/receive-stock", purchaseHandler.ReceiveStock)
	protected.Post("/purchases/:id/restore", purchaseHandler.Restore)
	protected.Get("/purchases/:id/audit-logs", purchaseHandler.AuditLogs)

	protected.Get("/product-inventory", inventoryHandler.List)
	protected.Get("/product-inventory/stock-levels", inventoryHandler.StockLevels)
	protected.Get("/product-inventory/:id", inventoryHandler.Get)
	protected.Put("/product-inventory/:id", inventoryHandler.Update)

	protected.Get("/suppliers", supplierHandler.List)
	protected.Post("/suppliers", supplierHandler.Create)
	protected.Get("/suppliers/:id", supplierHandler.Get)
	protected.Get("/suppliers/:id/dues", supplierHandler.Dues)
	protected.Post("/suppliers/:id/dues", supplierHandler.AdjustDues)

	// WebSocket stock feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// seedDefaults creates the admin user and default business location on an
// empty database.
func seedDefaults(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		admin := &model.User{
			Email:     "admin@example.com",
			FirstName: "Master",
			LastName:  "Administrator",
			IsActive:  true,
		}
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Error().Err(err).Msg("failed to hash admin password")
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Error().Err(err).Msg("failed to seed admin user")
			return
		}
		log.Info().Str("email", admin.Email).Msg("seeded admin user")
	}

	var locations int64
	db.Model(&model.BusinessLocation{}).Count(&locations)
	if locations == 0 {
		location := &model.BusinessLocation{
			Name:     "Main Store",
			IsActive: true,
		}
		if err := db.Create(location).Error; err != nil {
			log.Error().Err(err).Msg("failed to seed default location")
			return
		}
		log.Info().Str("name", location.Name).Msg("seeded default business location")
	}
}
