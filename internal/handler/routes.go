package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth        *AuthHandler
	Product     *ProductHandler
	Category    *CategoryHandler
	Transaction *TransactionHandler
	Dashboard   *DashboardHandler
}

// RegisterRoutes mounts the REST API under /api/v1. requireAuth guards every
// route except auth and category reads.
func RegisterRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	api.Get("/categories", h.Category.GetCategories)
	api.Get("/categories/:id", h.Category.GetCategory)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Product Routes (static paths before :id)
	protected.Get("/products", h.Product.GetProducts)
	protected.Get("/products/search", h.Product.SearchProducts)
	protected.Get("/products/stats", h.Product.GetStatistics)
	protected.Get("/products/:id", h.Product.GetProduct)
	protected.Post("/products", adminOnly, h.Product.CreateProduct)
	protected.Put("/products/:id", adminOnly, h.Product.UpdateProduct)
	protected.Delete("/products/:id", adminOnly, h.Product.DeleteProduct)

	// Category Routes
	protected.Post("/categories", adminOnly, h.Category.CreateCategory)
	protected.Put("/categories/:id", adminOnly, h.Category.RenameCategory)

	// Transaction Routes
	protected.Post("/transactions/checkout", h.Transaction.Checkout)
	protected.Get("/transactions", h.Transaction.GetMyTransactions)
	protected.Get("/transactions/:id", h.Transaction.GetTransaction)

	// Dashboard Routes
	protected.Get("/dashboard/overview", adminOnly, h.Dashboard.GetOverview)
	protected.Get("/dashboard/sales", adminOnly, h.Dashboard.GetSales)
}
