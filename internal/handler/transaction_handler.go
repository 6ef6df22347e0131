package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	service service.CheckoutService
	events  ws.Publisher
	log     *zap.Logger
}

func NewTransactionHandler(s service.CheckoutService, events ws.Publisher, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{service: s, events: events, log: log}
}

type checkoutBody struct {
	Items []model.CheckoutItem `json:"items"`
}

// Checkout buys the given items for the authenticated user
func (h *TransactionHandler) Checkout(c *fiber.Ctx) error {
	var body checkoutBody
	if err := c.BodyParser(&body); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	tx, err := h.service.Checkout(c.UserContext(), &model.CheckoutRequest{
		UserID: middleware.CurrentUserID(c),
		Items:  body.Items,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	for _, item := range tx.Items {
		if item.Product == nil {
			continue
		}
		h.events.Publish(fiber.Map{
			"type":     "stock_update",
			"action":   "checkout",
			"product":  fiber.Map{"id": item.Product.ID, "name": item.Product.Name, "stock": item.Product.Stock},
			"quantity": item.Quantity,
			"user":     fiber.Map{"id": tx.UserID, "name": middleware.CurrentUserName(c)},
		})
	}

	return success(c, 201, "Checkout berhasil", tx)
}

// GetTransaction is visible to its owner and to admins
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, 400, "Invalid transaction ID")
	}

	tx, err := h.service.GetTransaction(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if tx.UserID != middleware.CurrentUserID(c) && middleware.CurrentUserRole(c) != model.RoleAdmin {
		return fail(c, 403, "Forbidden")
	}
	return success(c, 200, "Transaksi ditemukan", tx)
}

// GetMyTransactions query params: page (1), limit (10)
func (h *TransactionHandler) GetMyTransactions(c *fiber.Ctx) error {
	page, err := h.service.ListUserTransactions(
		c.UserContext(),
		middleware.CurrentUserID(c),
		c.QueryInt("page", 1),
		c.QueryInt("limit", 10),
	)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Riwayat transaksi",
		"data":    page.Transactions,
		"meta": fiber.Map{
			"totalItems":  page.TotalItems,
			"totalPages":  page.TotalPages,
			"currentPage": page.CurrentPage,
		},
	})
}
