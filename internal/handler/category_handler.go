package handler

import (
	"strings"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	service service.CategoryService
	log     *zap.Logger
}

func NewCategoryHandler(s service.CategoryService, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{service: s, log: log}
}

// GetCategories lists categories, filtered by ?name= when present
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	var (
		categories []model.CategoryView
		err        error
	)
	if name := strings.TrimSpace(c.Query("name")); name != "" {
		categories, err = h.service.SearchCategories(c.UserContext(), name)
	} else {
		categories, err = h.service.ListCategories(c.UserContext())
	}
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Daftar kategori", categories)
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, 400, "Invalid category ID")
	}

	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Kategori ditemukan", category)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in model.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	category, err := h.service.CreateCategory(c.UserContext(), &in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 201, "Kategori berhasil ditambahkan", category)
}

func (h *CategoryHandler) RenameCategory(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, 400, "Invalid category ID")
	}

	var in model.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	category, err := h.service.RenameCategory(c.UserContext(), id, &in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Kategori berhasil diupdate", category)
}
