package handler

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"
	"go-inventory-ledger/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service   service.CatalogService
	events    ws.Publisher
	log       *zap.Logger
	uploadDir string
}

func NewProductHandler(s service.CatalogService, events ws.Publisher, log *zap.Logger, uploadDir string) *ProductHandler {
	return &ProductHandler{service: s, events: events, log: log, uploadDir: uploadDir}
}

// GetProducts lists active products
// Query params: page (1), limit (10), search, sortBy (createdAt), sortOrder (desc)
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	page, err := h.service.ListProducts(c.UserContext(), service.ListProductsParams{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	})
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Daftar produk",
		"data":    page.Products,
		"meta": fiber.Map{
			"totalItems":  page.TotalItems,
			"totalPages":  page.TotalPages,
			"currentPage": page.CurrentPage,
		},
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, 400, "Invalid product ID")
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Produk ditemukan", product)
}

// SearchProducts query params: name, max_price
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	var maxPrice *decimal.Decimal
	if raw := c.Query("max_price"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return fail(c, 400, "max_price must be a number")
		}
		maxPrice = &parsed
	}

	products, err := h.service.SearchProducts(c.UserContext(), strings.TrimSpace(c.Query("name")), maxPrice)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Hasil pencarian", products)
}

// GetStatistics query params: categoryId (optional)
func (h *ProductHandler) GetStatistics(c *fiber.Ctx) error {
	var categoryID *uint
	if raw := c.Query("categoryId"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			return fail(c, 400, "categoryId must be a positive integer")
		}
		id := uint(parsed)
		categoryID = &id
	}

	report, err := h.service.GetStatistics(c.UserContext(), categoryID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Statistik produk", report)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var (
		in     model.CreateProductInput
		upload string
		err    error
	)
	if isMultipart(c) {
		if upload, err = h.parseCreateForm(c, &in); err != nil {
			return formError(c, err)
		}
	} else if err := c.BodyParser(&in); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), &in)
	if err != nil {
		h.discardUpload(upload)
		return respondError(c, h.log, err)
	}

	h.publish(c, "product_created", product)
	return success(c, 201, "Produk berhasil ditambahkan", product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, 400, "Invalid product ID")
	}

	var (
		in     model.UpdateProductInput
		upload string
		err    error
	)
	if isMultipart(c) {
		if upload, err = h.parseUpdateForm(c, &in); err != nil {
			return formError(c, err)
		}
	} else if err := c.BodyParser(&in); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &in)
	if err != nil {
		h.discardUpload(upload)
		return respondError(c, h.log, err)
	}

	h.publish(c, "product_updated", product)
	return success(c, 200, "Produk berhasil diupdate", product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return fail(c, 400, "Invalid product ID")
	}

	product, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}

	h.publish(c, "product_deleted", product)
	return success(c, 200, "Produk berhasil dihapus", product)
}

func (h *ProductHandler) publish(c *fiber.Ctx, action string, product *model.ProductView) {
	h.events.Publish(fiber.Map{
		"type":    "stock_update",
		"action":  action,
		"product": fiber.Map{"id": product.ID, "name": product.Name, "stock": product.Stock, "price": product.Price},
		"user":    fiber.Map{"id": middleware.CurrentUserID(c), "name": middleware.CurrentUserName(c)},
	})
}

func formError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fail(c, fe.Code, fe.Message)
	}
	return fail(c, 400, err.Error())
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// parseCreateForm reads a multipart product form; every value arrives as text.
// It returns the stored file name of the image, if one was attached.
func (h *ProductHandler) parseCreateForm(c *fiber.Ctx, in *model.CreateProductInput) (string, error) {
	in.Name = c.FormValue("name")
	if v := c.FormValue("description"); v != "" {
		in.Description = &v
	}

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil {
		return "", fiber.NewError(400, "price must be a number")
	}
	in.Price = price

	if in.Stock, err = strconv.Atoi(c.FormValue("stock")); err != nil {
		return "", fiber.NewError(400, "stock must be an integer")
	}

	categoryID, err := strconv.ParseUint(c.FormValue("categoryId"), 10, 64)
	if err != nil {
		return "", fiber.NewError(400, "categoryId must be an integer")
	}
	in.CategoryID = uint(categoryID)

	image, upload, err := h.saveImage(c)
	in.Image = image
	return upload, err
}

// parseUpdateForm only sets the fields present in the form
func (h *ProductHandler) parseUpdateForm(c *fiber.Ctx, in *model.UpdateProductInput) (string, error) {
	if v := c.FormValue("name"); v != "" {
		in.Name = &v
	}
	if v := c.FormValue("description"); v != "" {
		in.Description = &v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return "", fiber.NewError(400, "price must be a number")
		}
		in.Price = &price
	}
	if v := c.FormValue("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return "", fiber.NewError(400, "stock must be an integer")
		}
		in.Stock = &stock
	}
	if v := c.FormValue("categoryId"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return "", fiber.NewError(400, "categoryId must be an integer")
		}
		categoryID := uint(parsed)
		in.CategoryID = &categoryID
	}

	image, upload, err := h.saveImage(c)
	if err != nil {
		return "", err
	}
	if image != nil {
		in.Image = image
	}
	return upload, nil
}

// saveImage stores the optional "image" file and returns its public path
// together with the file name under uploadDir
func (h *ProductHandler) saveImage(c *fiber.Ctx) (*string, string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// no file attached
		return nil, "", nil
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		h.log.Error("Failed to store upload", zap.String("file", file.Filename), zap.Error(err))
		return nil, "", fiber.NewError(500, "failed to store image")
	}

	url := "/public/uploads/" + name
	return &url, name, nil
}

// discardUpload removes an image stored for a write that did not happen
func (h *ProductHandler) discardUpload(name string) {
	if name == "" {
		return
	}
	if err := os.Remove(filepath.Join(h.uploadDir, name)); err != nil {
		h.log.Warn("Failed to remove orphan upload", zap.String("file", name), zap.Error(err))
	}
}
