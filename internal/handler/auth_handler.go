package handler

import (
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	user, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 201, "Registrasi berhasil", user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return fail(c, 400, "Invalid JSON")
	}

	result, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if service.IsInvalidCredentials(err) {
			return fail(c, 401, err.Error())
		}
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Login berhasil", result)
}
