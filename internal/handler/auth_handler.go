package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

// AuthHandler handles login endpoints for students and admins.
type AuthHandler struct {
	service service.AuthService
	respond errorResponder
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, messages config.MessageConfig, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/student/login", h.loginStudent)
	router.Post("/admin/login", h.loginAdmin)
}

func (h *AuthHandler) loginStudent(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.LoginStudent(c.Context(), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "login successful", resp)
}

func (h *AuthHandler) loginAdmin(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.LoginAdmin(c.Context(), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "login successful", resp)
}
