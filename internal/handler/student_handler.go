package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/repository"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

// StudentHandler handles registration, verification and profile endpoints.
type StudentHandler struct {
	service service.StudentService
	respond errorResponder
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, messages config.MessageConfig, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated routes (signup, email verification).
func (h *StudentHandler) RegisterPublic(router fiber.Router) {
	router.Post("/register", h.register)
	router.Get("/verify", h.verifyEmail)
}

// RegisterStudent wires the routes available to the authenticated student.
func (h *StudentHandler) RegisterStudent(router fiber.Router) {
	router.Get("/me", h.profile)
	router.Put("/me", h.update)
	router.Post("/me/photo", h.uploadPhoto)
}

// RegisterAdmin wires the back-office student management routes.
func (h *StudentHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Delete("/:id", h.delete)
}

func (h *StudentHandler) register(c *fiber.Ctx) error {
	var payload dto.StudentRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Register(c.Context(), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration successful, verify your email", resp)
}

func (h *StudentHandler) verifyEmail(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "verification token required")
	}

	resp, err := h.service.VerifyEmail(c.Context(), token)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "email verified", resp)
}

func (h *StudentHandler) profile(c *fiber.Ctx) error {
	resp, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "profile retrieved", resp)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := h.service.Update(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "profile updated", resp)
}

func (h *StudentHandler) uploadPhoto(c *fiber.Ctx) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "photo file required")
	}

	resp, err := h.service.UploadPhoto(c.Context(), userIDFromContext(c), file)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "photo uploaded", resp)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	students, total, err := h.service.List(c.Context(), repository.StudentFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "students retrieved", fiber.Map{
		"items": students,
		"total": total,
	})
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	resp, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student retrieved", resp)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid student id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "student deleted", nil)
}
