package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

// CourseHandler handles course catalogue endpoints.
type CourseHandler struct {
	service service.CourseService
	respond errorResponder
	logger  zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(service service.CourseService, messages config.MessageConfig, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// RegisterPublic wires the read-only catalogue routes.
func (h *CourseHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin wires the catalogue management routes.
func (h *CourseHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	status := strings.TrimSpace(c.Query("status"))

	courses, err := h.service.List(c.Context(), status)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	course, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "course deleted", nil)
}
