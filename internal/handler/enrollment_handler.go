package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/dto"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

// EnrollmentHandler handles enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	respond errorResponder
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(service service.EnrollmentService, messages config.MessageConfig, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// RegisterStudent wires the student's own enrollment listing.
func (h *EnrollmentHandler) RegisterStudent(router fiber.Router) {
	router.Get("/me", h.listMine)
}

// RegisterAdmin wires the back-office enrollment routes.
func (h *EnrollmentHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/course/:id", h.listByCourse)
	router.Delete("/:id", h.delete)
}

func (h *EnrollmentHandler) listMine(c *fiber.Ctx) error {
	enrollments, err := h.service.ListByStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) create(c *fiber.Ctx) error {
	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	enrollment, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrollment created", enrollment)
}

func (h *EnrollmentHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	enrollments, err := h.service.ListByCourse(c.Context(), courseID)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollments retrieved", enrollments)
}

func (h *EnrollmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid enrollment id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "enrollment removed", nil)
}
