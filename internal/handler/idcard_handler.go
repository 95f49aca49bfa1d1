package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

// IDCardHandler serves printable student ID cards.
type IDCardHandler struct {
	service service.IDCardService
	respond errorResponder
	logger  zerolog.Logger
}

// NewIDCardHandler constructs the handler.
func NewIDCardHandler(service service.IDCardService, messages config.MessageConfig, logger zerolog.Logger) *IDCardHandler {
	return &IDCardHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "idcard_handler").Logger(),
	}
}

// RegisterStudent wires the download route for the authenticated student.
func (h *IDCardHandler) RegisterStudent(router fiber.Router) {
	router.Get("/course/:id", h.download)
}

func (h *IDCardHandler) download(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	artifact, err := h.service.Generate(c.Context(), userIDFromContext(c), courseID)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return sendArtifact(c, artifact.FileName, artifact.ContentType, artifact.Content)
}
