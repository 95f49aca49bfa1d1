package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

// ReportHandler serves the admin revenue summary.
type ReportHandler struct {
	service service.ReportService
	respond errorResponder
	logger  zerolog.Logger
}

// NewReportHandler constructs the handler.
func NewReportHandler(service service.ReportService, messages config.MessageConfig, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "report_handler").Logger(),
	}
}

// RegisterAdmin wires the report routes.
func (h *ReportHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/summary", h.summary)
}

func (h *ReportHandler) summary(c *fiber.Ctx) error {
	report, err := h.service.Summary(c.Context())
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "report generated", report)
}
