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

// CertificateHandler handles certificate issuance and public verification.
type CertificateHandler struct {
	service service.CertificateService
	respond errorResponder
	logger  zerolog.Logger
}

// NewCertificateHandler constructs the handler.
func NewCertificateHandler(service service.CertificateService, messages config.MessageConfig, logger zerolog.Logger) *CertificateHandler {
	return &CertificateHandler{
		service: service,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "certificate_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated verification route.
func (h *CertificateHandler) RegisterPublic(router fiber.Router) {
	router.Get("/verify/:number", h.verify)
}

// RegisterStudent wires the student's own certificate listing.
func (h *CertificateHandler) RegisterStudent(router fiber.Router) {
	router.Get("/me", h.listMine)
}

// RegisterAdmin wires the issuance route.
func (h *CertificateHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.issue)
}

func (h *CertificateHandler) verify(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))

	result, err := h.service.Verify(c.Context(), number)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	if !result.Found {
		return utils.SendSuccess(c, "certificate not found", result)
	}
	return utils.SendSuccess(c, "certificate verified", result)
}

func (h *CertificateHandler) listMine(c *fiber.Ctx) error {
	certificates, err := h.service.ListByStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "certificates retrieved", certificates)
}

func (h *CertificateHandler) issue(c *fiber.Ctx) error {
	var payload dto.CertificateIssueRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	certificate, err := h.service.Issue(c.Context(), payload)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "certificate issued", certificate)
}
