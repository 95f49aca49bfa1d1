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

// TransactionHandler handles payment submission, admin review and invoice
// downloads.
type TransactionHandler struct {
	service service.TransactionService
	invoice service.InvoiceService
	respond errorResponder
	logger  zerolog.Logger
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(service service.TransactionService, invoice service.InvoiceService, messages config.MessageConfig, logger zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		invoice: invoice,
		respond: newErrorResponder(messages),
		logger:  logger.With().Str("component", "transaction_handler").Logger(),
	}
}

// RegisterStudent wires the student-facing payment routes.
func (h *TransactionHandler) RegisterStudent(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/me", h.listMine)
	router.Get("/:id/invoice", h.downloadInvoice)
}

// RegisterAdmin wires the payment review routes.
func (h *TransactionHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/bill/:billNo", h.getByBillNo)
	router.Get("/:id", h.get)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
	router.Get("/:id/invoice", h.downloadInvoiceAdmin)
}

func (h *TransactionHandler) create(c *fiber.Ctx) error {
	var payload dto.TransactionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	// The proof file is optional for offline payments.
	proof, err := c.FormFile("payment_proof")
	if err != nil {
		proof = nil
	}

	resp, err := h.service.Create(c.Context(), userIDFromContext(c), payload, proof)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "transaction submitted for approval", resp)
}

func (h *TransactionHandler) listMine(c *fiber.Ctx) error {
	transactions, err := h.service.ListByStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "transactions retrieved", transactions)
}

func (h *TransactionHandler) list(c *fiber.Ctx) error {
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
	courseID, err := parseQueryInt(c, "course_id")
	if err != nil || courseID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid course id")
	}

	transactions, total, err := h.service.List(c.Context(), repository.TransactionFilter{
		Status:   strings.TrimSpace(c.Query("status")),
		CourseID: uint(courseID),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "transactions retrieved", fiber.Map{
		"items": transactions,
		"total": total,
	})
}

func (h *TransactionHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid transaction id")
	}

	resp, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "transaction retrieved", resp)
}

func (h *TransactionHandler) getByBillNo(c *fiber.Ctx) error {
	billNo := strings.TrimSpace(c.Params("billNo"))
	if billNo == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "bill number required")
	}

	resp, err := h.service.GetByBillNo(c.Context(), billNo)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "transaction retrieved", resp)
}

func (h *TransactionHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid transaction id")
	}

	resp, err := h.service.Approve(c.Context(), id)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "transaction approved", resp)
}

func (h *TransactionHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid transaction id")
	}

	resp, err := h.service.Reject(c.Context(), id)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "transaction rejected", resp)
}

func (h *TransactionHandler) downloadInvoice(c *fiber.Ctx) error {
	// A zero student id means the admin bypass in the invoice service, so a
	// token that validated without a usable subject must not reach it.
	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
	}
	return h.renderInvoice(c, studentID)
}

func (h *TransactionHandler) downloadInvoiceAdmin(c *fiber.Ctx) error {
	return h.renderInvoice(c, 0)
}

func (h *TransactionHandler) renderInvoice(c *fiber.Ctx, studentID uint) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid transaction id")
	}

	artifact, err := h.invoice.Render(c.Context(), id, studentID)
	if err != nil {
		return h.respond.respond(c, requestLogger(h.logger, c), err)
	}

	return sendArtifact(c, artifact.FileName, artifact.ContentType, artifact.Content)
}
