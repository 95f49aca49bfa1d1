package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/internal/config"
	"github.com/adityaharshit/code-i-technology-sub001/internal/middleware"
	"github.com/adityaharshit/code-i-technology-sub001/internal/service"
	"github.com/adityaharshit/code-i-technology-sub001/internal/utils"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// errorResponder maps service errors onto HTTP responses. Each error class
// resolves to one status code and a user-facing message from configuration,
// with machine-relevant detail alongside where it helps the caller act.
type errorResponder struct {
	messages config.MessageConfig
}

func newErrorResponder(messages config.MessageConfig) errorResponder {
	return errorResponder{messages: messages}
}

var notFoundErrors = []error{
	service.ErrStudentNotFound,
	service.ErrCourseNotFound,
	service.ErrEnrollmentNotFound,
	service.ErrTransactionNotFound,
}

var badRequestErrors = []error{
	service.ErrVerificationTokenInvalid,
	service.ErrProofRequired,
	service.ErrProofTypeNotAllowed,
	service.ErrPhotoTypeNotAllowed,
	service.ErrPhotoMissing,
	service.ErrIDCardNotEligible,
	service.ErrCertificateNotEligible,
	service.ErrInvoiceUnavailable,
}

func (r errorResponder) respond(c *fiber.Ctx, logger *zerolog.Logger, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", validationErrors.Error())
	}

	var validationErr *apperr.ValidationError
	if errors.As(err, &validationErr) {
		return utils.SendErrorWithDetail(c, fiber.StatusBadRequest, "validation failed", validationErr.Error())
	}

	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			return utils.SendError(c, fiber.StatusNotFound, sentinel.Error())
		}
	}

	for _, sentinel := range badRequestErrors {
		if errors.Is(err, sentinel) {
			return utils.SendError(c, fiber.StatusBadRequest, sentinel.Error())
		}
	}

	if errors.Is(err, service.ErrInvalidCredentials) {
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	}

	if errors.Is(err, service.ErrInvoiceForbidden) {
		return utils.SendError(c, fiber.StatusForbidden, service.ErrInvoiceForbidden.Error())
	}

	if errors.Is(err, service.ErrTransactionFinalized) {
		return utils.SendError(c, fiber.StatusConflict, service.ErrTransactionFinalized.Error())
	}

	var conflictErr *apperr.ConflictError
	if errors.As(err, &conflictErr) {
		return utils.SendError(c, fiber.StatusConflict, conflictErr.Error())
	}

	var resourceErr *apperr.ResourceError
	if errors.As(err, &resourceErr) {
		logger.Error().Err(err).Str("resource", resourceErr.Resource).Msg("external resource failed")
		return utils.SendErrorWithDetail(c, fiber.StatusBadGateway, r.messages.Server, resourceErr.Error())
	}

	switch apperr.Categorize(err) {
	case apperr.CategoryTimeout:
		logger.Error().Err(err).Msg("request timed out")
		return utils.SendError(c, fiber.StatusGatewayTimeout, r.messages.Timeout)
	case apperr.CategoryNetwork:
		logger.Error().Err(err).Msg("network failure")
		return utils.SendError(c, fiber.StatusBadGateway, r.messages.Network)
	case apperr.CategoryServer:
		logger.Error().Err(err).Msg("upstream server failure")
		return utils.SendError(c, fiber.StatusBadGateway, r.messages.Server)
	}

	logger.Error().Err(err).Msg("unexpected failure")
	return utils.SendError(c, fiber.StatusInternalServerError, r.messages.Generic)
}

func sendArtifact(c *fiber.Ctx, fileName, contentType string, content []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(content)
}
