package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type correlationKeyType struct{}

var correlationContextKey = correlationKeyType{}

// Headers accepted as an inbound correlation identifier, in precedence order.
var correlationHeaders = []string{"X-Correlation-ID", "X-Request-ID"}

// CorrelationID tags every request with an identifier so a payment that
// fails mid-flow can be traced from the access log through the service logs.
// An inbound id is honoured; otherwise a fresh one is minted.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		for _, header := range correlationHeaders {
			if value := strings.TrimSpace(c.Get(header)); value != "" {
				id = value
				break
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals("correlation_id", id)
		c.Set("X-Correlation-ID", id)
		c.SetUserContext(context.WithValue(c.Context(), correlationContextKey, id))

		return c.Next()
	}
}

// CorrelationIDFromContext returns the identifier carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationContextKey).(string)
	return id
}

// GetCorrelationID returns the identifier bound to the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals("correlation_id").(string); ok && id != "" {
		return id
	}
	return CorrelationIDFromContext(c.Context())
}
