package utils

import "github.com/gofiber/fiber/v2"

// APIResponse is the envelope every endpoint replies with. Detail carries a
// field- or resource-level hint alongside the user-facing message on errors.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
}

func send(c *fiber.Ctx, status int, payload APIResponse) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(payload)
}

// SendSuccess replies 200 with a message and optional data.
func SendSuccess(c *fiber.Ctx, message string, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, message, data)
}

// SendSuccessWithStatus replies with the given status, message and data.
func SendSuccessWithStatus(c *fiber.Ctx, status int, message string, data interface{}) error {
	if message == "" {
		message = "success"
	}
	return send(c, status, APIResponse{Success: true, Message: message, Data: data})
}

// SendError replies with an error status and user-facing message.
func SendError(c *fiber.Ctx, status int, message string) error {
	return SendErrorWithDetail(c, status, message, "")
}

// SendErrorWithDetail replies with an error message plus an optional detail.
func SendErrorWithDetail(c *fiber.Ctx, status int, message, detail string) error {
	if message == "" {
		message = "error"
	}
	return send(c, status, APIResponse{Success: false, Message: message, Detail: detail})
}
