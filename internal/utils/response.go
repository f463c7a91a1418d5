package utils

import "github.com/gofiber/fiber/v2"

// StandardResponse represents the standard API response format
type StandardResponse struct {
	Status   string      `json:"status"`
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Errors   interface{} `json:"errors,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *fiber.Ctx, code int, message string) error {
	status := "error"
	if code >= 500 {
		status = "fail"
	}
	return c.Status(code).JSON(StandardResponse{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// ValidationErrorResponse sends the field-keyed messages of a failed
// validation pass so the client can re-render the form.
func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(StandardResponse{
		Status:  "error",
		Code:    fiber.StatusBadRequest,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// RedirectWithError is the denial shape: a See Other pointing the client at
// a safe page, carrying the user-visible message. A denied requester never
// sees a bare 403.
func RedirectWithError(c *fiber.Ctx, location, message string) error {
	c.Set(fiber.HeaderLocation, location)
	return c.Status(fiber.StatusSeeOther).JSON(StandardResponse{
		Status:   "error",
		Code:     fiber.StatusSeeOther,
		Message:  message,
		Redirect: location,
	})
}
