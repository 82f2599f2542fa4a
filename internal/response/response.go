package response

import "github.com/gin-gonic/gin"

// Error codes shared by every surface. The HTTP handlers, the CLI, and the
// MCP tools all map these to their native error shapes, so the underlying
// kind stays inspectable end-to-end.
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeDependency     = "DEPENDENCY_ERROR"
	ErrCodeFormatMismatch = "FORMAT_MISMATCH"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeServerBusy     = "SERVER_BUSY"
	ErrCodePersistence    = "PERSISTENCE_ERROR"
	ErrCodeAlreadyExists  = "ALREADY_EXISTS"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInternal       = "INTERNAL_ERROR"
)

// AppError is the application error carried from the service layer up to
// whichever surface rendered the request.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Code + ": " + e.Message + " (" + e.Details + ")"
	}
	return e.Code + ": " + e.Message
}

// NewAppError creates an AppError with the given code, message and details.
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// SuccessResponse is the envelope for successful HTTP responses.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed HTTP responses.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   AppError `json:"error"`
}

// SendSuccess writes a success envelope with the given status code.
func SendSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{Success: true, Data: data})
}

// SendError writes an error envelope with the given status and error code.
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   AppError{Code: code, Message: message},
	})
}
