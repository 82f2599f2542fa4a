package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/ratelimit"
	"taskboard/internal/response"
)

// handleServiceError maps service layer errors to appropriate HTTP
// responses. The error kind stays inspectable: the code travels in the
// response body unchanged.
func handleServiceError(c *gin.Context, err error) {
	var rlErr *ratelimit.Error
	if errors.As(err, &rlErr) {
		retryAfter := int(rlErr.RetryAfter / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Header("X-RateLimit-Limit", strconv.Itoa(rlErr.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(rlErr.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(rlErr.ResetAt.Unix(), 10))
		response.SendError(c, http.StatusTooManyRequests,
			response.ErrCodeRateLimited, rlErr.Error())
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	response.SendError(c, http.StatusInternalServerError,
		response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists:
		return http.StatusConflict
	case response.ErrCodeValidation, response.ErrCodeDependency:
		return http.StatusBadRequest
	case response.ErrCodeFormatMismatch:
		return http.StatusConflict
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case response.ErrCodeServerBusy:
		return http.StatusServiceUnavailable
	case response.ErrCodePersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
