package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"preview-api/apiv1"
)

// TimestampLayout is the format of the envelope timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// Response is the envelope wrapping every API response
type Response struct {
	Success          bool              `json:"success"`
	Status           int               `json:"status"`
	Message          string            `json:"message"`
	Data             any               `json:"data,omitempty"`
	Path             string            `json:"path,omitempty"`
	Method           string            `json:"method,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
	Timestamp        string            `json:"timestamp"`
}

// OK writes a 200 envelope.
func OK(c *gin.Context, data any, message string) {
	Respond(c, http.StatusOK, data, message)
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data any, message string) {
	Respond(c, http.StatusCreated, data, message)
}

// Respond writes a successful envelope with the given status.
func Respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		Success:   true,
		Status:    status,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Format(TimestampLayout),
	})
}

// Fail writes an error envelope without inspecting an error value.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success:   false,
		Status:    status,
		Message:   message,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		Timestamp: time.Now().Format(TimestampLayout),
	})
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apiv1.BadParameterError):
		return http.StatusBadRequest
	case errors.Is(err, apiv1.UnAuthorizedError):
		return http.StatusUnauthorized
	case errors.Is(err, apiv1.ForbiddenError):
		return http.StatusForbidden
	case errors.Is(err, apiv1.NotFoundError):
		return http.StatusNotFound
	case errors.Is(err, apiv1.ConflictError):
		return http.StatusConflict
	case errors.Is(err, apiv1.TooManyRequestsError):
		return http.StatusTooManyRequests
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PresentError writes err as an error envelope and reports whether it did.
func PresentError(c *gin.Context, logger *slog.Logger, err error) bool {
	if err == nil {
		return false
	}
	status := StatusFor(err)
	resp := Response{
		Success:   false,
		Status:    status,
		Message:   err.Error(),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		Timestamp: time.Now().Format(TimestampLayout),
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		resp.Message = "validation failed"
		resp.ValidationErrors = make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			resp.ValidationErrors[fe.Field()] = validationMessage(fe)
		}
	}

	if status == http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), fmt.Sprintf("Unexpected Error: %+v", err))
		resp.Message = "internal server error"
	}
	c.AbortWithStatusJSON(status, resp)
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return "failed on " + fe.Tag()
}

// BindJSON binds the request body, wrapping decode errors as bad parameters.
func BindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return err
		}
		return errors.Wrap(apiv1.BadParameterError, err.Error())
	}
	return nil
}
