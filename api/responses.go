package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"AmHughesAbsalom/VOLLEYBALL_LEAGUE.git/models"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// SuccessResponse represents a standard success JSON response.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse represents a standard error JSON response.
type ErrorResponse struct {
	Status  string            `json:"status"` // "error" or "fail"
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SendSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	if message == "" {
		message = "Operation completed successfully"
	}
	c.JSON(statusCode, SuccessResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func SendError(c *gin.Context, statusCode int, message string) {
	statusText := "error"
	if statusCode >= http.StatusInternalServerError {
		statusText = "fail"
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Status:  statusText,
		Message: message,
		Code:    statusCode,
	})
}

// SendBindingError reports a request body or parameter that could not be
// bound, listing the failed fields when the validator produced them.
func SendBindingError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			key := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				fields[key] = fmt.Sprintf("The %s field is required.", fe.Field())
			case "oneof":
				fields[key] = fmt.Sprintf("The %s field must be one of: %s.", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
			case "min", "max":
				fields[key] = fmt.Sprintf("The %s field must respect %s=%s.", fe.Field(), fe.Tag(), fe.Param())
			default:
				fields[key] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag.", fe.Field(), fe.Tag())
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Status:  "error",
			Message: "Validation failed. Please check your input.",
			Code:    http.StatusBadRequest,
			Errors:  fields,
		})
		return
	}
	SendError(c, http.StatusBadRequest, "Invalid request payload: "+err.Error())
}

// SendDomainError maps the error kinds of the league core onto status codes.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		SendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrDataIntegrity):
		SendError(c, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		SendError(c, http.StatusInternalServerError, "An unexpected error occurred on the server")
	}
}
