package rpc

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/pairup/pairup/internal/zerrors"
)

// bindRequest decodes the optional JSON body into req and validates it.
// An empty body decodes to the zero message.
func bindRequest(c *gin.Context, req Validator) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return zerrors.NewValidationErrorWithCause("body", nil, "failed to read request body", err)
	}

	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		if err := binding.JSON.BindBody(body, req); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && typeErr.Field != "" {
				return zerrors.NewValidationErrorWithCause(typeErr.Field, typeErr.Value,
					typeErr.Field+" must be of type "+typeErr.Type.String(), err)
			}
			return zerrors.NewValidationErrorWithCause("body", nil, "request body must be a JSON object", err)
		}
	}

	return req.Validate()
}

// writeError maps err onto a status code and JSON body
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)

	var validationErr *zerrors.ValidationError
	var insufficientErr *zerrors.InsufficientParticipantsError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Field: validationErr.Field})
	case errors.As(err, &insufficientErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: insufficientErr.Error()})
	case zerrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// writeInvalidResponse handles a service result that failed its own validation
func writeInvalidResponse(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)
	logger.Error("Refusing to send invalid response",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}
