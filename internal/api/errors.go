package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/pageza/epicourier/backend/internal/middleware"
	"github.com/pageza/epicourier/backend/internal/recommend"
)

// statusFor maps engine errors onto HTTP status codes.
func statusFor(err error) int {
	var parseErr *recommend.ParseError
	switch {
	case errors.Is(err, recommend.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, recommend.ErrUpstream), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)
	ev := log.Error().Err(err).Int("status", status).Str("request_id", middleware.GetRequestID(c))
	var parseErr *recommend.ParseError
	if errors.As(err, &parseErr) {
		ev = ev.Str("response_text", parseErr.Text)
	}
	ev.Msg("Recommendation failed")

	msg := "Failed to generate recommendations"
	switch status {
	case http.StatusBadRequest:
		msg = err.Error()
	case http.StatusBadGateway:
		msg = "Upstream model service failed"
	}
	_ = c.Error(err)
	c.JSON(status, middleware.ErrorResponse{Error: msg})
}

func respondValidation(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.ErrorResponse{
		Error:   "Invalid request",
		Details: validationMessage(err),
	})
}

// validationMessage renders binding errors one field per clause.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
