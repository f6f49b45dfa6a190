package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/epicourier/backend/internal/logging"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers panics and turns errors attached with c.Error into
// a JSON response when the handler did not write one itself.
func ErrorHandler() gin.HandlerFunc {
	log := logging.WithComponent("http")
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("path", c.Request.URL.Path).
					Str("request_id", GetRequestID(c)).
					Msg("Recovered from panic")
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last()
		log.Error().
			Err(err.Err).
			Str("path", c.Request.URL.Path).
			Str("request_id", GetRequestID(c)).
			Msg("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
	}
}
