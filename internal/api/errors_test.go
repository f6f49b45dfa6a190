package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/epicourier/backend/internal/recommend"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid request", fmt.Errorf("%w: num_recipes", recommend.ErrInvalidRequest), http.StatusBadRequest},
		{"upstream", &recommend.UpstreamError{Service: "embedding", Op: "embed", Err: errors.New("x")}, http.StatusBadGateway},
		{"wrapped upstream", fmt.Errorf("outer: %w", &recommend.UpstreamError{Service: "llm", Err: errors.New("x")}), http.StatusBadGateway},
		{"parse error", recommend.NewParseError("{", errors.New("eof")), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
