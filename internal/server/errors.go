package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maximbilan/promptrelay/internal/relay"
	"github.com/rs/zerolog/log"
)

// statusFor maps a relay failure to the HTTP status returned to the caller.
func statusFor(err error) int {
	var perr *relay.ProviderError
	switch {
	case errors.Is(err, relay.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, relay.ErrImageUnreadable):
		return http.StatusInternalServerError
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &perr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	log.Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("request failed")
	c.AbortWithStatusJSON(status, gin.H{"detail": err.Error()})
}
