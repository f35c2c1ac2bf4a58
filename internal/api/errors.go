package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/disaster-relief/internal/access"
	"github.com/mr1hm/disaster-relief/internal/account"
	"github.com/mr1hm/disaster-relief/internal/messaging"
	"github.com/mr1hm/disaster-relief/internal/repository"
	"github.com/mr1hm/disaster-relief/internal/validation"
)

const (
	msgRecipientUnresolved = "Recipient could not be determined."
	msgInvalidCredentials  = "Please enter a correct username and password."
)

// fail writes the response for a service error.
func (h *Handler) fail(c *gin.Context, err error) {
	if fields, ok := validation.Fields(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}

	switch {
	case errors.Is(err, access.ErrWrongRole):
		c.Redirect(http.StatusSeeOther, access.RouteDashboard)
	case errors.Is(err, account.ErrUnknownRole):
		c.Redirect(http.StatusSeeOther, access.RouteChooseRole)
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, messaging.ErrRecipientUnresolved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": msgRecipientUnresolved})
	case errors.Is(err, account.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": msgInvalidCredentials})
	case errors.Is(err, account.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	slog.DebugContext(c.Request.Context(), "malformed request body", "error", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
