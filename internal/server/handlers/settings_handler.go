package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/service/settings"
)

// SettingsHandler serves the settings page and the manual connectivity probe.
type SettingsHandler struct {
	svc    *settings.Service
	logger *zap.Logger
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(svc *settings.Service, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{svc: svc, logger: logger}
}

// Get returns the displayable connection parameters.
func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.View())
}

// Test runs the connectivity probe. The probe result is always 200; failure
// is carried in the payload so the page can render it inline.
func (h *SettingsHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.TestConnection(c.Request.Context()))
}
