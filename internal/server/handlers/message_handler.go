package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/internal/service/catalog"
	"github.com/masaken/backoffice/internal/service/messaging"
	"github.com/masaken/backoffice/pkg/clipboard"
)

// MessageHandler drives the per-session message composer wizard.
type MessageHandler struct {
	catalog  *catalog.Service
	composer *messaging.Composer
	board    *clipboard.Board
	logger   *zap.Logger
}

// NewMessageHandler constructs the HTTP handler adapter.
func NewMessageHandler(catalogSvc *catalog.Service, composer *messaging.Composer, board *clipboard.Board, logger *zap.Logger) *MessageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageHandler{catalog: catalogSvc, composer: composer, board: board, logger: logger}
}

type openRequest struct {
	UnitID string `json:"unit_id" binding:"required"`
}

// Open starts the composer for a unit, always resetting to the first step.
func (h *MessageHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	units, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading unit for composer", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	unit, ok := findUnit(units, req.UnitID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}

	session := h.composer.Open(c.Param("sessionID"), unit)
	c.JSON(http.StatusOK, sessionPayload(session))
}

// Close discards the composer session.
func (h *MessageHandler) Close(c *gin.Context) {
	h.composer.Close(c.Param("sessionID"))
	c.Status(http.StatusNoContent)
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetMode toggles between custom share and the template wizard.
func (h *MessageHandler) SetMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.mutate(c, h.composer.SetMode(c.Param("sessionID"), messaging.Mode(req.Mode)))
}

type recipientRequest struct {
	Recipient string `json:"recipient" binding:"required"`
}

// SetRecipient selects the template recipient.
func (h *MessageHandler) SetRecipient(c *gin.Context) {
	var req recipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.mutate(c, h.composer.SetRecipient(c.Param("sessionID"), models.Recipient(req.Recipient)))
}

type kindRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// ChooseKind picks a template and advances to the preview step.
func (h *MessageHandler) ChooseKind(c *gin.Context) {
	var req kindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.mutate(c, h.composer.ChooseKind(c.Param("sessionID"), models.MessageKind(req.Kind)))
}

// Next advances the wizard one step forward.
func (h *MessageHandler) Next(c *gin.Context) {
	h.mutate(c, h.composer.Next(c.Param("sessionID")))
}

// Back moves the wizard one step backward.
func (h *MessageHandler) Back(c *gin.Context) {
	h.mutate(c, h.composer.Back(c.Param("sessionID")))
}

type toggleRequest struct {
	Field   string `json:"field" binding:"required"`
	Enabled bool   `json:"enabled"`
}

// ToggleField switches one custom-share line on or off.
func (h *MessageHandler) ToggleField(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.mutate(c, h.composer.ToggleField(c.Param("sessionID"), models.ShareField(req.Field), req.Enabled))
}

// Preview renders the selected template or the custom share text, depending
// on the session's mode.
func (h *MessageHandler) Preview(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.composer.Session(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var text string
	if session.Mode == messaging.ModeCustom {
		text, err = h.composer.CustomMessage(sessionID)
	} else {
		text, err = h.composer.Preview(sessionID)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

// CopyPreview writes the current message text to the system clipboard.
func (h *MessageHandler) CopyPreview(c *gin.Context) {
	sessionID := c.Param("sessionID")

	session, err := h.composer.Session(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var text string
	if session.Mode == messaging.ModeCustom {
		text, err = h.composer.CustomMessage(sessionID)
	} else {
		text, err = h.composer.Preview(sessionID)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := h.board.Copy(text); err != nil {
		h.logger.Warn("clipboard write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"copied": h.board.Copied()})
}

// Link builds the WhatsApp deep link for the session's current message.
func (h *MessageHandler) Link(c *gin.Context) {
	link, err := h.composer.Link(c.Param("sessionID"))
	switch {
	case errors.Is(err, messaging.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": link})
}

func (h *MessageHandler) mutate(c *gin.Context, err error) {
	sessionID := c.Param("sessionID")

	switch {
	case errors.Is(err, messaging.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	session, err := h.composer.Session(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessionPayload(session))
}

func sessionPayload(s messaging.Session) gin.H {
	return gin.H{
		"unit_id":   s.Unit.ID,
		"mode":      s.Mode,
		"step":      int(s.Step),
		"recipient": s.Recipient,
		"kind":      s.Kind,
		"fields":    s.Fields,
	}
}
