package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/internal/service/catalog"
	"github.com/masaken/backoffice/internal/service/debt"
	"github.com/masaken/backoffice/internal/service/export"
	"github.com/masaken/backoffice/pkg/clipboard"
)

// DebtHandler serves the debt page: enriched units, per-unit edit buffers,
// totals, saves, and the clipboard summary.
type DebtHandler struct {
	catalog *catalog.Service
	ledger  *debt.Ledger
	board   *clipboard.Board
	logger  *zap.Logger
}

// NewDebtHandler constructs the HTTP handler adapter.
func NewDebtHandler(catalogSvc *catalog.Service, ledger *debt.Ledger, board *clipboard.Board, logger *zap.Logger) *DebtHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebtHandler{catalog: catalogSvc, ledger: ledger, board: board, logger: logger}
}

type debtUnitView struct {
	models.EnrichedUnit
	Code      string          `json:"code"`
	Row       models.DebtRow  `json:"row"`
	Remaining string          `json:"remaining"`
	State     string          `json:"state"`
}

// ListUnits returns the filtered debt view for the given client selection
// and unit query, together with the client list and visible-set totals.
func (h *DebtHandler) ListUnits(c *gin.Context) {
	units, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading debt units", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	client := c.Query("client")
	visible := h.visible(units, client, c.Query("q"))

	views := make([]debtUnitView, 0, len(visible))
	for _, u := range visible {
		row := h.ledger.Row(u.ID)
		views = append(views, debtUnitView{
			EnrichedUnit: u,
			Code:         u.Code(),
			Row:          row,
			Remaining:    row.Remaining().String(),
			State:        h.ledger.State(u.ID).String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": catalog.FilterClients(catalog.Clients(units), c.Query("client_q")),
		"units":   views,
		"totals":  h.ledger.Totals(visible),
	})
}

type updateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// UpdateRow updates one buffer field; an empty value clears it to absent.
func (h *DebtHandler) UpdateRow(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	unitID := c.Param("unitID")
	if err := h.ledger.UpdateField(unitID, debt.Field(req.Field), req.Value); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	row := h.ledger.Row(unitID)
	c.JSON(http.StatusOK, gin.H{"row": row, "remaining": row.Remaining().String()})
}

// SaveRow snapshots the unit's buffer into the debts table.
func (h *DebtHandler) SaveRow(c *gin.Context) {
	units, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading unit for debt save", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	unit, ok := findUnit(units, c.Param("unitID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
		return
	}

	record, err := h.ledger.Save(c.Request.Context(), unit)
	switch {
	case err == debt.ErrSaveInFlight:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": record, "message": "تم حفظ/تحديث سجل المديونية للوحدة"})
}

type copySummaryRequest struct {
	Client string `json:"client"`
	Query  string `json:"q"`
}

// CopySummary renders the visible view as text and writes it to the system
// clipboard, arming the transient acknowledgement.
func (h *DebtHandler) CopySummary(c *gin.Context) {
	var req copySummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	units, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading units for summary", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	visible := h.visible(units, req.Client, req.Query)
	summary := export.DebtSummary(req.Client, visible, h.ledger.Row, h.ledger.Totals(visible))

	if err := h.board.Copy(summary); err != nil {
		h.logger.Warn("clipboard write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"copied": h.board.Copied(), "summary": summary})
}

// visible applies client selection then the unit query, matching the page's
// filtering order.
func (h *DebtHandler) visible(units []models.EnrichedUnit, client, query string) []models.EnrichedUnit {
	base := units
	if client != "" {
		base = catalog.UnitsForClient(units, client)
	}
	return catalog.FilterUnits(base, query)
}

func findUnit(units []models.EnrichedUnit, id string) (models.EnrichedUnit, bool) {
	for _, u := range units {
		if u.ID == id {
			return u, true
		}
	}
	return models.EnrichedUnit{}, false
}
