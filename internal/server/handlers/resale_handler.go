package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/internal/service/catalog"
	"github.com/masaken/backoffice/internal/service/export"
	"github.com/masaken/backoffice/internal/service/resale"
	"github.com/masaken/backoffice/pkg/clipboard"
)

// ResaleHandler serves the resale page. It keeps the last loaded unit list
// so a successful save can patch it in place instead of re-fetching.
type ResaleHandler struct {
	catalog *catalog.Service
	ledger  *resale.Ledger
	board   *clipboard.Board
	logger  *zap.Logger

	mu    sync.Mutex
	units []models.EnrichedUnit
}

// NewResaleHandler constructs the HTTP handler adapter.
func NewResaleHandler(catalogSvc *catalog.Service, ledger *resale.Ledger, board *clipboard.Board, logger *zap.Logger) *ResaleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResaleHandler{catalog: catalogSvc, ledger: ledger, board: board, logger: logger}
}

type resaleUnitView struct {
	models.EnrichedUnit
	Code     string           `json:"code"`
	Row      models.ResaleRow `json:"row"`
	RowTotal string           `json:"row_total"`
}

// ListUnits reloads the catalog, reseeds the fee buffers, and returns the
// filtered view.
func (h *ResaleHandler) ListUnits(c *gin.Context) {
	units, err := h.catalog.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading resale units", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.units = units
	h.mu.Unlock()
	h.ledger.Reload(units)

	visible := catalog.FilterForResale(units, c.Query("q"))

	views := make([]resaleUnitView, 0, len(visible))
	for _, u := range visible {
		row := h.ledger.Row(u.ID)
		views = append(views, resaleUnitView{
			EnrichedUnit: u,
			Code:         u.Code(),
			Row:          row,
			RowTotal:     row.Total().String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"units": views, "count": len(views)})
}

// UpdateRow updates one fee buffer field.
func (h *ResaleHandler) UpdateRow(c *gin.Context) {
	var req updateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	unitID := c.Param("unitID")
	if err := h.ledger.UpdateField(unitID, resale.Field(req.Field), req.Value); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	row := h.ledger.Row(unitID)
	c.JSON(http.StatusOK, gin.H{"row": row, "row_total": row.Total().String()})
}

// SaveRow validates and persists the fee buffer onto the unit row, then
// patches the cached unit list so the page reflects the new state without a
// re-fetch.
func (h *ResaleHandler) SaveRow(c *gin.Context) {
	unitID := c.Param("unitID")

	unit, ok := h.cachedUnit(unitID)
	if !ok {
		units, err := h.catalog.Load(c.Request.Context())
		if err != nil {
			h.logger.Error("failed loading unit for resale save", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.mu.Lock()
		h.units = units
		h.mu.Unlock()
		h.ledger.Reload(units)

		if unit, ok = h.cachedUnit(unitID); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unit not found"})
			return
		}
	}

	patch, err := h.ledger.Save(c.Request.Context(), unit)
	switch {
	case err == resale.ErrAgreedAmountRequired:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err == resale.ErrSaveInFlight:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.units = resale.Apply(h.units, unitID, patch)
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"message": "تم الحفظ وتحديث حالة الوحدة إلى إعادة بيع", "patch": patch})
}

type exportRequest struct {
	Query string `json:"q"`
}

// Export copies the filtered view to the clipboard as indented JSON.
func (h *ResaleHandler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.mu.Lock()
	units := h.units
	h.mu.Unlock()

	if units == nil {
		loaded, err := h.catalog.Load(c.Request.Context())
		if err != nil {
			h.logger.Error("failed loading units for export", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		h.mu.Lock()
		h.units = loaded
		h.mu.Unlock()
		h.ledger.Reload(loaded)
		units = loaded
	}

	visible := catalog.FilterForResale(units, req.Query)
	payload, err := export.ResaleExport(visible, h.ledger.Row)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.board.Copy(string(payload)); err != nil {
		h.logger.Warn("clipboard write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"copied": h.board.Copied(), "message": "تم نسخ البيانات إلى الحافظة بصيغة JSON"})
}

func (h *ResaleHandler) cachedUnit(id string) (models.EnrichedUnit, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, u := range h.units {
		if u.ID == id {
			return u, true
		}
	}
	return models.EnrichedUnit{}, false
}
