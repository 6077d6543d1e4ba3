package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/service/export"
	"github.com/masaken/backoffice/internal/service/report"
	"github.com/masaken/backoffice/pkg/clipboard"
)

// ReportHandler serves the read-only debt report.
type ReportHandler struct {
	svc    *report.Service
	board  *clipboard.Board
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc *report.Service, board *clipboard.Board, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, board: board, logger: logger}
}

// Get returns the persisted debt records matching the query, newest save
// first, with totals over the filtered set.
func (h *ReportHandler) Get(c *gin.Context) {
	rows, err := h.svc.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading debt report", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	filtered := report.Filter(rows, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"records": filtered,
		"totals":  report.Totals(filtered),
	})
}

// Copy renders the filtered report as text and writes it to the clipboard.
func (h *ReportHandler) Copy(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rows, err := h.svc.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading debt report for copy", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	filtered := report.Filter(rows, req.Query)
	summary := export.ReportSummary(filtered, report.Totals(filtered))

	if err := h.board.Copy(summary); err != nil {
		h.logger.Warn("clipboard write failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"copied": h.board.Copied(), "summary": summary})
}
