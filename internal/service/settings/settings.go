package settings

import (
	"context"

	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/config"
	"github.com/masaken/backoffice/internal/repository/records"
)

const notConfigured = "غير مضبوط"

// View is the settings page payload: the endpoint is shown raw, the access
// key only as a masked indicator.
type View struct {
	StoreURL string `json:"store_url"`
	StoreKey string `json:"store_key"`
}

// TestResult reports the outcome of a manual connectivity probe.
type TestResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Service backs the settings page.
type Service struct {
	cfg    *config.Config
	repo   records.Repository
	logger *zap.Logger
}

// NewService wires a new settings service instance.
func NewService(cfg *config.Config, repo records.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, repo: repo, logger: logger}
}

// View returns the displayable connection parameters.
func (s *Service) View() View {
	v := View{StoreURL: notConfigured, StoreKey: notConfigured}
	if s.cfg.Store.URL != "" {
		v.StoreURL = s.cfg.Store.URL
	}
	if s.cfg.Store.AnonKey != "" {
		v.StoreKey = "******"
	}
	return v
}

// TestConnection runs a row-count-only select against the store and reports
// success or the store's error message.
func (s *Service) TestConnection(ctx context.Context) TestResult {
	if err := s.repo.Ping(ctx); err != nil {
		s.logger.Warn("store connectivity probe failed", zap.Error(err))
		return TestResult{OK: false, Message: err.Error()}
	}
	return TestResult{OK: true, Message: "الاتصال ناجح وتم الوصول لقاعدة البيانات"}
}
