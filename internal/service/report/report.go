package report

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/internal/repository/records"
)

// Service is the read-only projection over persisted debt snapshots.
type Service struct {
	repo   records.Repository
	logger *zap.Logger
}

// NewService wires a new report service instance.
func NewService(repo records.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Load fetches every saved debt record, most recent save first.
func (s *Service) Load(ctx context.Context) ([]models.DebtRecord, error) {
	debts, err := s.repo.ListDebts(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("debt report loaded", zap.Int("records", len(debts)))
	return debts, nil
}

// Filter keeps records where any of code, project name, original client,
// current owner, or deed number contains the query as a substring.
func Filter(rows []models.DebtRecord, query string) []models.DebtRecord {
	term := strings.TrimSpace(query)
	if term == "" {
		return rows
	}

	var matched []models.DebtRecord
	for _, r := range rows {
		if strings.Contains(r.Code(), term) ||
			strings.Contains(r.ProjectName, term) ||
			containsOptional(r.OriginalClientName, term) ||
			containsOptional(r.CurrentOwnerName, term) ||
			containsOptional(r.DeedNumber, term) {
			matched = append(matched, r)
		}
	}
	return matched
}

// Totals aggregates the filtered set. The remaining value is read verbatim
// from each persisted record; it was recomputed at save time and is not
// derived again here.
func Totals(rows []models.DebtRecord) models.DebtTotals {
	var t models.DebtTotals
	for _, r := range rows {
		t.Contract = t.Contract.Add(models.Zero(r.ContractValue))
		t.Paid = t.Paid.Add(models.Zero(r.PaidValue))
		t.Remaining = t.Remaining.Add(r.RemainingValue)
	}
	return t
}

func containsOptional(s *string, term string) bool {
	return s != nil && strings.Contains(*s, term)
}
