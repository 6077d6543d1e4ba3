package records

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/pkg/clients/postgrest"
)

// Store table names.
const (
	tableProjects = "projects"
	tableUnits    = "units"
	tableDebts    = "debts"
)

// Repository defines the typed data access surface for the back office.
type Repository interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	ListUnits(ctx context.Context) ([]models.Unit, error)
	ListDebts(ctx context.Context) ([]models.DebtRecord, error)
	UpsertDebt(ctx context.Context, record models.DebtRecord) error
	UpdateUnitResale(ctx context.Context, unitID string, patch models.ResalePatch) error
	Ping(ctx context.Context) error
}

// StoreRepository implements Repository against the hosted record store.
type StoreRepository struct {
	client postgrest.Client
	logger *zap.Logger
}

// NewStoreRepository wires a repository over the generic store client.
func NewStoreRepository(client postgrest.Client, logger *zap.Logger) *StoreRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreRepository{client: client, logger: logger}
}

// ListProjects returns all projects, most recently created first.
func (r *StoreRepository) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.client.Select(ctx, tableProjects, postgrest.SelectOptions{
		OrderBy:    "created_at",
		Descending: true,
	}, &projects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListUnits returns all units in ascending unit number order.
func (r *StoreRepository) ListUnits(ctx context.Context) ([]models.Unit, error) {
	var units []models.Unit
	err := r.client.Select(ctx, tableUnits, postgrest.SelectOptions{
		OrderBy: "unit_number",
	}, &units)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}

// ListDebts returns every persisted debt snapshot, most recent save first.
func (r *StoreRepository) ListDebts(ctx context.Context) ([]models.DebtRecord, error) {
	var debts []models.DebtRecord
	err := r.client.Select(ctx, tableDebts, postgrest.SelectOptions{
		OrderBy:    "saved_at",
		Descending: true,
	}, &debts)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	return debts, nil
}

// UpsertDebt writes a debt snapshot keyed on unit_id; a second save for the
// same unit overwrites the previous row.
func (r *StoreRepository) UpsertDebt(ctx context.Context, record models.DebtRecord) error {
	if err := r.client.Upsert(ctx, tableDebts, []models.DebtRecord{record}, "unit_id"); err != nil {
		return err
	}
	r.logger.Info("debt snapshot saved", zap.String("unit_id", record.UnitID))
	return nil
}

// UpdateUnitResale patches the resale columns directly on the unit row.
func (r *StoreRepository) UpdateUnitResale(ctx context.Context, unitID string, patch models.ResalePatch) error {
	if err := r.client.Update(ctx, tableUnits, patch, map[string]string{"id": unitID}); err != nil {
		return err
	}
	r.logger.Info("unit resale updated", zap.String("unit_id", unitID))
	return nil
}

// Ping issues a row-count-only probe to verify store connectivity.
func (r *StoreRepository) Ping(ctx context.Context) error {
	_, err := r.client.Count(ctx, tableProjects)
	return err
}
