package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masaken/backoffice/internal/domain/models"
)

type fakeRepo struct {
	projects []models.Project
	units    []models.Unit
	err      error
}

func (f *fakeRepo) ListProjects(context.Context) ([]models.Project, error) {
	return f.projects, f.err
}

func (f *fakeRepo) ListUnits(context.Context) ([]models.Unit, error) {
	return f.units, f.err
}

func (f *fakeRepo) ListDebts(context.Context) ([]models.DebtRecord, error) { return nil, nil }

func (f *fakeRepo) UpsertDebt(context.Context, models.DebtRecord) error { return nil }

func (f *fakeRepo) UpdateUnitResale(context.Context, string, models.ResalePatch) error { return nil }

func (f *fakeRepo) Ping(context.Context) error { return nil }

func strptr(s string) *string { return &s }

func testUnits() []models.EnrichedUnit {
	return Enrich(
		[]models.Unit{
			{ID: "u1", ProjectID: "p1", UnitNumber: 5, ClientName: "أحمد"},
			{ID: "u2", ProjectID: "p2", UnitNumber: 12, ClientName: "سالم", TitleDeedOwner: strptr("خالد")},
			{ID: "u3", ProjectID: "missing", UnitNumber: 7, ClientName: "أحمد"},
		},
		[]models.Project{
			{ID: "p1", Name: "مشروع النخيل", ProjectNumber: "110"},
			{ID: "p2", Name: "مشروع 200", ProjectNumber: "200"},
		},
	)
}

func TestEnrich(t *testing.T) {
	units := testUnits()
	require.Len(t, units, 3)

	assert.Equal(t, "110-5", units[0].Code())
	assert.Equal(t, "مشروع النخيل", units[0].ProjectName)

	// Input order is preserved.
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string{units[0].ID, units[1].ID, units[2].ID})

	// Unresolved project falls back to the sentinel pair, not an error.
	assert.Equal(t, models.UnknownProjectName, units[2].ProjectName)
	assert.Equal(t, "-7", units[2].Code())
}

func TestFilterUnits(t *testing.T) {
	units := testUnits()

	t.Run("code substring", func(t *testing.T) {
		got := FilterUnits(units, "110-5")
		require.Len(t, got, 1)
		assert.Equal(t, "u1", got[0].ID)
	})

	t.Run("query 5 matches substring and exact numeric", func(t *testing.T) {
		got := FilterUnits(units, "5")
		// u1 by code substring "110-5" and exact unit number 5.
		require.Len(t, got, 1)
		assert.Equal(t, "u1", got[0].ID)
	})

	t.Run("exact numeric rule", func(t *testing.T) {
		got := FilterUnits(units, "12")
		require.Len(t, got, 1)
		assert.Equal(t, "u2", got[0].ID)
	})

	t.Run("project name substring", func(t *testing.T) {
		got := FilterUnits(units, "النخيل")
		require.Len(t, got, 1)
		assert.Equal(t, "u1", got[0].ID)
	})

	t.Run("project name containing digits", func(t *testing.T) {
		// "200" matches u2 both via project name and code.
		got := FilterUnits(units, "200")
		require.Len(t, got, 1)
		assert.Equal(t, "u2", got[0].ID)
	})

	t.Run("empty query keeps all", func(t *testing.T) {
		assert.Len(t, FilterUnits(units, "  "), 3)
	})
}

func TestClients(t *testing.T) {
	units := testUnits()

	clients := Clients(units)
	// Distinct union of client names and deed owners, duplicates collapsed.
	assert.ElementsMatch(t, []string{"أحمد", "سالم", "خالد"}, clients)

	t.Run("filter is raw substring", func(t *testing.T) {
		assert.Equal(t, []string{"سالم"}, FilterClients(clients, "سال"))
		assert.Empty(t, FilterClients(clients, "zzz"))
	})

	t.Run("selection matches either name field exactly", func(t *testing.T) {
		got := UnitsForClient(units, "خالد")
		require.Len(t, got, 1)
		assert.Equal(t, "u2", got[0].ID)

		assert.Len(t, UnitsForClient(units, "أحمد"), 2)
		assert.Empty(t, UnitsForClient(units, ""))
	})
}

func TestFilterForResale(t *testing.T) {
	units := testUnits()

	got := FilterForResale(units, "أحمد")
	assert.Len(t, got, 2)

	// Empty query matches everything.
	assert.Len(t, FilterForResale(units, ""), 3)
}

func TestServiceLoad(t *testing.T) {
	repo := &fakeRepo{
		projects: []models.Project{{ID: "p1", Name: "A", ProjectNumber: "1"}},
		units:    []models.Unit{{ID: "u1", ProjectID: "p1", UnitNumber: 3}},
	}

	svc := NewService(repo, nil)
	units, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "1-3", units[0].Code())

	t.Run("store error is surfaced", func(t *testing.T) {
		repo.err = errors.New("connection refused")
		_, err := svc.Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
	})
}
