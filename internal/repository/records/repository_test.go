package records

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masaken/backoffice/internal/domain/models"
	"github.com/masaken/backoffice/pkg/clients/postgrest"
)

type fakeClient struct {
	selectTable string
	selectOpts  postgrest.SelectOptions
	selectErr   error

	upsertTable    string
	upsertConflict string
	upsertRows     any
	upsertErr      error

	updateTable   string
	updatePatch   any
	updateFilters map[string]string
	updateErr     error

	countTable string
	countErr   error
}

func (f *fakeClient) Select(ctx context.Context, table string, opts postgrest.SelectOptions, dest any) error {
	f.selectTable = table
	f.selectOpts = opts
	return f.selectErr
}

func (f *fakeClient) Update(ctx context.Context, table string, patch any, filters map[string]string) error {
	f.updateTable = table
	f.updatePatch = patch
	f.updateFilters = filters
	return f.updateErr
}

func (f *fakeClient) Upsert(ctx context.Context, table string, rows any, onConflict string) error {
	f.upsertTable = table
	f.upsertRows = rows
	f.upsertConflict = onConflict
	return f.upsertErr
}

func (f *fakeClient) Count(ctx context.Context, table string) (int64, error) {
	f.countTable = table
	return 0, f.countErr
}

func TestListOrdering(t *testing.T) {
	client := &fakeClient{}
	repo := NewStoreRepository(client, nil)
	ctx := context.Background()

	_, err := repo.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "projects", client.selectTable)
	assert.Equal(t, "created_at", client.selectOpts.OrderBy)
	assert.True(t, client.selectOpts.Descending)

	_, err = repo.ListUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, "units", client.selectTable)
	assert.Equal(t, "unit_number", client.selectOpts.OrderBy)
	assert.False(t, client.selectOpts.Descending)

	_, err = repo.ListDebts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "debts", client.selectTable)
	assert.Equal(t, "saved_at", client.selectOpts.OrderBy)
	assert.True(t, client.selectOpts.Descending)
}

func TestListWrapsErrors(t *testing.T) {
	client := &fakeClient{selectErr: errors.New("connection refused")}
	repo := NewStoreRepository(client, nil)

	_, err := repo.ListUnits(context.Background())
	require.Error(t, err)
	assert.EqualError(t, err, "list units: connection refused")
}

func TestUpsertDebt(t *testing.T) {
	client := &fakeClient{}
	repo := NewStoreRepository(client, nil)

	record := models.DebtRecord{UnitID: "u1"}
	require.NoError(t, repo.UpsertDebt(context.Background(), record))
	assert.Equal(t, "debts", client.upsertTable)
	assert.Equal(t, "unit_id", client.upsertConflict)
	assert.Equal(t, []models.DebtRecord{record}, client.upsertRows)

	t.Run("store message passes through unwrapped", func(t *testing.T) {
		client := &fakeClient{upsertErr: errors.New("permission denied for table debts")}
		repo := NewStoreRepository(client, nil)
		err := repo.UpsertDebt(context.Background(), record)
		assert.EqualError(t, err, "permission denied for table debts")
	})
}

func TestUpdateUnitResale(t *testing.T) {
	client := &fakeClient{}
	repo := NewStoreRepository(client, nil)

	patch := models.ResalePatch{Status: models.UnitStatusForResale}
	require.NoError(t, repo.UpdateUnitResale(context.Background(), "u7", patch))
	assert.Equal(t, "units", client.updateTable)
	assert.Equal(t, map[string]string{"id": "u7"}, client.updateFilters)
	assert.Equal(t, patch, client.updatePatch)
}

func TestPing(t *testing.T) {
	client := &fakeClient{}
	repo := NewStoreRepository(client, nil)

	require.NoError(t, repo.Ping(context.Background()))
	assert.Equal(t, "projects", client.countTable)

	t.Run("failure", func(t *testing.T) {
		client := &fakeClient{countErr: errors.New("unauthorized")}
		repo := NewStoreRepository(client, nil)
		assert.EqualError(t, repo.Ping(context.Background()), "unauthorized")
	})
}
