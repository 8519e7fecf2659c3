package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/vm-advisor/pkg/models"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func record(id, machine string, typ models.RecommendationType, created time.Time) models.RecommendationRecord {
	return models.RecommendationRecord{ID: id, MachineID: machine, Type: typ, CreatedAt: created}
}

type stubRefresher struct {
	calls []string
	err   error
}

func (r *stubRefresher) RequestRefresh(ctx context.Context, machineID string) error {
	r.calls = append(r.calls, machineID)
	return r.err
}

func TestBuildListQuery_NoFilter(t *testing.T) {
	query, args := buildListQuery("vm-1", models.RecommendationFilter{})

	assert.Equal(t, "SELECT id, machine_id, type, metadata, created_at FROM vm_recommendations WHERE machine_id = $1 ORDER BY created_at DESC, id ASC", query)
	assert.Equal(t, []interface{}{"vm-1"}, args)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
	after := t0
	before := t0.Add(24 * time.Hour)
	query, args := buildListQuery("vm-1", models.RecommendationFilter{
		Types:         []models.RecommendationType{models.RecommendationPortBlocked, models.RecommendationDiskSpaceLow},
		Limit:         10,
		CreatedAfter:  &after,
		CreatedBefore: &before,
	})

	assert.Contains(t, query, "AND type = ANY($2)")
	assert.Contains(t, query, "AND created_at > $3")
	assert.Contains(t, query, "AND created_at < $4")
	assert.Contains(t, query, "LIMIT $5")
	require.Len(t, args, 5)
	assert.Equal(t, pq.Array([]string{"PORT_BLOCKED", "DISK_SPACE_LOW"}), args[1])
	assert.Equal(t, after, args[2])
	assert.Equal(t, before, args[3])
	assert.Equal(t, 10, args[4])
}

func TestBuildListQuery_LimitOnly(t *testing.T) {
	query, args := buildListQuery("vm-1", models.RecommendationFilter{Limit: 3})

	assert.Contains(t, query, "LIMIT $2")
	assert.Equal(t, []interface{}{"vm-1", 3}, args)
}

func TestJSONBArg(t *testing.T) {
	assert.Nil(t, jsonbArg(nil))
	assert.Equal(t, `{"a":1}`, jsonbArg([]byte(`{"a":1}`)))
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckInserted(t *testing.T) {
	assert.NoError(t, checkInserted(fakeResult{rows: 1}, "a"))

	err := checkInserted(fakeResult{rows: 0}, "a")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorContains(t, err, "a")

	err = checkInserted(fakeResult{err: errors.New("driver gone")}, "a")
	assert.ErrorContains(t, err, "driver gone")
	assert.False(t, errors.Is(err, ErrAlreadyExists))
}

func TestMemoryStore_ListFiltersAndOrders(t *testing.T) {
	store := NewMemoryStore(
		record("a", "vm-1", models.RecommendationPortBlocked, t0),
		record("b", "vm-1", models.RecommendationDiskSpaceLow, t0.Add(2*time.Hour)),
		record("c", "vm-2", models.RecommendationDiskSpaceLow, t0.Add(time.Hour)),
		record("d", "vm-1", models.RecommendationOther, t0.Add(time.Hour)),
	)
	ctx := context.Background()

	all, err := store.ListRecommendations(ctx, "vm-1", models.RecommendationFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "d"}, recordIDs(all))

	after := t0
	filtered, err := store.ListRecommendations(ctx, "vm-1", models.RecommendationFilter{
		Types:        []models.RecommendationType{models.RecommendationDiskSpaceLow, models.RecommendationPortBlocked},
		CreatedAfter: &after,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, recordIDs(filtered))

	before := t0.Add(2 * time.Hour)
	limited, err := store.ListRecommendations(ctx, "vm-1", models.RecommendationFilter{CreatedBefore: &before, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, recordIDs(limited))

	none, err := store.ListRecommendations(ctx, "vm-9", models.RecommendationFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryStore_KeepsDuplicatesInFeedOrder(t *testing.T) {
	first := record("dup", "vm-1", models.RecommendationOSUpdateAvailable, t0)
	second := record("dup", "vm-1", models.RecommendationOther, t0)
	store := NewMemoryStore(first, second)

	got, err := store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RecommendationOSUpdateAvailable, got[0].Type)
}

func TestMemoryStore_DuplicatesWithDifferentTimesStayInFeedOrder(t *testing.T) {
	first := record("dup", "vm-1", models.RecommendationOSUpdateAvailable, t0)
	second := record("dup", "vm-1", models.RecommendationOther, t0.Add(time.Hour))
	store := NewMemoryStore(first, second)

	got, err := store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.RecommendationOSUpdateAvailable, got[0].Type)
	assert.Equal(t, models.RecommendationOther, got[1].Type)
}

func TestMemoryStore_LimitKeepsNewestInFeedOrder(t *testing.T) {
	store := NewMemoryStore(
		record("old", "vm-1", models.RecommendationOther, t0),
		record("newest", "vm-1", models.RecommendationOther, t0.Add(3*time.Hour)),
		record("oldest", "vm-1", models.RecommendationOther, t0.Add(-time.Hour)),
		record("newer", "vm-1", models.RecommendationOther, t0.Add(2*time.Hour)),
	)

	got, err := store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"newest", "newer"}, recordIDs(got))

	got, err = store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"old", "newest", "newer"}, recordIDs(got))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	rec := record("a", "vm-1", models.RecommendationDefenderThreat, t0)
	rec.Metadata = json.RawMessage(`{"activeThreats":1}`)
	store := NewMemoryStore(rec)

	got, err := store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{})
	require.NoError(t, err)
	got[0].Metadata[2] = 'X'

	again, err := store.GetRecommendation(context.Background(), "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"activeThreats":1}`, string(again.Metadata))
}

func TestMemoryStore_SaveAssignsIDAndTime(t *testing.T) {
	store := NewMemoryStore()
	rec := &models.RecommendationRecord{MachineID: "vm-1", Type: models.RecommendationOther}

	require.NoError(t, store.SaveRecommendation(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := store.GetRecommendation(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.MachineID, got.MachineID)
	assert.Equal(t, []string{"vm-1"}, store.MachineIDs())
}

func TestMemoryStore_GetMissing(t *testing.T) {
	_, err := NewMemoryStore().GetRecommendation(context.Background(), "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_RefreshForwarded(t *testing.T) {
	store := NewMemoryStore(record("a", "vm-1", models.RecommendationOther, t0))
	refresher := &stubRefresher{}
	store.SetRefresher(refresher)

	_, err := store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{})
	require.NoError(t, err)
	assert.Empty(t, refresher.calls)

	_, err = store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{Refresh: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"vm-1"}, refresher.calls)

	refresher.err = errors.New("scanner offline")
	_, err = store.ListRecommendations(context.Background(), "vm-1", models.RecommendationFilter{Refresh: true})
	assert.ErrorContains(t, err, "scanner offline")
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().ListRecommendations(ctx, "vm-1", models.RecommendationFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func recordIDs(records []models.RecommendationRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
