package store

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"inventory-tracker/core/database"
	"inventory-tracker/core/inventory"
	"inventory-tracker/core/reconcile"
	"inventory-tracker/feature/inventory/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var testLocations = []string{"ACT", "NSW", "NT", "QLD", "SA", "TAS", "VIC", "WA"}

func setupTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)

	s := New(db)
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, s.Migrate(context.Background(), testLocations))
	return s
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func TestMigrate_SeedsLocationsAndIsRepeatable(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx, testLocations))

	var count int64
	require.NoError(t, s.DB().Model(&models.Location{}).Count(&count).Error)
	assert.Equal(t, int64(len(testLocations)), count)

	ok, err := database.HasView(s.DB(), models.AvailabilityView)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpsertItem_Lifecycle(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	outcome, err := s.UpsertItem(ctx, "VIN1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.ItemCreated, outcome)

	outcome, err = s.UpsertItem(ctx, "VIN1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.ItemUnchanged, outcome)

	removedAt := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	marked, err := s.MarkRemoved(ctx, "VIN1", removedAt)
	require.NoError(t, err)
	assert.True(t, marked)

	// Set-once: a second removal neither fails nor moves the timestamp.
	marked, err = s.MarkRemoved(ctx, "VIN1", removedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, marked)

	var item models.Item
	require.NoError(t, s.DB().Take(&item, "id = ?", "VIN1").Error)
	require.NotNil(t, item.RemovedAt)
	assert.True(t, item.RemovedAt.Equal(removedAt))

	active, err := s.ActiveIdentifiers(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	outcome, err = s.UpsertItem(ctx, "VIN1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.ItemReactivated, outcome)

	require.NoError(t, s.DB().Take(&item, "id = ?", "VIN1").Error)
	assert.Nil(t, item.RemovedAt)
	assert.True(t, item.CreatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestMarkRemoved_UnknownItem(t *testing.T) {
	s := setupTestStore(t)
	marked, err := s.MarkRemoved(context.Background(), "missing", time.Now())
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestMetadata_Policies(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	attrs := inventory.Attributes{}.With("trim", "LRRWD").With("paint", "WHITE")

	require.NoError(t, s.UpsertMetadata(ctx, inventory.Metadata{ItemID: "VIN1", Attributes: attrs, Price: 61900}))
	require.NoError(t, s.UpsertMetadata(ctx, inventory.Metadata{ItemID: "VIN1", Attributes: attrs.With("paint", "RED"), Price: 55000}))

	var meta models.ItemMetadata
	require.NoError(t, s.DB().Take(&meta, "item_id = ?", "VIN1").Error)
	assert.Equal(t, int64(61900), meta.Price)
	assert.Equal(t, attrs, meta.Attributes)

	require.NoError(t, s.OverwriteMetadata(ctx, inventory.Metadata{ItemID: "VIN1", Attributes: attrs.With("paint", "RED"), Price: 55000}))
	require.NoError(t, s.DB().Take(&meta, "item_id = ?", "VIN1").Error)
	assert.Equal(t, int64(55000), meta.Price)
	paint, _ := meta.Attributes.Get("paint")
	assert.Equal(t, "RED", paint)

	var count int64
	require.NoError(t, s.DB().Model(&models.ItemMetadata{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLocations_StableAndIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	nsw, err := s.UpsertLocation(ctx, "NSW")
	require.NoError(t, err)
	again, err := s.UpsertLocation(ctx, "NSW")
	require.NoError(t, err)
	assert.Equal(t, nsw, again)

	// Lazily created names get a fresh id.
	other, err := s.UpsertLocation(ctx, "JB")
	require.NoError(t, err)
	assert.NotEqual(t, nsw, other)

	_, err = s.UpsertItem(ctx, "VIN1")
	require.NoError(t, err)
	require.NoError(t, s.UpsertItemLocation(ctx, "VIN1", nsw))
	require.NoError(t, s.UpsertItemLocation(ctx, "VIN1", nsw))

	var count int64
	require.NoError(t, s.DB().Model(&models.ItemLocation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestQueries(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	nsw, err := s.UpsertLocation(ctx, "NSW")
	require.NoError(t, err)
	vic, err := s.UpsertLocation(ctx, "VIC")
	require.NoError(t, err)

	for _, id := range []string{"A", "B", "C"} {
		_, err := s.UpsertItem(ctx, id)
		require.NoError(t, err)
		require.NoError(t, s.UpsertItemLocation(ctx, id, nsw))
	}
	require.NoError(t, s.UpsertItemLocation(ctx, "A", vic))
	require.NoError(t, s.UpsertMetadata(ctx, inventory.Metadata{ItemID: "A", Price: 61900}))
	_, err = s.MarkRemoved(ctx, "C", time.Now())
	require.NoError(t, err)

	availability, err := s.Availability(ctx)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, row := range availability {
		counts[row.Location] = row.Available
	}
	assert.Len(t, availability, len(testLocations))
	assert.Equal(t, int64(2), counts["NSW"])
	assert.Equal(t, int64(1), counts["VIC"])
	assert.Equal(t, int64(0), counts["WA"])

	detail, err := s.Item(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", detail.ID)
	assert.Equal(t, []string{"NSW", "VIC"}, detail.Locations)
	require.NotNil(t, detail.Metadata)
	assert.Equal(t, int64(61900), detail.Metadata.Price)

	_, err = s.Item(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordCycle_AndCycles(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		report := reconcile.Report{
			StartedAt:  start.Add(time.Duration(i) * time.Hour),
			FinishedAt: start.Add(time.Duration(i)*time.Hour + time.Minute),
			Status:     reconcile.StatusSucceeded,
			Seen:       10 + i,
		}
		require.NoError(t, s.RecordCycle(ctx, report))
	}

	runs, err := s.Cycles(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 12, runs[0].Seen)
	assert.Equal(t, 11, runs[1].Seen)
	assert.Equal(t, "succeeded", runs[0].Status)
}

func TestReconcilerAgainstStore(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		_, err := s.UpsertItem(ctx, id)
		require.NoError(t, err)
	}

	source := staticSource{
		{ID: "B", Location: "NSW", Price: 1},
		{ID: "C", Location: "VIC", Price: 2},
		{ID: "D", Location: "QLD", Price: 3},
	}
	r := reconcile.New(s, source, reconcile.Config{Locations: testLocations}, nil)

	report, err := r.RunCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Removed)

	// A second identical cycle changes nothing.
	report, err = r.RunCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Created)
	assert.Zero(t, report.Removed)

	active, err := s.ActiveIdentifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"B": {}, "C": {}, "D": {}}, active)
}

type staticSource []inventory.Record

func (s staticSource) FetchAll(ctx context.Context, q inventory.Query) ([]inventory.Record, error) {
	return s, nil
}

func TestUpsertItem_MySQLStatements(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `items`")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `items` SET `removed_at`=? WHERE id = ? AND removed_at IS NOT NULL")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := s.UpsertItem(context.Background(), "VIN1")
	require.NoError(t, err)
	assert.Equal(t, reconcile.ItemReactivated, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveIdentifiers_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `items` WHERE removed_at IS NULL")).
		WillReturnError(assert.AnError)

	_, err := s.ActiveIdentifiers(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
