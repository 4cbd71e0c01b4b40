package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toproad/pkg/store"
)

func TestCollection_Load_MissingFile(t *testing.T) {
	c := store.NewCollection[store.Trip](filepath.Join(t.TempDir(), "nope", "trips.json"))

	got := c.Load()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_Load_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": "not-a-uuid", "title": `), 0644))

	got := store.NewCollection[store.Trip](path).Load()

	assert.Empty(t, got)
}

func TestCollection_Load_WrongSchemaIsNotPartiallyDecoded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.json")
	good := uuid.New()
	// the second record carries a category outside the enum
	content := `[
		{"id": "` + good.String() + `", "title": "Rome", "category": "vacation"},
		{"id": "` + uuid.New().String() + `", "title": "Oslo", "category": "spaceflight"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	got := store.NewCollection[store.Trip](path).Load()

	assert.Empty(t, got)
}

func TestCollection_Load_NullContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0644))

	got := store.NewCollection[store.Trip](path).Load()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "trips.json")
	c := store.NewCollection[store.Trip](path)

	start := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	due := start.Add(-48 * time.Hour)
	trip := store.NewTrip("Lisbon", "Portugal", start, start.AddDate(0, 0, 5), store.TripVacation)
	trip.Checklist = append(trip.Checklist, store.ChecklistItem{ID: uuid.New(), Title: "Book hotel", DueDate: &due})
	trip.IsHidden = true

	require.NoError(t, c.Save([]store.Trip{trip}))

	got := c.Load()
	require.Len(t, got, 1)
	assert.Equal(t, trip.ID, got[0].ID)
	assert.Equal(t, "Lisbon", got[0].Title)
	assert.True(t, got[0].StartDate.Equal(start))
	assert.Equal(t, store.TripVacation, got[0].Category)
	assert.True(t, got[0].IsHidden)
	require.Len(t, got[0].Checklist, 1)
	require.NotNil(t, got[0].Checklist[0].DueDate)
	assert.True(t, got[0].Checklist[0].DueDate.Equal(due))
}

func TestCollection_Save_UsesStableFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.json")
	c := store.NewCollection[store.Trip](path)
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.Save([]store.Trip{store.NewTrip("A", "B", start, start, store.TripEvent)}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{`"id"`, `"title"`, `"location"`, `"startDate"`, `"endDate"`,
		`"notes"`, `"category": "event"`, `"checklist"`, `"dailyNotes"`, `"isHidden"`} {
		assert.Contains(t, string(raw), field)
	}
}

func TestCollection_Save_NilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trips.json")

	require.NoError(t, store.NewCollection[store.Trip](path).Save(nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw))
}

func TestCollection_Save_ReportsWriteFailure(t *testing.T) {
	dir := t.TempDir()
	// a regular file where the parent directory should be
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := store.NewCollection[store.Trip](filepath.Join(blocker, "trips.json")).Save([]store.Trip{})

	assert.Error(t, err)
}

func TestCollection_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	c := store.NewCollection[store.Template](path)
	require.NoError(t, c.Save([]store.Template{}))

	require.NoError(t, c.Remove())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// removing again is not an error
	assert.NoError(t, c.Remove())
}
