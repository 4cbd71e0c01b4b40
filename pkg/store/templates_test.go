package store_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toproad/pkg/store"
)

func builtins(s *store.TemplateStore) []store.Template {
	var out []store.Template
	for _, t := range s.All() {
		if t.IsBuiltin {
			out = append(out, t)
		}
	}
	return out
}

func findByTitle(t *testing.T, list []store.Template, title string) store.Template {
	t.Helper()
	for _, tpl := range list {
		if tpl.Title == title {
			return tpl
		}
	}
	t.Fatalf("template %q not found", title)
	return store.Template{}
}

func itemTitles(items []store.ChecklistItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func userTemplate(title string, cat store.TemplateCategory, items ...string) store.Template {
	t := store.Template{Title: title, Category: cat}
	for _, item := range items {
		t.Items = append(t.Items, store.NewChecklistItem(item))
	}
	return t
}

func TestTemplateStore_LoadsBundledDefaults(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())

	all := s.All()

	require.NotEmpty(t, all)
	for _, tpl := range all {
		assert.True(t, tpl.IsBuiltin, tpl.Title)
		assert.NotEqual(t, uuid.Nil, tpl.ID)
		for _, item := range tpl.Items {
			assert.NotEqual(t, uuid.Nil, item.ID)
		}
	}
	essentials := findByTitle(t, all, "Essentials")
	assert.Equal(t, store.TemplateEssentials, essentials.Category)
}

func TestTemplateStore_FallsBackWhenBundleMissing(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir(), store.WithBundle(fstest.MapFS{}))

	all := s.All()

	require.Len(t, all, 4)
	assert.Equal(t, []string{"Business Trip", "Essentials", "Hiking Weekend", "Vacation Starter"},
		[]string{all[0].Title, all[1].Title, all[2].Title, all[3].Title})
}

func TestTemplateStore_FallsBackWhenBundleCorrupt(t *testing.T) {
	bundle := fstest.MapFS{"default_templates.json": {Data: []byte(`{"not": "an array"}`)}}

	s := store.NewTemplateStore(t.TempDir(), store.WithBundle(bundle))

	assert.Len(t, s.All(), 4)
}

func TestTemplateStore_AllSortsByTitleIgnoringCase(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir(), store.WithBundle(fstest.MapFS{}))
	_, err := s.Add(userTemplate("alpine hut", store.TemplateHiking))
	require.NoError(t, err)
	_, err = s.Add(userTemplate("Zoo day", store.TemplateCustom))
	require.NoError(t, err)

	var got []string
	for _, tpl := range s.All() {
		got = append(got, tpl.Title)
	}

	assert.Equal(t, []string{"alpine hut", "Business Trip", "Essentials", "Hiking Weekend", "Vacation Starter", "Zoo day"}, got)
}

func TestTemplateStore_ListFiltersByCategory(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir(), store.WithBundle(fstest.MapFS{}))
	_, err := s.Add(userTemplate("Alps", store.TemplateHiking))
	require.NoError(t, err)

	hiking := store.TemplateHiking
	got := s.List(&hiking)

	require.Len(t, got, 2)
	assert.Equal(t, "Alps", got[0].Title)
	assert.Equal(t, "Hiking Weekend", got[1].Title)
	assert.Len(t, s.List(nil), 5)
}

func TestTemplateStore_AddForcesFreshIDAndUserOwnership(t *testing.T) {
	dir := t.TempDir()
	s := store.NewTemplateStore(dir)
	in := userTemplate("Ski", store.TemplateCustom, "Goggles")
	in.ID = uuid.New()
	in.IsBuiltin = true

	got, err := s.Add(in)

	require.NoError(t, err)
	assert.NotEqual(t, in.ID, got.ID)
	assert.False(t, got.IsBuiltin)

	reloaded := store.NewTemplateStore(dir)
	ski := findByTitle(t, reloaded.All(), "Ski")
	assert.False(t, ski.IsBuiltin)
	assert.Equal(t, got.ID, ski.ID)
}

func TestTemplateStore_UserFileNeverStoresBuiltinFlagOrBuiltins(t *testing.T) {
	dir := t.TempDir()
	s := store.NewTemplateStore(dir)
	_, err := s.Add(userTemplate("Ski", store.TemplateCustom))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, store.TemplatesFile))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "isBuiltin")
	var onDisk []map[string]any
	require.NoError(t, json.Unmarshal(raw, &onDisk))
	require.Len(t, onDisk, 1)
	assert.Equal(t, "Ski", onDisk[0]["title"])
}

func TestTemplateStore_UserFileBuiltinFlagIsIgnored(t *testing.T) {
	dir := t.TempDir()
	content := `[{"id": "` + uuid.New().String() + `", "title": "Sneaky", "category": "custom", "items": [], "notes": "", "isBuiltin": true}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.TemplatesFile), []byte(content), 0644))

	s := store.NewTemplateStore(dir)
	sneaky := findByTitle(t, s.All(), "Sneaky")

	assert.False(t, sneaky.IsBuiltin)
	require.NoError(t, s.Remove(sneaky))
	for _, tpl := range s.All() {
		assert.NotEqual(t, "Sneaky", tpl.Title)
	}
}

func TestTemplateStore_RemoveBuiltinIsNoop(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	essentials := findByTitle(t, s.All(), "Essentials")

	require.NoError(t, s.Remove(essentials))

	still := findByTitle(t, s.All(), "Essentials")
	assert.Equal(t, essentials.ID, still.ID)
}

func TestTemplateStore_RemoveUserTemplate(t *testing.T) {
	dir := t.TempDir()
	s := store.NewTemplateStore(dir)
	added, err := s.Add(userTemplate("Ski", store.TemplateCustom))
	require.NoError(t, err)

	require.NoError(t, s.Remove(added))

	_, err = s.Get(added.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, filterUser(store.NewTemplateStore(dir).All()))
}

func filterUser(list []store.Template) []store.Template {
	var out []store.Template
	for _, t := range list {
		if !t.IsBuiltin {
			out = append(out, t)
		}
	}
	return out
}

func TestTemplateStore_Update(t *testing.T) {
	dir := t.TempDir()
	s := store.NewTemplateStore(dir)
	added, err := s.Add(userTemplate("Ski", store.TemplateCustom))
	require.NoError(t, err)

	added.Notes = "bring wax"
	found, err := s.Update(added)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Update(userTemplate("ghost", store.TemplateCustom))
	require.NoError(t, err)
	assert.False(t, found)

	got, err := store.NewTemplateStore(dir).Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, "bring wax", got.Notes)
}

func TestTemplateStore_UpdateBuiltinIsLostOnReload(t *testing.T) {
	dir := t.TempDir()
	s := store.NewTemplateStore(dir)
	essentials := findByTitle(t, s.All(), "Essentials")

	essentials.Notes = "edited"
	found, err := s.Update(essentials)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "edited", findByTitle(t, s.All(), "Essentials").Notes)

	reloaded := store.NewTemplateStore(dir)
	assert.Empty(t, findByTitle(t, reloaded.All(), "Essentials").Notes)
}

func TestTemplateStore_Duplicate(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	essentials := findByTitle(t, s.All(), "Essentials")

	dup, err := s.Duplicate(essentials)

	require.NoError(t, err)
	assert.NotEqual(t, essentials.ID, dup.ID)
	assert.False(t, dup.IsBuiltin)
	assert.Equal(t, "Copy of Essentials", dup.Title)
	assert.Equal(t, itemTitles(essentials.Items), itemTitles(dup.Items))

	original := findByTitle(t, s.All(), "Essentials")
	assert.Equal(t, essentials, original)
}

func TestTemplateStore_DuplicateUsesCopyTitleOption(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir(), store.WithCopyTitle(func(title string) string {
		return title + " (kopie)"
	}))
	essentials := findByTitle(t, s.All(), "Essentials")

	dup, err := s.Duplicate(essentials)

	require.NoError(t, err)
	assert.Equal(t, "Essentials (kopie)", dup.Title)
}

func TestTemplateStore_ImportSkipsExistingKey(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	before := findByTitle(t, s.All(), "Essentials")
	payload := `[
		{"title": "Essentials", "category": "essentials", "items": [{"title": "X"}]},
		{"title": "Essentials", "category": "custom", "items": [{"title": "Z"}]},
		{"title": "Road trip", "category": "vacation", "items": [{"title": "Snacks"}]}
	]`

	report, err := s.Import(strings.NewReader(payload))

	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "Essentials", report.Skipped[0].Title)
	assert.Len(t, report.Added, 2)

	after := findByTitle(t, builtins(s), "Essentials")
	assert.Equal(t, itemTitles(before.Items), itemTitles(after.Items))

	road := findByTitle(t, s.All(), "Road trip")
	assert.False(t, road.IsBuiltin)
	assert.NotEqual(t, uuid.Nil, road.ID)
}

func TestTemplateStore_ImportDedupesWithinPayload(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	payload := `[
		{"title": "Road trip", "category": "vacation", "items": [{"title": "first"}]},
		{"title": "Road trip", "category": "vacation", "items": [{"title": "second"}]}
	]`

	report, err := s.Import(strings.NewReader(payload))

	require.NoError(t, err)
	assert.Len(t, report.Added, 1)
	assert.Len(t, report.Skipped, 1)
	assert.Equal(t, []string{"first"}, itemTitles(findByTitle(t, s.All(), "Road trip").Items))
}

func TestTemplateStore_ImportAssignsMissingItemIDs(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	payload := `[{"title": "Ski week", "category": "vacation", "items": [{"title": "boots"}, {"title": "goggles"}]}]`

	_, err := s.Import(strings.NewReader(payload))
	require.NoError(t, err)

	ski := findByTitle(t, s.All(), "Ski week")
	require.Len(t, ski.Items, 2)
	assert.NotEqual(t, uuid.Nil, ski.Items[0].ID)
	assert.NotEqual(t, uuid.Nil, ski.Items[1].ID)
	assert.NotEqual(t, ski.Items[0].ID, ski.Items[1].ID)

	trip := s.MakeTrip(ski, "Alps", "", fixedNow, fixedNow, nil)
	_, ok := trip.ToggleItem(ski.Items[1].ID)
	require.True(t, ok)
	assert.False(t, trip.Checklist[0].IsDone)
	assert.True(t, trip.Checklist[1].IsDone)
}

func TestTemplateStore_ImportReplacesTakenIDs(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	mine, err := s.Add(userTemplate("Mine", store.TemplateCustom, "a"))
	require.NoError(t, err)

	var exported bytes.Buffer
	require.NoError(t, s.ExportUserTemplates(&exported))

	mine.Title = "Renamed"
	_, err = s.Update(mine)
	require.NoError(t, err)

	report, err := s.Import(&exported)
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	assert.NotEqual(t, mine.ID, report.Added[0].ID)

	ids := make(map[uuid.UUID]int)
	for _, tpl := range s.All() {
		ids[tpl.ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "template id %s is shared", id)
	}
}

func TestTemplateStore_ImportDefaultsMissingCategory(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())

	report, err := s.Import(strings.NewReader(`[{"title": "Bare", "items": []}]`))
	require.NoError(t, err)
	require.Len(t, report.Added, 1)
	assert.Equal(t, store.TemplateCustom, findByTitle(t, s.All(), "Bare").Category)

	report, err = s.Import(strings.NewReader(`[{"title": "Bare", "category": "custom"}]`))
	require.NoError(t, err)
	assert.Empty(t, report.Added)
	assert.Len(t, report.Skipped, 1)
}

func TestTemplateStore_GetReturnsIndependentCopy(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	mine, err := s.Add(userTemplate("Mine", store.TemplateCustom, "a", "b"))
	require.NoError(t, err)

	got, err := s.Get(mine.ID)
	require.NoError(t, err)
	got.Items[0].Title = "changed"

	again, err := s.Get(mine.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, itemTitles(again.Items))
}

func TestTemplateStore_ImportRejectsMalformedPayload(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	count := len(s.All())

	_, err := s.Import(strings.NewReader(`{"title": "not an array"}`))

	assert.ErrorIs(t, err, store.ErrDecode)
	assert.Len(t, s.All(), count)
}

func TestTemplateStore_ExportOnlyUserTemplates(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	_, err := s.Add(userTemplate("Ski", store.TemplateCustom, "Goggles"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportUserTemplates(&buf))

	var exported []store.Template
	require.NoError(t, json.Unmarshal(buf.Bytes(), &exported))
	require.Len(t, exported, 1)
	assert.Equal(t, "Ski", exported[0].Title)

	// an export round-trips into a fresh store as user templates
	other := store.NewTemplateStore(t.TempDir())
	report, err := other.Import(&buf)
	require.NoError(t, err)
	assert.Len(t, report.Added, 1)
}

func TestTemplateStore_ExportWithNoUserTemplatesIsEmptyArray(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())

	var buf bytes.Buffer
	require.NoError(t, s.ExportUserTemplates(&buf))

	assert.JSONEq(t, "[]", buf.String())
}

func TestTemplateStore_ResetToDefaults(t *testing.T) {
	dir := t.TempDir()
	s := store.NewTemplateStore(dir)
	defaults := s.All()
	_, err := s.Add(userTemplate("Ski", store.TemplateCustom))
	require.NoError(t, err)
	_, err = s.Duplicate(defaults[0])
	require.NoError(t, err)

	require.NoError(t, s.ResetToDefaults())

	got := s.All()
	require.Len(t, got, len(defaults))
	for i := range got {
		assert.True(t, got[i].IsBuiltin)
		assert.Equal(t, defaults[i].Title, got[i].Title)
		assert.Equal(t, defaults[i].Category, got[i].Category)
		assert.Equal(t, itemTitles(defaults[i].Items), itemTitles(got[i].Items))
	}
	_, err = os.Stat(filepath.Join(dir, store.TemplatesFile))
	assert.True(t, os.IsNotExist(err))
}

func TestTemplateStore_MakeTrip(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	tpl := userTemplate("Conference", store.TemplateBusiness, "A", "B")
	tpl.Notes = "badge at desk 3"
	start := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	trip := s.MakeTrip(tpl, "Berlin summit", "Berlin", start, start.AddDate(0, 0, 2), nil)

	assert.NotEqual(t, uuid.Nil, trip.ID)
	assert.Equal(t, store.TripBusiness, trip.Category)
	assert.Equal(t, []string{"A", "B"}, itemTitles(trip.Checklist))
	assert.Equal(t, tpl.Items[0].ID, trip.Checklist[0].ID)
	assert.Equal(t, "badge at desk 3", trip.Notes)
	assert.False(t, trip.IsHidden)
	assert.Empty(t, trip.DailyNotes)

	// the checklist is a copy
	trip.Checklist[0].IsDone = true
	assert.False(t, tpl.Items[0].IsDone)
}

func TestTemplateStore_MakeTripCategoryMapping(t *testing.T) {
	s := store.NewTemplateStore(t.TempDir())
	start := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)

	cases := map[store.TemplateCategory]store.TripCategory{
		store.TemplateVacation:   store.TripVacation,
		store.TemplateBusiness:   store.TripBusiness,
		store.TemplateCitybreak:  store.TripEvent,
		store.TemplateHiking:     store.TripWeekend,
		store.TemplateEssentials: store.TripOther,
		store.TemplateCustom:     store.TripOther,
	}
	for in, want := range cases {
		trip := s.MakeTrip(userTemplate("x", in), "t", "l", start, start, nil)
		assert.Equal(t, want, trip.Category, "template category %s", in)
	}

	override := store.TripEvent
	trip := s.MakeTrip(userTemplate("x", store.TemplateHiking), "t", "l", start, start, &override)
	assert.Equal(t, store.TripEvent, trip.Category)
}
