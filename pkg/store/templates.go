package store

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TemplatesFile is the file name of the user template collection inside the data directory.
const TemplatesFile = "templates.json"

// bundledName is the resource holding the built-in templates.
const bundledName = "default_templates.json"

//go:embed default_templates.json
var bundled embed.FS

// ImportReport lists what an import accepted and what it dropped because a
// template with the same title and category already existed.
type ImportReport struct {
	Added   []Template
	Skipped []Template
}

// TemplateStore owns the built-in and user templates as one list. Only the
// user templates are written to disk.
type TemplateStore struct {
	templates []Template
	file      *Collection[Template]
	bundle    fs.FS
	copyTitle func(string) string
}

// TemplateStoreOption configures a TemplateStore
type TemplateStoreOption func(*TemplateStore)

// WithBundle replaces the embedded default template resource.
func WithBundle(fsys fs.FS) TemplateStoreOption {
	return func(s *TemplateStore) {
		s.bundle = fsys
	}
}

// WithCopyTitle sets the title transform used by Duplicate.
func WithCopyTitle(fn func(string) string) TemplateStoreOption {
	return func(s *TemplateStore) {
		s.copyTitle = fn
	}
}

// NewTemplateStore loads the built-in templates and the user templates from
// dir/templates.json.
func NewTemplateStore(dir string, opts ...TemplateStoreOption) *TemplateStore {
	s := &TemplateStore{
		file:   NewCollection[Template](filepath.Join(dir, TemplatesFile)),
		bundle: bundled,
		copyTitle: func(title string) string {
			return fmt.Sprintf("Copy of %s", title)
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.load()
	return s
}

// All returns every template sorted by title, ignoring case.
func (s *TemplateStore) All() []Template {
	return s.List(nil)
}

// List returns the templates in category, or all of them when category is
// nil, sorted by title ignoring case.
func (s *TemplateStore) List(category *TemplateCategory) []Template {
	out := make([]Template, 0, len(s.templates))
	for _, t := range s.templates {
		if category == nil || t.Category == *category {
			out = append(out, t.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

// Get returns the template with the given id.
func (s *TemplateStore) Get(id uuid.UUID) (Template, error) {
	if i := s.indexOf(id); i >= 0 {
		return s.templates[i].Clone(), nil
	}
	return Template{}, fmt.Errorf("template %s: %w", id, ErrNotFound)
}

// Add stores t as a new user template and returns the stored copy.
func (s *TemplateStore) Add(t Template) (Template, error) {
	t = t.Clone()
	t.ID = uuid.New()
	t.IsBuiltin = false
	s.templates = append(s.templates, t)
	slog.Info("Template added", "template_id", t.ID, "title", t.Title)
	return t, s.saveUser()
}

// Update replaces the template with the same id and reports whether one was
// found. Edits to a built-in template last only until the next reload.
func (s *TemplateStore) Update(t Template) (bool, error) {
	i := s.indexOf(t.ID)
	if i < 0 {
		return false, nil
	}
	s.templates[i] = t.Clone()
	slog.Info("Template updated", "template_id", t.ID)
	return true, s.saveUser()
}

// Remove deletes a user template. Built-in templates are left in place.
func (s *TemplateStore) Remove(t Template) error {
	if t.IsBuiltin {
		slog.Debug("Refusing to remove built-in template", "template_id", t.ID)
		return nil
	}
	if i := s.indexOf(t.ID); i >= 0 {
		s.templates = append(s.templates[:i], s.templates[i+1:]...)
		slog.Info("Template removed", "template_id", t.ID)
	}
	return s.saveUser()
}

// Duplicate stores a user-owned copy of t under a "copy of" title.
func (s *TemplateStore) Duplicate(t Template) (Template, error) {
	dup := t.Clone()
	dup.ID = uuid.New()
	dup.IsBuiltin = false
	dup.Title = s.copyTitle(t.Title)
	s.templates = append(s.templates, dup)
	slog.Info("Template duplicated", "source_id", t.ID, "template_id", dup.ID)
	return dup, s.saveUser()
}

// Import merges templates decoded from r. A template whose title and
// category match an existing one, built-in or not, is skipped and listed in
// the report. Accepted templates become user templates. A missing category
// becomes custom, and ids that are missing or already taken are replaced.
func (s *TemplateStore) Import(r io.Reader) (ImportReport, error) {
	var incoming []Template
	if err := json.NewDecoder(r).Decode(&incoming); err != nil {
		return ImportReport{}, fmt.Errorf("store.TemplateStore.Import: %w: %v", ErrDecode, err)
	}

	seen := make(map[string]bool, len(s.templates)+len(incoming))
	for _, t := range s.templates {
		seen[mergeKey(t)] = true
	}

	var report ImportReport
	for _, t := range incoming {
		t.IsBuiltin = false
		if t.Category == "" {
			t.Category = TemplateCustom
		}
		if t.ID == uuid.Nil || s.indexOf(t.ID) >= 0 {
			t.ID = uuid.New()
		}
		assignItemIDs(t.Items)
		k := mergeKey(t)
		if seen[k] {
			report.Skipped = append(report.Skipped, t)
			continue
		}
		seen[k] = true
		s.templates = append(s.templates, t)
		report.Added = append(report.Added, t)
	}

	slog.Info("Templates imported", "added", len(report.Added), "skipped", len(report.Skipped))
	return report, s.saveUser()
}

// ExportUserTemplates writes the user templates to w as a JSON array.
func (s *TemplateStore) ExportUserTemplates(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.userTemplates()); err != nil {
		return fmt.Errorf("store.TemplateStore.ExportUserTemplates: %w", err)
	}
	return nil
}

// ResetToDefaults deletes the user template file and reloads, leaving only
// the built-in templates.
func (s *TemplateStore) ResetToDefaults() error {
	err := s.file.Remove()
	s.load()
	slog.Info("Templates reset to defaults", "templates", len(s.templates))
	return err
}

// MakeTrip builds a new trip from template t. The checklist is a copy of
// the template items with their ids kept. category overrides the mapped
// trip category when non-nil.
func (s *TemplateStore) MakeTrip(t Template, title, location string, start, end time.Time, category *TripCategory) Trip {
	trip := NewTrip(title, location, start, end, TripCategoryFor(t.Category))
	if category != nil {
		trip.Category = *category
	}
	trip.Notes = t.Notes
	trip.Checklist = cloneItems(t.Items)
	return trip
}

func (s *TemplateStore) load() {
	builtin := s.loadBundled()
	user := s.file.Load()
	for i := range user {
		user[i].IsBuiltin = false
		if user[i].Category == "" {
			user[i].Category = TemplateCustom
		}
	}

	s.templates = make([]Template, 0, len(builtin)+len(user))
	s.templates = append(s.templates, builtin...)
	s.templates = append(s.templates, user...)
	slog.Info("Template store ready", "builtin", len(builtin), "user", len(user))
}

// loadBundled reads the built-in templates, falling back to the hardcoded
// set when the resource is missing or unreadable.
func (s *TemplateStore) loadBundled() []Template {
	var decoded []Template
	data, err := fs.ReadFile(s.bundle, bundledName)
	if err == nil {
		err = json.Unmarshal(data, &decoded)
	}
	if err != nil || len(decoded) == 0 {
		slog.Warn("Bundled templates unavailable, using fallback", "error", err)
		decoded = fallbackTemplates()
	}

	for i := range decoded {
		decoded[i].IsBuiltin = true
		if decoded[i].ID == uuid.Nil {
			decoded[i].ID = uuid.New()
		}
		assignItemIDs(decoded[i].Items)
	}
	return decoded
}

// assignItemIDs gives every item with a missing or repeated id a fresh one.
func assignItemIDs(items []ChecklistItem) {
	seen := make(map[uuid.UUID]bool, len(items))
	for i := range items {
		if items[i].ID == uuid.Nil || seen[items[i].ID] {
			items[i].ID = uuid.New()
		}
		seen[items[i].ID] = true
	}
}

func (s *TemplateStore) userTemplates() []Template {
	user := make([]Template, 0, len(s.templates))
	for _, t := range s.templates {
		if !t.IsBuiltin {
			user = append(user, t)
		}
	}
	return user
}

func (s *TemplateStore) saveUser() error {
	if err := s.file.Save(s.userTemplates()); err != nil {
		return fmt.Errorf("store.TemplateStore: %w", err)
	}
	return nil
}

func (s *TemplateStore) indexOf(id uuid.UUID) int {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return i
		}
	}
	return -1
}

func mergeKey(t Template) string {
	return t.Title + "|" + string(t.Category)
}

func fallbackTemplates() []Template {
	build := func(title string, cat TemplateCategory, items ...string) Template {
		t := Template{ID: uuid.New(), Title: title, Category: cat, Items: make([]ChecklistItem, 0, len(items))}
		for _, item := range items {
			t.Items = append(t.Items, NewChecklistItem(item))
		}
		return t
	}
	return []Template{
		build("Essentials", TemplateEssentials, "Passport", "Tickets / Boarding pass", "Phone charger", "Toothbrush"),
		build("Vacation Starter", TemplateVacation, "Sunscreen", "Swimwear", "Sunglasses", "Hat"),
		build("Business Trip", TemplateBusiness, "Laptop", "Charger", "Presentation deck", "Business cards"),
		build("Hiking Weekend", TemplateHiking, "Hiking boots", "Water bottle", "Rain jacket", "First aid kit"),
	}
}
