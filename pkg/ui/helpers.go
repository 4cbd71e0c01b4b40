package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"toproad/pkg/store"
	"toproad/pkg/utils"
)

const dateLayout = "2006-01-02"

// refresh reloads the rows of the current view
func (m *Model) refresh() {
	switch m.view {
	case TripsView:
		m.loadTrips()
	case ChecklistView:
		m.loadChecklist()
	case TemplatesView:
		m.loadTemplates()
	}
}

// setTable swaps columns and rows. Rows are cleared first so the table never
// renders rows narrower than its columns.
func (m *Model) setTable(cols []table.Column, rows []table.Row) {
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Model) loadTrips() {
	now := m.now()
	m.trips = m.trips[:0]
	for _, trip := range m.deps.Trips.All() {
		if m.deps.Gate != nil {
			trip = m.deps.Gate.Mask(trip)
		}
		m.trips = append(m.trips, trip)
	}

	var rows []table.Row
	m.rowTrips = m.rowTrips[:0]
	index := make(map[uuid.UUID]int, len(m.trips))
	for i, trip := range m.trips {
		index[trip.ID] = i
	}

	for _, group := range m.GroupTrips(m.trips, now) {
		if m.groupBy != GroupByNone {
			rows = append(rows, table.Row{
				lipgloss.NewStyle().
					Bold(true).
					Foreground(lipgloss.Color(m.styles.AccentColor)).
					Render(fmt.Sprintf("== %s ==", group.GroupName)),
				"", "", "",
			})
			m.rowTrips = append(m.rowTrips, -1)
		}
		for _, trip := range group.Trips {
			rows = append(rows, m.tripRow(trip, now))
			m.rowTrips = append(m.rowTrips, index[trip.ID])
		}
	}

	m.setTable(tripColumns(), rows)
}

func (m *Model) tripRow(trip store.Trip, now time.Time) table.Row {
	title := trip.Title
	if trip.IsHidden {
		title = "* " + title
	}
	if trip.Location != "" {
		title += " (" + trip.Location + ")"
	}
	if !trip.IsUpcoming(now) {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.MutedColor)).Render(title)
	}

	progress := "-"
	if n := len(trip.Checklist); n > 0 {
		progress = fmt.Sprintf("%d/%d %3.0f%%", trip.DoneCount(), n, trip.CompletionPercent()*100)
	}

	return table.Row{
		title,
		trip.StartDate.Format(dateLayout) + " - " + trip.EndDate.Format(dateLayout),
		m.categoryStyle(trip.Category).Render(string(trip.Category)),
		progress,
	}
}

func (m *Model) loadChecklist() {
	trip, err := m.deps.Trips.Get(m.tripID)
	if err != nil {
		m.err = err
		m.view = TripsView
		m.loadTrips()
		return
	}

	now := m.now()
	m.items = trip.Checklist
	rows := make([]table.Row, 0, len(m.items))
	for _, item := range m.items {
		mark := "[ ]"
		if item.IsDone {
			mark = "[x]"
		}
		due := ""
		if item.DueDate != nil {
			due = item.DueDate.Format(dateLayout)
			if item.IsOverdue(now) {
				due = lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.OverdueColor)).Render(due + " overdue")
			}
		}
		rows = append(rows, table.Row{mark, item.Title, due})
	}
	m.setTable(checklistColumns(), rows)
}

func (m *Model) loadTemplates() {
	var filter *store.TemplateCategory
	if m.categoryFilter >= 0 {
		filter = &store.TemplateCategories[m.categoryFilter]
	}
	m.templates = m.deps.Templates.List(filter)

	rows := make([]table.Row, 0, len(m.templates))
	for _, t := range m.templates {
		title := t.Title
		if t.Emoji != nil {
			title = *t.Emoji + " " + title
		}
		owner := "yours"
		if t.IsBuiltin {
			owner = "built-in"
		}
		rows = append(rows, table.Row{title, string(t.Category), fmt.Sprint(len(t.Items)), owner})
	}
	m.setTable(templateColumns(), rows)
}

// selectedTrip returns the unmasked trip under the cursor.
func (m *Model) selectedTrip() (store.Trip, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rowTrips) || m.rowTrips[c] < 0 {
		return store.Trip{}, false
	}
	trip, err := m.deps.Trips.Get(m.trips[m.rowTrips[c]].ID)
	if err != nil {
		m.err = err
		return store.Trip{}, false
	}
	return trip, true
}

// accessible reports whether trip may be opened, asking for the PIN if not.
func (m *Model) accessible(trip store.Trip) bool {
	if !trip.IsHidden || m.deps.Gate == nil || !m.deps.Gate.Locked() {
		return true
	}
	m.openPin()
	return false
}

func (m *Model) selectedItem() (store.ChecklistItem, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.items) {
		return store.ChecklistItem{}, false
	}
	return m.items[c], true
}

func (m *Model) selectedTemplate() (store.Template, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.templates) {
		return store.Template{}, false
	}
	return m.templates[c], true
}

// applyChange reports a trip mutation to the reminder notifier and records
// any save error.
func (m *Model) applyChange(change store.TripChange, err error) {
	if m.deps.Notifier != nil && change.Kind != store.ChangeNone {
		m.deps.Notifier.Apply(context.Background(), change)
	}
	if err != nil {
		utils.Log("Saving trips failed: %v", err)
		m.err = err
	}
}

// openForm switches to mode with one text input per label.
func (m *Model) openForm(mode InputMode, labels []string, values []string) {
	m.mode = mode
	m.err = nil
	m.labels = labels
	m.inputs = make([]textinput.Model, len(labels))
	for i := range labels {
		in := textinput.New()
		in.Width = 40
		in.Placeholder = labels[i]
		if i < len(values) {
			in.SetValue(values[i])
		}
		m.inputs[i] = in
	}
	m.activeInput = 0
	m.inputs[0].Focus()
}

func (m *Model) closeForm() {
	m.mode = NormalMode
	m.inputs = nil
	m.labels = nil
	m.activeInput = 0
	m.editingID = uuid.Nil
}

func (m *Model) openPin() {
	m.mode = PinMode
	m.pinInput.Reset()
	m.pinInput.Focus()
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	m.focusInput((m.activeInput + 1) % len(m.inputs))
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	m.focusInput((m.activeInput - 1 + len(m.inputs)) % len(m.inputs))
}

func (m *Model) focusInput(i int) {
	m.inputs[m.activeInput].Blur()
	m.activeInput = i
	m.inputs[i].Focus()
}

func (m *Model) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

// submitForm processes the form data based on the current mode
func (m *Model) submitForm() {
	var err error
	switch m.mode {
	case AddMode, EditMode:
		err = m.submitTrip()
	case ItemAddMode:
		err = m.submitItem()
	case NoteMode:
		err = m.submitNote()
	case TemplateUseMode:
		err = m.submitTemplateUse()
	}
	if err != nil {
		// keep the form open so the input can be fixed
		m.err = err
		return
	}
	m.closeForm()
	m.refresh()
}

func (m *Model) submitTrip() error {
	start, err := parseDate(m.value(2))
	if err != nil {
		return err
	}
	end := start
	if m.value(3) != "" {
		if end, err = parseDate(m.value(3)); err != nil {
			return err
		}
	}
	category := store.TripOther
	if m.value(4) != "" {
		if category, err = store.ParseTripCategory(m.value(4)); err != nil {
			return err
		}
	}

	if m.mode == AddMode {
		trip := store.NewTrip(m.value(0), m.value(1), start, end, category)
		if err := store.ValidateTrip(trip); err != nil {
			return err
		}
		m.applyChange(m.deps.Trips.Add(trip))
		m.status = fmt.Sprintf("Added %q", trip.Title)
		return nil
	}

	trip, err := m.deps.Trips.Get(m.editingID)
	if err != nil {
		return err
	}
	trip.Title, trip.Location = m.value(0), m.value(1)
	trip.StartDate, trip.EndDate, trip.Category = start, end, category
	if err := store.ValidateTrip(trip); err != nil {
		return err
	}
	m.applyChange(m.deps.Trips.Update(trip))
	return nil
}

func (m *Model) submitItem() error {
	title := m.value(0)
	if title == "" {
		return fmt.Errorf("%w: item title is empty", store.ErrValidation)
	}
	var due *time.Time
	if m.value(1) != "" {
		d, err := parseDate(m.value(1))
		if err != nil {
			return err
		}
		due = &d
	}

	trip, err := m.deps.Trips.Get(m.tripID)
	if err != nil {
		return err
	}
	trip.AddChecklistItem(title, due)
	m.applyChange(m.deps.Trips.Update(trip))
	return nil
}

func (m *Model) submitNote() error {
	trip, err := m.deps.Trips.Get(m.tripID)
	if err != nil {
		return err
	}
	trip.SetDailyNote(m.now(), m.inputs[0].Value())
	m.applyChange(m.deps.Trips.Update(trip))
	return nil
}

func (m *Model) submitTemplateUse() error {
	tpl, err := m.deps.Templates.Get(m.editingID)
	if err != nil {
		return err
	}
	start, err := parseDate(m.value(2))
	if err != nil {
		return err
	}
	end := start
	if m.value(3) != "" {
		if end, err = parseDate(m.value(3)); err != nil {
			return err
		}
	}

	trip := m.deps.Templates.MakeTrip(tpl, m.value(0), m.value(1), start, end, nil)
	if err := store.ValidateTrip(trip); err != nil {
		return err
	}
	m.applyChange(m.deps.Trips.Add(trip))
	m.status = fmt.Sprintf("Created %q from %s", trip.Title, tpl.Title)
	m.view = TripsView
	return nil
}

// confirmDelete removes whatever the confirmation dialog was opened for
func (m *Model) confirmDelete() {
	switch m.pendingDelete {
	case deleteTrip:
		trip, err := m.deps.Trips.Get(m.deleteID)
		if err == nil {
			utils.Log("Deleting trip ID: %s", trip.ID)
			m.applyChange(m.deps.Trips.Remove(trip))
		}
	case deleteItem:
		trip, err := m.deps.Trips.Get(m.tripID)
		if err == nil && trip.RemoveChecklistItem(m.deleteID) {
			m.applyChange(m.deps.Trips.Update(trip))
		}
	case deleteTemplate:
		tpl, err := m.deps.Templates.Get(m.deleteID)
		if err == nil {
			if err := m.deps.Templates.Remove(tpl); err != nil {
				m.err = err
			}
		}
	}
	m.cancelDelete()
	m.refresh()
}

func (m *Model) cancelDelete() {
	m.mode = NormalMode
	m.pendingDelete = deleteNothing
	m.deleteID = uuid.Nil
	m.deleteLabel = ""
}

func (m *Model) askDelete(target deleteTarget, id uuid.UUID, label string) {
	m.mode = DeleteConfirmMode
	m.pendingDelete = target
	m.deleteID = id
	m.deleteLabel = label
}

func (m *Model) categoryStyle(c store.TripCategory) lipgloss.Style {
	color, ok := m.styles.CategoryColors[string(c)]
	if !ok {
		color = m.styles.NormalTextColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: use YYYY-MM-DD")
	}
	return t, nil
}
