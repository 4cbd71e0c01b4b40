package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"toproad/pkg/store"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			if key.Matches(msg, m.keyMap.QuitApp) {
				return m, tea.Quit
			}
			if m.handleNormalKey(msg) {
				return m, nil
			}

		case AddMode, EditMode, ItemAddMode, NoteMode, TemplateUseMode:
			switch msg.String() {
			case "esc":
				m.closeForm()
			case "tab":
				m.focusNextInput()
			case "shift+tab":
				m.focusPreviousInput()
			case "enter":
				if m.activeInput == len(m.inputs)-1 {
					m.submitForm()
				} else {
					m.focusNextInput()
				}
			default:
				m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)

		case PinMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.pinInput.Blur()
			case "enter":
				if err := m.deps.Gate.Unlock(m.pinInput.Value()); err != nil {
					m.err = err
					m.pinInput.Reset()
					return m, nil
				}
				m.err = nil
				m.status = "Hidden trips unlocked"
				m.mode = NormalMode
				m.pinInput.Blur()
				m.refresh()
			default:
				m.pinInput, cmd = m.pinInput.Update(msg)
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)

		case DeleteConfirmMode:
			switch msg.String() {
			case "y", "Y":
				m.confirmDelete()
			case "n", "N", "esc":
				m.cancelDelete()
			}
			return m, nil

		case HelpViewMode:
			switch {
			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit
			case key.Matches(msg, m.keyMap.ShowHelp), key.Matches(msg, m.keyMap.Back):
				m.mode = NormalMode
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(max(msg.Height-10, 3))
	}

	// Only update table in normal mode
	if m.mode == NormalMode && m.view != StatsView {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleNormalKey runs the action bound to msg in the current view. It
// reports whether the key was consumed.
func (m *Model) handleNormalKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keyMap.ShowHelp):
		m.mode = HelpViewMode
		return true

	case key.Matches(msg, m.keyMap.NextView):
		m.status, m.err = "", nil
		switch m.view {
		case TripsView, ChecklistView:
			m.view = TemplatesView
		case TemplatesView:
			m.view = StatsView
		case StatsView:
			m.view = TripsView
		}
		m.refresh()
		return true

	case key.Matches(msg, m.keyMap.Unlock):
		if m.deps.Gate != nil && m.deps.Gate.Locked() {
			m.openPin()
		}
		return true

	case key.Matches(msg, m.keyMap.Lock):
		if m.deps.Gate != nil {
			m.deps.Gate.Lock()
			if m.view == ChecklistView {
				m.view = TripsView
			}
			m.refresh()
		}
		return true
	}

	switch m.view {
	case TripsView:
		return m.handleTripsKey(msg)
	case ChecklistView:
		return m.handleChecklistKey(msg)
	case TemplatesView:
		return m.handleTemplatesKey(msg)
	case StatsView:
		if key.Matches(msg, m.keyMap.Back) {
			m.view = TripsView
			m.refresh()
			return true
		}
	}
	return false
}

func (m *Model) handleTripsKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keyMap.AddTrip):
		today := m.now().Format(dateLayout)
		m.openForm(AddMode, tripFormLabels, []string{"", "", today, today, string(store.TripOther)})

	case key.Matches(msg, m.keyMap.EditTrip):
		trip, ok := m.selectedTrip()
		if !ok || !m.accessible(trip) {
			return true
		}
		m.openForm(EditMode, tripFormLabels, []string{
			trip.Title, trip.Location,
			trip.StartDate.Format(dateLayout), trip.EndDate.Format(dateLayout),
			string(trip.Category),
		})
		m.editingID = trip.ID

	case key.Matches(msg, m.keyMap.DeleteTrip):
		trip, ok := m.selectedTrip()
		if !ok || !m.accessible(trip) {
			return true
		}
		m.askDelete(deleteTrip, trip.ID, trip.Title)

	case key.Matches(msg, m.keyMap.OpenTrip):
		trip, ok := m.selectedTrip()
		if !ok || !m.accessible(trip) {
			return true
		}
		m.tripID = trip.ID
		m.view = ChecklistView
		m.table.SetCursor(0)
		m.refresh()

	case key.Matches(msg, m.keyMap.ToggleHidden):
		trip, ok := m.selectedTrip()
		if !ok || !m.accessible(trip) {
			return true
		}
		trip.IsHidden = !trip.IsHidden
		m.applyChange(m.deps.Trips.Update(trip))
		if trip.IsHidden && (m.deps.Gate == nil || !m.deps.Gate.Locked()) {
			m.status = fmt.Sprintf("%q is hidden; it is masked while the PIN lock is on", trip.Title)
		}
		m.refresh()

	case key.Matches(msg, m.keyMap.ToggleGroupBy):
		m.groupBy = (m.groupBy + 1) % groupByCount
		m.refresh()

	case key.Matches(msg, m.keyMap.ToggleSortOrder):
		if m.sortOrder == SortAsc {
			m.sortOrder = SortDesc
		} else {
			m.sortOrder = SortAsc
		}
		m.refresh()

	default:
		return false
	}
	return true
}

func (m *Model) handleChecklistKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.view = TripsView
		m.refresh()

	case key.Matches(msg, m.keyMap.AddTrip):
		m.openForm(ItemAddMode, []string{"Item", "Due date (YYYY-MM-DD, optional)"}, nil)

	case key.Matches(msg, m.keyMap.ToggleItem), msg.Type == tea.KeySpace:
		item, ok := m.selectedItem()
		if !ok {
			return true
		}
		trip, err := m.deps.Trips.Get(m.tripID)
		if err != nil {
			m.err = err
			return true
		}
		trip.ToggleItem(item.ID)
		m.applyChange(m.deps.Trips.Update(trip))
		m.refresh()

	case key.Matches(msg, m.keyMap.DeleteTrip):
		item, ok := m.selectedItem()
		if ok {
			m.askDelete(deleteItem, item.ID, item.Title)
		}

	case key.Matches(msg, m.keyMap.EditNote):
		trip, err := m.deps.Trips.Get(m.tripID)
		if err != nil {
			m.err = err
			return true
		}
		m.openForm(NoteMode, []string{"Note for today"}, []string{trip.DailyNoteFor(m.now())})

	default:
		return false
	}
	return true
}

func (m *Model) handleTemplatesKey(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keyMap.Back):
		m.view = TripsView
		m.refresh()

	case key.Matches(msg, m.keyMap.UseTemplate), key.Matches(msg, m.keyMap.OpenTrip):
		tpl, ok := m.selectedTemplate()
		if !ok {
			return true
		}
		today := m.now().Format(dateLayout)
		m.openForm(TemplateUseMode, []string{"Title", "Location", "Start (YYYY-MM-DD)", "End (YYYY-MM-DD)"},
			[]string{tpl.Title, "", today, today})
		m.editingID = tpl.ID

	case key.Matches(msg, m.keyMap.DuplicateTemplate):
		tpl, ok := m.selectedTemplate()
		if !ok {
			return true
		}
		dup, err := m.deps.Templates.Duplicate(tpl)
		if err != nil {
			m.err = err
			return true
		}
		m.status = fmt.Sprintf("Created %q", dup.Title)
		m.refresh()

	case key.Matches(msg, m.keyMap.DeleteTrip):
		tpl, ok := m.selectedTemplate()
		if !ok {
			return true
		}
		if tpl.IsBuiltin {
			m.err = errors.New("built-in templates cannot be deleted")
			return true
		}
		m.askDelete(deleteTemplate, tpl.ID, tpl.Title)

	case key.Matches(msg, m.keyMap.FilterCategory):
		m.categoryFilter++
		if m.categoryFilter >= len(store.TemplateCategories) {
			m.categoryFilter = -1
		}
		m.table.SetCursor(0)
		m.refresh()

	default:
		return false
	}
	return true
}

var tripFormLabels = []string{"Title", "Location", "Start (YYYY-MM-DD)", "End (YYYY-MM-DD)", "Category"}
