package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"toproad/pkg/store"
)

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		switch m.view {
		case TripsView:
			sb.WriteString(m.titleBar(" TopRoad - Trips ", m.styles.AccentColor))
			sb.WriteString("\n\n")
			sb.WriteString(m.table.View())
			sb.WriteString("\n")
			sb.WriteString(m.tripsInfo())

		case ChecklistView:
			sb.WriteString(m.renderChecklistHeader())
			sb.WriteString(m.table.View())
			sb.WriteString("\n")

		case TemplatesView:
			sb.WriteString(m.titleBar(" TopRoad - Templates ", m.styles.AccentColor))
			sb.WriteString("\n\n")
			sb.WriteString(m.table.View())
			sb.WriteString("\n")
			filter := "all categories"
			if m.categoryFilter >= 0 {
				filter = string(store.TemplateCategories[m.categoryFilter])
			}
			sb.WriteString(m.infoStyle().Render(fmt.Sprintf("Showing %d templates (%s)", len(m.templates), filter)))
			sb.WriteString("\n")

		case StatsView:
			sb.WriteString(m.titleBar(" TopRoad - Stats ", m.styles.AccentColor))
			sb.WriteString("\n\n")
			sb.WriteString(m.renderStats())
		}

	case AddMode:
		sb.WriteString(m.titleBar(" New Trip ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case EditMode:
		sb.WriteString(m.titleBar(" Edit Trip ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case ItemAddMode:
		sb.WriteString(m.titleBar(" New Checklist Item ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case NoteMode:
		sb.WriteString(m.titleBar(" Daily Note ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case TemplateUseMode:
		sb.WriteString(m.titleBar(" Trip From Template ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case DeleteConfirmMode:
		sb.WriteString(m.titleBar(" Delete ", m.styles.ErrorColor))
		sb.WriteString("\n\n")
		sb.WriteString(fmt.Sprintf("Are you sure you want to delete %q?\n\n", m.deleteLabel))
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))

	case PinMode:
		sb.WriteString(m.titleBar(" Unlock Hidden Trips ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString("Enter your PIN:\n\n")
		sb.WriteString(m.pinInput.View())

	case HelpViewMode:
		sb.WriteString(m.renderHelp())
	}

	if m.err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" && m.mode == NormalMode {
		sb.WriteString("\n")
		sb.WriteString(m.infoStyle().Render(m.status))
	}

	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) titleBar(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

func (m Model) infoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor))
}

func (m Model) tripsInfo() string {
	order := "earliest first"
	if m.sortOrder == SortDesc {
		order = "latest first"
	}
	info := fmt.Sprintf("Showing %d trips | %s", len(m.trips), order)
	if m.groupBy != GroupByNone {
		info += fmt.Sprintf(", grouped by %s", m.groupBy)
	}
	if m.deps.Gate != nil && m.deps.Gate.Locked() {
		info += " | hidden trips locked"
	}
	return m.infoStyle().Render(info) + "\n"
}

func (m Model) renderChecklistHeader() string {
	var sb strings.Builder

	trip, err := m.deps.Trips.Get(m.tripID)
	if err != nil {
		return ""
	}

	sb.WriteString(m.titleBar(" "+trip.Title+" ", m.styles.AccentColor))
	sb.WriteString("\n")
	where := trip.Location
	if where != "" {
		where += ", "
	}
	sb.WriteString(m.infoStyle().Render(fmt.Sprintf("%s%s to %s  %s",
		where, trip.StartDate.Format(dateLayout), trip.EndDate.Format(dateLayout), trip.Category)))
	sb.WriteString("\n")
	sb.WriteString(progressBar(trip.CompletionPercent(), 30, m.styles.AccentColor, m.styles.BorderColor))
	sb.WriteString(fmt.Sprintf(" %d/%d done\n", trip.DoneCount(), len(trip.Checklist)))
	if trip.Notes != "" {
		sb.WriteString(trip.Notes)
		sb.WriteString("\n")
	}
	if note := trip.DailyNoteFor(m.now()); note != "" {
		sb.WriteString(lipgloss.NewStyle().Italic(true).Render("Today: " + note))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderStats() string {
	var sb strings.Builder
	st := m.deps.Trips.Stats()

	label := lipgloss.NewStyle().Bold(true).Width(22)
	sb.WriteString(label.Render("Trips") + fmt.Sprint(st.TotalTrips) + "\n")
	sb.WriteString(label.Render("Upcoming") + fmt.Sprint(st.UpcomingTrips) + "\n")
	sb.WriteString(label.Render("Completed") + fmt.Sprint(st.CompletedTrips) + "\n")

	ratio := 0.0
	if st.TotalChecklistItems > 0 {
		ratio = float64(st.DoneChecklistItems) / float64(st.TotalChecklistItems)
	}
	sb.WriteString(label.Render("Checklist items done"))
	sb.WriteString(progressBar(ratio, 20, m.styles.AccentColor, m.styles.BorderColor))
	sb.WriteString(fmt.Sprintf(" %d/%d\n\n", st.DoneChecklistItems, st.TotalChecklistItems))

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("By category"))
	sb.WriteString("\n")
	for _, c := range store.TripCategories {
		n := st.ByCategory[c]
		bar := strings.Repeat("█", n)
		sb.WriteString(fmt.Sprintf("%-10s %s %d\n", c, m.categoryStyle(c).Render(bar), n))
	}
	return sb.String()
}

func progressBar(ratio float64, width int, fill, empty string) string {
	done := int(ratio * float64(width))
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fill)).Render(strings.Repeat("█", done)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(empty)).Render(strings.Repeat("░", width-done))
}

func (m Model) renderHelp() string {
	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
	sb.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))

	addCommand := func(binding key.Binding) {
		sb.WriteString(fmt.Sprintf("%s: %s\n",
			descStyle.Render(binding.Help().Desc),
			keyStyle.Render(binding.Help().Key)))
	}
	section := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
		sb.WriteString("\n\n")
	}

	addCommand(m.keyMap.QuitApp)
	addCommand(m.keyMap.ShowHelp)
	addCommand(m.keyMap.NextView)
	addCommand(m.keyMap.Back)
	addCommand(m.keyMap.Unlock)
	addCommand(m.keyMap.Lock)

	section("Trips")
	addCommand(m.keyMap.AddTrip)
	addCommand(m.keyMap.EditTrip)
	addCommand(m.keyMap.DeleteTrip)
	addCommand(m.keyMap.OpenTrip)
	addCommand(m.keyMap.ToggleHidden)
	addCommand(m.keyMap.ToggleGroupBy)
	addCommand(m.keyMap.ToggleSortOrder)

	section("Checklist")
	addCommand(m.keyMap.ToggleItem)
	addCommand(m.keyMap.EditNote)

	section("Templates")
	addCommand(m.keyMap.UseTemplate)
	addCommand(m.keyMap.DuplicateTemplate)
	addCommand(m.keyMap.FilterCategory)

	return sb.String()
}

// helpBar renders the status bar with the actions of the current screen
func (m Model) helpBar() string {
	var actions []string

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.BorderColor)).
		Render(" • ")

	addAction := func(b key.Binding, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(b.Help().Key), descStyle.Render(desc)))
	}
	addRaw := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}

	switch m.mode {
	case NormalMode:
		switch m.view {
		case TripsView:
			addAction(m.keyMap.AddTrip, "add")
			addAction(m.keyMap.EditTrip, "edit")
			addAction(m.keyMap.DeleteTrip, "del")
			addAction(m.keyMap.OpenTrip, "open")
			addAction(m.keyMap.ToggleHidden, "hide")
			addAction(m.keyMap.ToggleGroupBy, "group")
		case ChecklistView:
			addAction(m.keyMap.AddTrip, "add item")
			addAction(m.keyMap.ToggleItem, "toggle")
			addAction(m.keyMap.DeleteTrip, "del")
			addAction(m.keyMap.EditNote, "note")
			addAction(m.keyMap.Back, "back")
		case TemplatesView:
			addAction(m.keyMap.UseTemplate, "use")
			addAction(m.keyMap.DuplicateTemplate, "duplicate")
			addAction(m.keyMap.DeleteTrip, "del")
			addAction(m.keyMap.FilterCategory, "filter")
		}
		if m.deps.Gate != nil && m.deps.Gate.Locked() {
			addAction(m.keyMap.Unlock, "unlock")
		}
		addAction(m.keyMap.NextView, "view")
		addAction(m.keyMap.ShowHelp, "help")
		addAction(m.keyMap.QuitApp, "quit")

	case AddMode, EditMode, ItemAddMode, NoteMode, TemplateUseMode:
		addRaw("tab", "next field")
		addRaw("enter", "save")
		addRaw("esc", "cancel")

	case DeleteConfirmMode:
		addRaw("y", "confirm")
		addRaw("n", "cancel")

	case PinMode:
		addRaw("enter", "unlock")
		addRaw("esc", "cancel")

	case HelpViewMode:
		addAction(m.keyMap.ShowHelp, "back")
		addAction(m.keyMap.QuitApp, "quit")
	}

	return strings.Join(actions, separator)
}

// renderForm renders the active form's inputs
func (m Model) renderForm() string {
	var sb strings.Builder
	for i, in := range m.inputs {
		sb.WriteString(m.labels[i] + ":\n")
		sb.WriteString(in.View())
		if i < len(m.inputs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
