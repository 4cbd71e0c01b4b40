package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"toproad/pkg/config"
	"toproad/pkg/keymaps"
	"toproad/pkg/passcode"
	"toproad/pkg/reminders"
	"toproad/pkg/store"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode              // new trip form
	EditMode             // edit trip form
	ItemAddMode          // new checklist item form
	NoteMode             // today's daily note
	TemplateUseMode      // trip-from-template form
	DeleteConfirmMode
	PinMode
	HelpViewMode
)

// View is the screen shown in NormalMode.
type View int

const (
	TripsView View = iota
	ChecklistView
	TemplatesView
	StatsView
)

type deleteTarget int

const (
	deleteNothing deleteTarget = iota
	deleteTrip
	deleteItem
	deleteTemplate
)

// Deps are the collaborators the UI drives.
type Deps struct {
	Trips     *store.TripStore
	Templates *store.TemplateStore
	Notifier  *reminders.Notifier
	Gate      *passcode.Gate
}

// Model represents the application state
type Model struct {
	table         table.Model
	deps          Deps
	width, height int
	err           error
	status        string
	now           func() time.Time

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap

	// View state
	view      View
	mode      InputMode
	trips     []store.Trip // as displayed, hidden trips masked
	rowTrips  []int        // table row -> index in trips, -1 for group headers
	templates []store.Template
	items     []store.ChecklistItem
	tripID    uuid.UUID // trip shown in ChecklistView

	// Form state
	inputs      []textinput.Model
	labels      []string
	activeInput int
	pinInput    textinput.Model

	// Edit/delete state
	editingID     uuid.UUID
	pendingDelete deleteTarget
	deleteID      uuid.UUID
	deleteLabel   string

	// Sorting, grouping and filtering state
	sortOrder      SortOrder
	groupBy        GroupBy
	categoryFilter int // index into store.TemplateCategories, -1 for all
}

// NewModel creates a new UI model with the provided configuration
func NewModel(deps Deps, cfg config.Config, styles config.Styles) Model {
	t := table.New(
		table.WithColumns(tripColumns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.BorderColor)).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s)

	pinInput := textinput.New()
	pinInput.Placeholder = "PIN"
	pinInput.EchoMode = textinput.EchoPassword
	pinInput.EchoCharacter = '*'
	pinInput.CharLimit = passcode.PINLength
	pinInput.Width = 10

	m := Model{
		table:          t,
		deps:           deps,
		now:            time.Now,
		config:         cfg,
		styles:         styles,
		keyMap:         keymaps.BuildKeyMap(cfg.KeyMap),
		view:           TripsView,
		mode:           NormalMode,
		pinInput:       pinInput,
		categoryFilter: -1,
	}

	m.refresh()
	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

func tripColumns() []table.Column {
	return []table.Column{
		{Title: "Trip", Width: 30},
		{Title: "Dates", Width: 25},
		{Title: "Category", Width: 10},
		{Title: "Checklist", Width: 12},
	}
}

func checklistColumns() []table.Column {
	return []table.Column{
		{Title: "", Width: 3},
		{Title: "Item", Width: 40},
		{Title: "Due", Width: 20},
	}
}

func templateColumns() []table.Column {
	return []table.Column{
		{Title: "Template", Width: 30},
		{Title: "Category", Width: 12},
		{Title: "Items", Width: 6},
		{Title: "Owner", Width: 8},
	}
}
