// internal/tui/app.go
//
// The planning grid TUI. It follows The Elm Architecture via bubbletea:
// the App model holds all state, Update reacts to messages, View renders.
// Every data refresh rebuilds the snapshot, groups and cells from scratch;
// nothing derived is patched incrementally.

package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tmarchal/planboard/internal/calendar"
	"github.com/tmarchal/planboard/internal/config"
	"github.com/tmarchal/planboard/internal/journal"
	"github.com/tmarchal/planboard/internal/logging"
	"github.com/tmarchal/planboard/internal/model"
	"github.com/tmarchal/planboard/internal/plan/grid"
	"github.com/tmarchal/planboard/internal/plan/holiday"
	"github.com/tmarchal/planboard/internal/plan/reassign"
	"github.com/tmarchal/planboard/internal/plan/roster"
	"github.com/tmarchal/planboard/internal/plan/timeline"
	"github.com/tmarchal/planboard/internal/store"
)

// appState represents which screen we're on.
type appState int

const (
	stateGrid     appState = iota // the per-user-per-day planning grid
	stateTimeline                 // the Gantt-style timeline
)

// gridDays is the number of day columns the grid shows at once.
const gridDays = 14

// keyMap declares the bindings shown in the help bar.
type keyMap struct {
	Move     key.Binding
	PickDrop key.Binding
	Cancel   key.Binding
	Telework key.Binding
	Shift    key.Binding
	Zoom     key.Binding
	Switch   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.PickDrop, k.Telework, k.Shift, k.Switch, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.PickDrop, k.Cancel, k.Telework},
		{k.Shift, k.Zoom, k.Switch, k.Refresh, k.Quit},
	}
}

var defaultKeys = keyMap{
	Move:     key.NewBinding(key.WithKeys("up", "down", "left", "right", "h", "j", "k", "l"), key.WithHelp("↑↓←→", "move")),
	PickDrop: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "pick up / drop")),
	Cancel:   key.NewBinding(key.WithKeys("esc", "x"), key.WithHelp("esc", "cancel drag")),
	Telework: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle telework")),
	Shift:    key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[ ]", "shift window")),
	Zoom:     key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+ -", "zoom timeline")),
	Switch:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "grid/timeline")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// userRow is one selectable grid row: a user inside its display group.
type userRow struct {
	group int // index into groups
	user  model.User
}

// refreshMsg carries a freshly loaded snapshot.
type refreshMsg struct {
	groups   []roster.ServiceGroup
	snapshot *grid.Snapshot
	err      error
}

// opDoneMsg reports a completed mutation (drop or telework toggle).
type opDoneMsg struct {
	status string
	err    error
}

// App is the main application model; it holds ALL the TUI state.
type App struct {
	state  appState
	cfg    *config.Config
	store  *store.SQLite
	logger *logging.Logger
	book   *journal.Journal

	resolver *roster.Resolver
	engine   *reassign.Engine

	// Grid window and cursor.
	gridStart calendar.Day
	cursorRow int
	cursorCol int

	// Timeline window.
	window timeline.Window

	// Derived display state, rebuilt on every refresh.
	groups   []roster.ServiceGroup
	rows     []userRow
	snapshot *grid.Snapshot

	drag reassign.Session

	keys      keyMap
	help      help.Model
	statusMsg string
	err       error

	width  int
	height int
}

// NewApp builds the application model around its collaborators.
func NewApp(cfg *config.Config, st *store.SQLite, logger *logging.Logger, book *journal.Journal) *App {
	today := calendar.Today()
	resolver := roster.NewResolver(cfg.ManagementRoles())
	return &App{
		cfg:       cfg,
		store:     st,
		logger:    logger.WithScope("tui"),
		book:      book,
		resolver:  resolver,
		engine:    reassign.NewEngine(st, book),
		gridStart: today.AddDays(-2),
		window:    timeline.NewWindow(today, timeline.ParseGranularity(cfg.TimelineGranularity())),
		keys:      defaultKeys,
		help:      help.New(),
	}
}

// Init loads the first snapshot.
func (a *App) Init() tea.Cmd {
	return a.refreshCmd()
}

// loadRange covers both the grid window and the timeline window so one
// refresh serves both screens.
func (a *App) loadRange() store.Range {
	start := calendar.Min(a.gridStart, a.window.Start)
	end := calendar.Max(a.gridStart.AddDays(gridDays-1), a.window.End)
	return store.Range{Start: start, End: end}
}

func (a *App) refreshCmd() tea.Cmd {
	r := a.loadRange()
	st := a.store
	resolver := a.resolver
	return func() tea.Msg {
		ctx := context.Background()
		users, err := st.ListUsers(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		services, err := st.ListServices(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		tasks, err := st.ListTasks(ctx, r)
		if err != nil {
			return refreshMsg{err: err}
		}
		leaves, err := st.ListLeaves(ctx, r)
		if err != nil {
			return refreshMsg{err: err}
		}
		telework, err := st.ListTelework(ctx, r)
		if err != nil {
			return refreshMsg{err: err}
		}
		holidays, err := st.ListHolidays(ctx, r)
		if err != nil {
			return refreshMsg{err: err}
		}
		return refreshMsg{
			groups: resolver.GroupUsers(users, services),
			snapshot: &grid.Snapshot{
				Tasks:    tasks,
				Leaves:   leaves,
				Telework: telework,
				Holidays: holiday.NewIndex(holidays),
			},
		}
	}
}

// flattenRows lays the groups out as selectable user rows.
func flattenRows(groups []roster.ServiceGroup) []userRow {
	var rows []userRow
	for gi, g := range groups {
		for _, u := range g.Users {
			rows = append(rows, userRow{group: gi, user: u})
		}
	}
	return rows
}

// Update handles every message. All session and snapshot state is touched
// here only; commands carry value copies and report back via messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil

	case refreshMsg:
		if m.err != nil {
			a.err = m.err
			a.statusMsg = fmt.Sprintf("Refresh failed: %v", m.err)
			a.logger.Printf("refresh failed: %v", m.err)
			return a, nil
		}
		a.err = nil
		a.groups = m.groups
		a.rows = flattenRows(m.groups)
		a.snapshot = m.snapshot
		a.clampCursor()
		return a, nil

	case opDoneMsg:
		if m.err != nil {
			a.statusMsg = fmt.Sprintf("Error: %v", m.err)
			a.logger.Printf("operation failed: %v", m.err)
			// The view keeps showing pre-mutation data until this refresh.
			return a, a.refreshCmd()
		}
		a.statusMsg = m.status
		return a, a.refreshCmd()

	case tea.KeyMsg:
		return a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Refresh):
		a.statusMsg = "Refreshing..."
		return a, a.refreshCmd()
	case key.Matches(msg, a.keys.Switch):
		if a.state == stateGrid {
			a.state = stateTimeline
		} else {
			a.state = stateGrid
		}
		return a, nil
	}
	if a.state == stateTimeline {
		return a.handleTimelineKey(msg)
	}
	return a.handleGridKey(msg)
}

func (a *App) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.cursorRow--
	case "down", "j":
		a.cursorRow++
	case "left", "h":
		a.cursorCol--
	case "right", "l":
		a.cursorCol++
	case "[":
		a.gridStart = a.gridStart.AddDays(-7)
		a.clampCursor()
		return a, a.refreshCmd()
	case "]":
		a.gridStart = a.gridStart.AddDays(7)
		a.clampCursor()
		return a, a.refreshCmd()
	case "t":
		return a, a.toggleTeleworkCmd()
	case "enter", " ":
		return a.pickOrDrop()
	case "esc", "x":
		a.drag.Clear()
		a.statusMsg = "Drag cancelled"
	}
	a.clampCursor()
	return a, nil
}

func (a *App) handleTimelineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "[":
		a.window = a.window.Shift(-1)
		return a, a.refreshCmd()
	case "]":
		a.window = a.window.Shift(1)
		return a, a.refreshCmd()
	case "+", "=":
		a.window = a.window.ZoomIn()
		return a, a.refreshCmd()
	case "-":
		a.window = a.window.ZoomOut()
		return a, a.refreshCmd()
	}
	return a, nil
}

func (a *App) clampCursor() {
	if a.cursorRow < 0 {
		a.cursorRow = 0
	}
	if n := len(a.rows); n > 0 && a.cursorRow >= n {
		a.cursorRow = n - 1
	}
	if a.cursorCol < 0 {
		a.cursorCol = 0
	}
	if a.cursorCol >= gridDays {
		a.cursorCol = gridDays - 1
	}
}

// cursorCell resolves the cursor to a (user, day) cell.
func (a *App) cursorCell() (grid.Cell, model.User, bool) {
	if a.snapshot == nil || a.cursorRow >= len(a.rows) {
		return grid.Cell{}, model.User{}, false
	}
	u := a.rows[a.cursorRow].user
	day := a.gridStart.AddDays(a.cursorCol)
	return a.snapshot.CellFor(u.ID, day), u, true
}

// pickOrDrop starts a drag from the cursor cell or resolves an active drag
// onto it. The session is read and cleared here, on the Update goroutine;
// the returned command works on plain values only, so a second enter before
// the store round-trip finishes finds no drag and cannot drop twice.
func (a *App) pickOrDrop() (tea.Model, tea.Cmd) {
	cell, user, ok := a.cursorCell()
	if !ok {
		return a, nil
	}
	drag, dragging := a.drag.Active()
	if !dragging {
		if !cell.Interactive() {
			a.statusMsg = "Nothing to pick up here"
			return a, nil
		}
		if len(cell.Tasks) == 0 {
			a.statusMsg = "No task due in this cell"
			return a, nil
		}
		task := cell.Tasks[0]
		a.drag.Start(reassign.Drag{TaskID: task.ID, FromUserID: user.ID})
		a.statusMsg = fmt.Sprintf("Picked up %q, choose a target cell and press enter", task.Title)
		return a, nil
	}
	if !cell.Interactive() {
		// Dropping on a suppressed cell is not offered; the drag survives so
		// the user can choose another target.
		a.statusMsg = "That cell is not available (leave or holiday)"
		return a, nil
	}
	a.drag.Clear()
	task, found := a.lookupTask(drag.TaskID)
	if !found {
		a.statusMsg = "The picked-up task is gone"
		return a, a.refreshCmd()
	}
	return a, a.dropCmd(task, drag.FromUserID, reassign.Target{UserID: user.ID, Day: cell.Day})
}

func (a *App) lookupTask(id string) (model.Task, bool) {
	if a.snapshot == nil {
		return model.Task{}, false
	}
	for _, t := range a.snapshot.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (a *App) dropCmd(task model.Task, fromUserID string, target reassign.Target) tea.Cmd {
	engine := a.engine
	return func() tea.Msg {
		outcome, err := engine.Drop(context.Background(), task, fromUserID, target)
		if err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: outcome.Message}
	}
}

func (a *App) toggleTeleworkCmd() tea.Cmd {
	cell, user, ok := a.cursorCell()
	if !ok {
		return nil
	}
	if !cell.Interactive() {
		a.statusMsg = "Telework cannot be toggled on this cell"
		return nil
	}
	st := a.store
	book := a.book
	return func() tea.Msg {
		rec, err := grid.ToggleTelework(context.Background(), st, user.ID, cell.Day)
		if err != nil {
			book.Error("telework toggle failed: %v", err)
			return opDoneMsg{err: err}
		}
		label := "in office"
		if rec.Telework {
			label = "telework"
		}
		book.Info("telework for %s on %s set to %s", user.ID, cell.Day, label)
		return opDoneMsg{status: fmt.Sprintf("%s on %s: %s", user.FullName(), cell.Day, label)}
	}
}

// View renders the active screen plus the shared status and help bars.
func (a *App) View() string {
	var body string
	switch a.state {
	case stateTimeline:
		body = a.timelineView()
	default:
		body = a.gridView()
	}
	return body + "\n" + a.statusBar() + "\n" + a.help.View(a.keys)
}
