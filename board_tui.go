package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fluxboard/internal/board"
	"fluxboard/internal/logger"
	"fluxboard/internal/session"
	"fluxboard/internal/usercfg"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// timestampRefresh is how often relative "Nm ago" labels are re-rendered.
const timestampRefresh = 10 * time.Second

type kanbanColumnView struct {
	title  string
	column board.Column
	cursor int
	offset int // top index of the visible window
}

type tickMsg time.Time

// grabState is an in-flight keyboard drag.
type grabState struct {
	taskID string
	from   board.Column
}

const (
	formFieldTitle = iota
	formFieldDescription
	formFieldPriority
	formFieldCount
)

// taskForm backs both the add and edit dialogs.
type taskForm struct {
	editingID   string // empty when adding
	title       textinput.Model
	description textinput.Model
	priority    board.Priority
	focus       int
	err         string
}

type boardModel struct {
	sess           *session.Session
	columns        []kanbanColumnView
	view           board.Order // filtered projection, refreshed after every dispatch
	selectedCol    int
	width          int
	height         int
	filtering      bool
	filterInput    textinput.Model
	showingHelp    bool
	helpOffset     int // scroll offset within help overlay
	showTimestamps bool
	form           *taskForm
	confirmDelete  string // id awaiting y/n
	grab           *grabState
	status         string
	err            error
	styles         boardStyles
	now            time.Time
}

// newBoardStyles returns hardcoded dark theme styles
func newBoardStyles() boardStyles {
	return boardStyles{
		header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		boxStyle:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("240")),
		boxActive:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("10")),
		selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		grabbed:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),
		dropMarker:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		help:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		helpOverlay: lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(1, 2),
		helpTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		helpKey:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		form:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("99")).Padding(0, 1),
		error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		priorities: map[board.Priority]lipgloss.Style{
			board.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			board.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			board.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

type boardStyles struct {
	header      lipgloss.Style
	title       lipgloss.Style
	boxStyle    lipgloss.Style
	boxActive   lipgloss.Style
	selected    lipgloss.Style
	grabbed     lipgloss.Style
	dropMarker  lipgloss.Style
	muted       lipgloss.Style
	help        lipgloss.Style
	helpOverlay lipgloss.Style
	helpTitle   lipgloss.Style
	helpKey     lipgloss.Style
	form        lipgloss.Style
	error       lipgloss.Style
	priorities  map[board.Priority]lipgloss.Style
}

func initialBoardModel(sess *session.Session) boardModel {
	ti := textinput.New()
	ti.Placeholder = "filter..."
	ti.CharLimit = 256

	uiPrefs := usercfg.GetUIPrefs()

	var initialCol int
	if uiPrefs.LastSelectedCol >= 0 && uiPrefs.LastSelectedCol < len(board.Columns) {
		initialCol = uiPrefs.LastSelectedCol
	}

	// Restore the last filters; they are session state and never persisted with the board
	if uiPrefs.LastFilter != "" {
		sess.Dispatch(board.SetFilterText{Text: uiPrefs.LastFilter})
	}
	if p := board.Priority(uiPrefs.LastPriority); p.Valid() {
		sess.Dispatch(board.SetFilterPriority{Priority: p})
	}

	columns := make([]kanbanColumnView, len(board.Columns))
	for i, c := range board.Columns {
		columns[i] = kanbanColumnView{title: c.Title(), column: c}
	}

	m := boardModel{
		sess:           sess,
		columns:        columns,
		selectedCol:    initialCol,
		filterInput:    ti,
		showTimestamps: uiPrefs.ShowTimestamps,
		styles:         newBoardStyles(),
		now:            time.Now(),
	}
	if sess.LoadErr != nil {
		m.err = sess.LoadErr
	}
	m.refresh()
	return m
}

func (m boardModel) Init() tea.Cmd { return tickCmd() }

func tickCmd() tea.Cmd {
	return tea.Tick(timestampRefresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// refresh re-derives the filtered view and keeps every cursor in range.
func (m *boardModel) refresh() {
	m.view = m.sess.View()
	for i := range m.columns {
		m.ensureCursorVisible(&m.columns[i])
	}
}

func (m *boardModel) dispatch(a board.Action) {
	m.sess.Dispatch(a)
	m.refresh()
}

// items returns the visible ids of column i.
func (m boardModel) items(i int) []string {
	return m.view.Column(m.columns[i].column)
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Keep cursor visible in each column after resize
		for i := range m.columns {
			m.ensureCursorVisible(&m.columns[i])
		}
		return m, nil
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case tea.KeyMsg:
		if m.showingHelp {
			return m.updateHelp(msg)
		}
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.confirmDelete != "" {
			if msg.String() == "y" || msg.String() == "Y" {
				logger.TUI("delete %s", m.confirmDelete)
				m.dispatch(board.DeleteTask{ID: m.confirmDelete})
				m.status = "Task deleted"
			} else {
				m.status = "Delete cancelled"
			}
			m.confirmDelete = ""
			return m, nil
		}
		if m.filtering {
			switch msg.Type {
			case tea.KeyEsc, tea.KeyCtrlC:
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			case tea.KeyEnter:
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			default:
				// Live update filter as user types
				var cmd tea.Cmd
				m.filterInput, cmd = m.filterInput.Update(msg)
				m.dispatch(board.SetFilterText{Text: m.filterInput.Value()})
				return m, cmd
			}
		}
		if m.grab != nil {
			return m.updateGrab(msg)
		}
		return m.updateBoard(msg)
	}
	return m, nil
}

func (m boardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines, _, viewport := m.helpLayout()
	maxOffset := 0
	if viewport < len(lines) {
		maxOffset = len(lines) - viewport
	}
	switch msg.String() {
	case "q", "?", "esc":
		m.showingHelp = false
	case "up", "k":
		if m.helpOffset > 0 {
			m.helpOffset--
		}
	case "down", "j":
		if m.helpOffset < maxOffset {
			m.helpOffset++
		}
	case "pgup":
		step := max(1, viewport-1)
		m.helpOffset = max(0, m.helpOffset-step)
	case "pgdown":
		step := max(1, viewport-1)
		m.helpOffset = min(maxOffset, m.helpOffset+step)
	case "home":
		m.helpOffset = 0
	case "end":
		m.helpOffset = maxOffset
	}
	return m, nil
}

func (m boardModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	key := msg.String()
	switch {
	// Critical actions first to avoid conflicts with navigation keys
	case key == "q" || key == "ctrl+c":
		m.saveUIPreferences()
		return m, tea.Quit
	case key == "?":
		m.showingHelp = !m.showingHelp
	case key == "/":
		m.filtering = true
		m.filterInput.SetValue(m.sess.State().Filters.Text)
		cmd := m.filterInput.Focus()
		return m, cmd
	case key == "p":
		next := (m.sess.State().Filters.Priority + 1) % (board.PriorityHigh + 1)
		m.dispatch(board.SetFilterPriority{Priority: next})
	case key == "x":
		m.dispatch(board.SetFilterText{Text: ""})
		m.dispatch(board.SetFilterPriority{Priority: board.PriorityNone})
		m.filterInput.SetValue("")
	case key == "t":
		m.showTimestamps = !m.showTimestamps
	case key == "u" || key == "ctrl+z":
		if m.sess.CanUndo() {
			m.dispatch(board.Undo{})
		} else {
			m.status = "Nothing to undo"
		}
	case key == "U" || key == "ctrl+r":
		if m.sess.CanRedo() {
			m.dispatch(board.Redo{})
		} else {
			m.status = "Nothing to redo"
		}
	case key == "a":
		m.form = newTaskForm(board.Task{Priority: board.PriorityLow})
		return m, m.form.title.Focus()
	case key == "e":
		if task, ok := m.currentTask(); ok {
			m.form = newTaskForm(task)
			return m, m.form.title.Focus()
		}
	case key == "d":
		if task, ok := m.currentTask(); ok {
			m.confirmDelete = task.ID
		}
	case key == " " || key == "space":
		if task, ok := m.currentTask(); ok {
			m.grab = &grabState{taskID: task.ID, from: m.columns[m.selectedCol].column}
			m.status = "Moving task: choose a slot, space/enter to drop, esc to cancel"
		}
	case key == "H":
		m.shiftTask(-1, 0)
	case key == "L":
		m.shiftTask(1, 0)
	case key == "K":
		m.shiftTask(0, -1)
	case key == "J":
		m.shiftTask(0, 1)
	// Navigation last so action keys don't get shadowed
	case key == "l" || key == "right" || key == "tab":
		m.selectedCol = (m.selectedCol + 1) % len(m.columns)
		m.ensureCursorVisible(&m.columns[m.selectedCol])
	case key == "h" || key == "left" || key == "shift+tab":
		m.selectedCol = (m.selectedCol - 1 + len(m.columns)) % len(m.columns)
		m.ensureCursorVisible(&m.columns[m.selectedCol])
	case key == "j" || key == "down":
		col := &m.columns[m.selectedCol]
		if n := len(m.items(m.selectedCol)); n > 0 && col.cursor < n-1 {
			col.cursor++
			m.ensureCursorVisible(col)
		}
	case key == "k" || key == "up":
		col := &m.columns[m.selectedCol]
		if col.cursor > 0 {
			col.cursor--
			m.ensureCursorVisible(col)
		}
	}
	return m, nil
}

// shiftTask moves the selected task one column sideways (dx) or one visible
// slot vertically (dy), going through the same drop resolution as a grab.
func (m *boardModel) shiftTask(dx, dy int) {
	task, ok := m.currentTask()
	if !ok {
		return
	}
	from := m.columns[m.selectedCol]
	d := board.Drop{TaskID: task.ID, From: from.column, To: from.column}

	switch {
	case dx != 0:
		target := m.selectedCol + dx
		if target < 0 || target >= len(m.columns) {
			return
		}
		d.To = m.columns[target].column
		d.Index = m.columns[target].cursor
		if m.sess.Drop(d) {
			m.selectedCol = target
		}
	case dy < 0:
		if from.cursor == 0 {
			return
		}
		d.Index = from.cursor - 1
		m.sess.Drop(d)
	case dy > 0:
		if from.cursor >= len(m.items(m.selectedCol))-1 {
			return
		}
		// anchoring on the next visible task lands right after it
		d.Index = from.cursor + 1
		m.sess.Drop(d)
	}
	m.refresh()
	m.selectTask(task.ID)
}

func (m boardModel) updateGrab(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	col := &m.columns[m.selectedCol]
	switch msg.String() {
	case "esc", "ctrl+c":
		id := m.grab.taskID
		m.grab = nil
		m.status = "Move cancelled"
		m.refresh()
		m.selectTask(id)
	case " ", "space", "enter":
		d := board.Drop{TaskID: m.grab.taskID, From: m.grab.from, To: col.column, Index: col.cursor}
		m.grab = nil
		if !m.sess.Drop(d) {
			m.status = "Task changed while moving; nothing was dropped"
		}
		m.refresh()
		m.selectTask(d.TaskID)
	case "l", "right", "tab":
		m.selectedCol = (m.selectedCol + 1) % len(m.columns)
		m.ensureCursorVisible(&m.columns[m.selectedCol])
	case "h", "left", "shift+tab":
		m.selectedCol = (m.selectedCol - 1 + len(m.columns)) % len(m.columns)
		m.ensureCursorVisible(&m.columns[m.selectedCol])
	case "j", "down":
		// one extra slot past the last task means "drop at the end"
		if col.cursor < len(m.items(m.selectedCol)) {
			col.cursor++
			m.ensureCursorVisible(col)
		}
	case "k", "up":
		if col.cursor > 0 {
			col.cursor--
			m.ensureCursorVisible(col)
		}
	}
	return m, nil
}

func newTaskForm(task board.Task) *taskForm {
	title := textinput.New()
	title.Placeholder = "title (required)"
	title.CharLimit = 200
	title.SetValue(task.Title)

	desc := textinput.New()
	desc.Placeholder = "description"
	desc.CharLimit = 1000
	desc.SetValue(task.Description)

	priority := task.Priority
	if !priority.Valid() {
		priority = board.PriorityLow
	}
	return &taskForm{editingID: task.ID, title: title, description: desc, priority: priority}
}

func (f *taskForm) setFocus(i int) tea.Cmd {
	f.focus = (i + formFieldCount) % formFieldCount
	f.title.Blur()
	f.description.Blur()
	switch f.focus {
	case formFieldTitle:
		return f.title.Focus()
	case formFieldDescription:
		return f.description.Focus()
	}
	return nil
}

func (m boardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc", "ctrl+c":
		m.form = nil
		return m, nil
	case "tab", "down":
		return m, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return m, f.setFocus(f.focus - 1)
	case "enter":
		return m.submitForm()
	}

	if f.focus == formFieldPriority {
		switch msg.String() {
		case "left", "h":
			if f.priority > board.PriorityLow {
				f.priority--
			}
		case "right", "l":
			if f.priority < board.PriorityHigh {
				f.priority++
			}
		case "1", "2", "3":
			p, _ := board.ParsePriority(msg.String())
			f.priority = p
		}
		return m, nil
	}

	var cmd tea.Cmd
	if f.focus == formFieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.description, cmd = f.description.Update(msg)
	}
	return m, cmd
}

func (m boardModel) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		f.err = "Title is required"
		return m, f.setFocus(formFieldTitle)
	}
	desc := strings.TrimSpace(f.description.Value())

	if f.editingID == "" {
		task, ok := m.sess.Add(title, desc, f.priority)
		if !ok {
			f.err = "Task could not be added"
			return m, nil
		}
		m.form = nil
		m.refresh()
		m.selectedCol = 0
		m.selectTask(task.ID)
		m.status = "Task added"
		return m, nil
	}

	m.dispatch(board.UpdateTask{ID: f.editingID, Changes: board.TaskChanges{
		Title:       board.StringPtr(title),
		Description: board.StringPtr(desc),
		Priority:    board.PriorityPtr(f.priority),
	}})
	m.form = nil
	m.selectTask(f.editingID)
	m.status = "Task updated"
	return m, nil
}

func (m boardModel) View() string {
	state := m.sess.State()

	counts := fmt.Sprintf("%d to do · %d in progress · %d done",
		len(state.Order.Todo), len(state.Order.InProgress), len(state.Order.Done))
	title := "FluxBoard | "
	if m.sess.ReadOnly() {
		title = "FluxBoard (read-only, not saving) | "
	}
	header := m.styles.header.Render(clip(title+counts+" | "+m.historyLabel(state), m.width))
	// Compact help to avoid overflowing small terminals; full help with '?'
	help := m.styles.help.Render(clip("(? help • q quit • hjkl move • a add • e edit • d delete • space grab • / filter • p priority • u undo)", m.width))

	cols := len(m.columns)

	// Column width percentages: To Do 35%, In Progress 35%, Done 30%
	colWidths := columnWidths(m.width)

	itemsWindow := m.itemsWindowCount()

	rendered := make([]string, cols)
	for i, c := range m.columns {
		ids := m.items(i)
		showMarker := m.grab != nil && i == m.selectedCol

		var items []string
		if len(ids) == 0 && !showMarker {
			if state.Filters.Active() && len(state.Order.Column(c.column)) > 0 {
				items = []string{m.styles.muted.Render("(all hidden by filter)")}
			} else {
				items = []string{m.styles.muted.Render("(empty)")}
			}
		} else {
			window := itemsWindow
			if showMarker {
				window = max(1, window-1)
			}
			start := c.offset
			end := min(len(ids), start+window)

			// Top indicator or spacer
			if start > 0 {
				items = append(items, m.styles.muted.Render(fmt.Sprintf("… %d above", start)))
			} else {
				items = append(items, "")
			}
			for idx := start; idx < end; idx++ {
				if showMarker && idx == c.cursor {
					items = append(items, m.dropMarkerLine(colWidths[i]-4))
				}
				items = append(items, m.renderTask(state.Tasks[ids[idx]], i, idx, colWidths[i]-4))
			}
			if showMarker && c.cursor >= end {
				items = append(items, m.dropMarkerLine(colWidths[i]-4))
			}
			// Bottom indicator or spacer
			if end < len(ids) {
				items = append(items, m.styles.muted.Render(fmt.Sprintf("… %d below", len(ids)-end)))
			} else {
				items = append(items, "")
			}
		}
		box := m.styles.boxStyle
		if i == m.selectedCol {
			box = m.styles.boxActive
		}
		title := m.styles.title.Render(fmt.Sprintf("%s (%d)", c.title, len(ids)))
		rendered[i] = box.Width(colWidths[i]).Render(title + "\n" + strings.Join(items, "\n"))
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	if m.filtering {
		return header + "\n" + help + "\n\n" + boardView + "\n\nFilter: " + m.filterInput.View()
	}
	if m.form != nil {
		return header + "\n" + help + "\n\n" + boardView + "\n" + m.renderForm()
	}

	footer := ""
	if m.err != nil {
		footer = "\n" + m.styles.error.Render("Error: "+m.err.Error())
	}
	if m.confirmDelete != "" {
		name := m.confirmDelete
		if t, ok := state.Tasks[m.confirmDelete]; ok {
			name = t.Title
		}
		footer += "\n" + m.styles.error.Render(clip(fmt.Sprintf("Delete %q? (y/n)", name), m.width))
	} else if m.status != "" {
		footer += "\n" + m.styles.muted.Render(m.status)
	}
	if state.Filters.Active() {
		footer += "\n" + m.styles.muted.Render(filterLabel(state.Filters))
	}
	baseView := header + "\n" + help + "\n\n" + boardView + footer + "\n"

	if m.showingHelp {
		return m.renderWithHelpOverlay(baseView)
	}

	return baseView
}

func (m boardModel) historyLabel(s board.State) string {
	undo, redo := "undo ✗", "redo ✗"
	if s.CanUndo() {
		undo = fmt.Sprintf("undo ✓%d", len(s.History))
	}
	if s.CanRedo() {
		redo = fmt.Sprintf("redo ✓%d", len(s.Future))
	}
	return undo + " " + redo
}

func filterLabel(f board.Filters) string {
	var parts []string
	if f.Text != "" {
		parts = append(parts, fmt.Sprintf("text %q", f.Text))
	}
	if f.Priority != board.PriorityNone {
		parts = append(parts, "priority "+f.Priority.String())
	}
	return "Filter: " + strings.Join(parts, ", ") + " (x to clear)"
}

func (m boardModel) renderTask(task board.Task, col, idx, width int) string {
	line := fmt.Sprintf("[%s] %s", priorityTag(task.Priority), task.Title)
	if m.showTimestamps {
		line += " · " + board.TimeAgo(task.UpdatedAt, m.now)
	}
	line = clip(line, width)

	switch {
	case m.grab != nil && task.ID == m.grab.taskID:
		return m.styles.grabbed.Render(line)
	case m.grab == nil && col == m.selectedCol && idx == m.columns[col].cursor:
		return m.styles.selected.Render(line)
	}
	if style, ok := m.styles.priorities[task.Priority]; ok {
		tag := "[" + priorityTag(task.Priority) + "]"
		if strings.HasPrefix(line, tag) {
			return style.Render(tag) + line[len(tag):]
		}
	}
	return line
}

func priorityTag(p board.Priority) string {
	switch p {
	case board.PriorityHigh:
		return "H"
	case board.PriorityMedium:
		return "M"
	case board.PriorityLow:
		return "L"
	}
	return "-"
}

func (m boardModel) dropMarkerLine(width int) string {
	return m.styles.dropMarker.Render(clip("──▶ drop here", width))
}

func (m boardModel) renderForm() string {
	f := m.form
	heading := "New task"
	if f.editingID != "" {
		heading = "Edit task"
	}

	label := func(i int, s string) string {
		if f.focus == i {
			return m.styles.helpKey.Render("› " + s)
		}
		return "  " + s
	}

	var prio []string
	for _, p := range []board.Priority{board.PriorityLow, board.PriorityMedium, board.PriorityHigh} {
		if p == f.priority {
			prio = append(prio, m.styles.selected.Render(" "+p.String()+" "))
		} else {
			prio = append(prio, " "+p.String()+" ")
		}
	}

	lines := []string{
		m.styles.helpTitle.Render(heading),
		label(formFieldTitle, "Title:       ") + f.title.View(),
		label(formFieldDescription, "Description: ") + f.description.View(),
		label(formFieldPriority, "Priority:    ") + strings.Join(prio, " "),
		m.styles.muted.Render("tab next field • ←/→ or 1-3 priority • enter save • esc cancel"),
	}
	if f.err != "" {
		lines = append(lines, m.styles.error.Render(f.err))
	}
	return m.styles.form.Width(max(40, min(80, m.width-4))).Render(strings.Join(lines, "\n"))
}

func (m boardModel) renderWithHelpOverlay(baseView string) string {
	lines, overlayWidth, viewport := m.helpLayout()
	// Clamp offset
	maxOffset := 0
	if viewport < len(lines) {
		maxOffset = len(lines) - viewport
	}
	if m.helpOffset > maxOffset {
		m.helpOffset = maxOffset
	}
	if m.helpOffset < 0 {
		m.helpOffset = 0
	}
	start := m.helpOffset
	end := min(len(lines), start+viewport)
	visible := lines[start:end]
	helpContent := strings.Join(visible, "\n")
	overlayHeight := viewport + 3

	// Position overlay in center
	y := max(0, (m.height-overlayHeight)/2)

	pos := fmt.Sprintf("%d/%d lines | ↑/↓ PgUp/PgDn Home/End | q/? close", end, len(lines))
	helpBlock := helpContent + "\n" + m.styles.muted.Render(pos)
	overlay := m.styles.helpOverlay.Width(overlayWidth).Render(helpBlock)

	baseLines := strings.Split(baseView, "\n")
	overlayLines := strings.Split(overlay, "\n")

	for len(baseLines) < y+len(overlayLines) {
		baseLines = append(baseLines, "")
	}

	for i, overlayLine := range overlayLines {
		if y+i < len(baseLines) {
			baseLines[y+i] = overlayLine
		}
	}

	return strings.Join(baseLines, "\n")
}

// helpLayout computes wrapped help lines, target overlay width, and viewport height (content rows)
func (m boardModel) helpLayout() ([]string, int, int) {
	helpContent := m.buildHelpContent()
	overlayWidth := min(80, max(40, m.width-8))
	contentLines := strings.Split(helpContent, "\n")
	wrapped := make([]string, 0, len(contentLines))
	wrapWidth := max(10, overlayWidth-4)
	for _, line := range contentLines {
		wrapped = append(wrapped, strings.Split(ansi.Hardwrap(line, wrapWidth, true), "\n")...)
	}
	viewport := max(3, min(m.height-4, len(wrapped)+3)-3)
	return wrapped, overlayWidth, viewport
}

func (m boardModel) buildHelpContent() string {
	title := m.styles.helpTitle.Render("FluxBoard - Keyboard Shortcuts")

	helpLines := []string{
		m.styles.helpKey.Render("q/ctrl+c") + "      Quit (pending changes are saved)",
		m.styles.helpKey.Render("?") + "             Toggle this help overlay",
		"",
		m.styles.helpTitle.Render("Navigation:"),
		m.styles.helpKey.Render("hjkl/arrows") + "   Move selection",
		m.styles.helpKey.Render("tab/shift+tab") + " Switch column",
		"",
		m.styles.helpTitle.Render("Tasks:"),
		m.styles.helpKey.Render("a") + "             Add a task to To Do",
		m.styles.helpKey.Render("e") + "             Edit selected task",
		m.styles.helpKey.Render("d") + "             Delete selected task",
		m.styles.helpKey.Render("space") + "         Grab task; move, then space/enter to drop",
		m.styles.helpKey.Render("H/L") + "           Move task to the previous/next column",
		m.styles.helpKey.Render("K/J") + "           Move task up/down one visible slot",
		m.styles.helpKey.Render("u/ctrl+z") + "      Undo",
		m.styles.helpKey.Render("U/ctrl+r") + "      Redo",
		"",
		m.styles.helpTitle.Render("View:"),
		m.styles.helpKey.Render("/") + "             Filter by title or description",
		m.styles.helpKey.Render("p") + "             Cycle priority filter",
		m.styles.helpKey.Render("x") + "             Clear filters",
		m.styles.helpKey.Render("t") + "             Toggle last-updated times",
		"",
		m.styles.helpTitle.Render("Tips:"),
		"  • Moves made while filtered keep hidden tasks in place",
		fmt.Sprintf("  • Undo keeps the last %d changes; filters are not undoable", board.MaxHistory),
	}

	return title + "\n\n" + strings.Join(helpLines, "\n") + "\n\n" + m.styles.muted.Render("Press ? again to close")
}

func (m boardModel) currentTask() (board.Task, bool) {
	ids := m.items(m.selectedCol)
	c := m.columns[m.selectedCol]
	if c.cursor < 0 || c.cursor >= len(ids) {
		return board.Task{}, false
	}
	task, ok := m.sess.State().Tasks[ids[c.cursor]]
	return task, ok
}

// selectTask moves the selection onto id if it is visible.
func (m *boardModel) selectTask(id string) {
	for i := range m.columns {
		for idx, v := range m.items(i) {
			if v == id {
				m.selectedCol = i
				m.columns[i].cursor = idx
				m.ensureCursorVisible(&m.columns[i])
				return
			}
		}
	}
}

func columnWidths(width int) []int {
	// Leave some margin for borders/padding
	usableWidth := width - 6
	widths := []int{
		int(float64(usableWidth) * 0.35), // To Do: 35%
		int(float64(usableWidth) * 0.35), // In Progress: 35%
		int(float64(usableWidth) * 0.30), // Done: 30%
	}
	for i := range widths {
		widths[i] = max(16, widths[i])
	}
	return widths
}

// viewportItemsHeight calculates how many rows of items can be displayed per column
// given the current terminal height and rough space usage of headers/footers.
func (m boardModel) viewportItemsHeight() int {
	reserved := 5
	if m.filtering {
		reserved += 2
	}
	if m.form != nil {
		reserved += 7
	}
	avail := max(5, m.height-reserved)
	return max(1, avail-3)
}

// itemsWindowCount returns the number of item rows we draw, excluding the two
// indicator lines (top and bottom). This keeps ensureCursorVisible and View aligned.
func (m boardModel) itemsWindowCount() int {
	base := m.viewportItemsHeight()
	if base <= 2 {
		return 1
	}
	return base - 2
}

// ensureCursorVisible adjusts the column offset so that the cursor stays within the
// visible window, honoring the up/down indicators. While grabbing, the selected
// column allows one slot past its last task.
func (m boardModel) ensureCursorVisible(c *kanbanColumnView) {
	n := len(m.view.Column(c.column))
	limit := n - 1
	vh := m.itemsWindowCount()
	if m.grab != nil && c.column == m.columns[m.selectedCol].column {
		limit = n
		vh = max(1, vh-1)
	}
	if limit < 0 {
		c.offset = 0
		c.cursor = 0
		return
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
	if c.cursor > limit {
		c.cursor = limit
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+vh {
		c.offset = c.cursor - vh + 1
	}
	maxOffset := 0
	if n > vh {
		maxOffset = n - vh
	}
	if c.offset > maxOffset {
		c.offset = maxOffset
	}
	if c.offset < 0 {
		c.offset = 0
	}
}

func (m boardModel) saveUIPreferences() {
	filters := m.sess.State().Filters
	prefs := usercfg.UIPreferences{
		LastSelectedCol: m.selectedCol,
		LastFilter:      filters.Text,
		LastPriority:    int(filters.Priority),
		ShowTimestamps:  m.showTimestamps,
	}

	// Save preferences (ignore errors as this is best-effort)
	if err := usercfg.SaveUIPrefs(prefs); err != nil {
		logger.TUI("saving ui prefs: %v", err)
	}
}

// StartBoard runs the TUI against sess. Log lines go to the debug log (or
// nowhere) while the alternate screen is up.
func StartBoard(sess *session.Session) error {
	var sink io.Writer = io.Discard
	if verbose {
		if f, err := os.OpenFile(logger.DebugLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			defer f.Close()
			sink = f
		}
	}
	prev := logger.SetOutput(sink)
	defer logger.SetOutput(prev)

	model := initialBoardModel(sess)
	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()

	if bm, ok := finalModel.(boardModel); ok {
		bm.saveUIPreferences()
	}
	if ferr := sess.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

// clip truncates s to w bytes, marking the cut with an ellipsis
func clip(s string, w int) string {
	if w <= 0 || ansi.StringWidth(s) <= w {
		return s
	}
	if w <= 3 {
		return ansi.Truncate(s, w, "")
	}
	return ansi.Truncate(s, w, "...")
}
