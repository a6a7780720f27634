package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"fluxboard/internal/board"
	"fluxboard/internal/session"
	"fluxboard/internal/store"
	"fluxboard/internal/usercfg"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// testSession opens an empty board in a temp dir with HOME isolated so UI
// prefs never touch the real config.
func testSession(t *testing.T) *session.Session {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLUXBOARD_IGNORE_UI_PREFS", "1")
	sess := session.Open(session.Options{
		Store:     store.New(filepath.Join(t.TempDir(), "board.json")),
		SaveDelay: time.Hour,
	})
	t.Cleanup(func() { sess.Close() })
	return sess
}

// testModel returns a sized model over sess.
func testModel(t *testing.T, sess *session.Session) boardModel {
	t.Helper()
	m := initialBoardModel(sess)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(boardModel)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m boardModel, keys ...tea.KeyMsg) boardModel {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(boardModel)
	}
	return m
}

// addTitles adds tasks in order; the last one ends up on top of To Do.
func addTitles(t *testing.T, sess *session.Session, titles ...string) []board.Task {
	t.Helper()
	tasks := make([]board.Task, 0, len(titles))
	for _, title := range titles {
		task, ok := sess.Add(title, "", board.PriorityLow)
		if !ok {
			t.Fatalf("Failed to add %q", title)
		}
		tasks = append(tasks, task)
	}
	return tasks
}

func todoTitles(sess *session.Session) []string {
	state := sess.State()
	var out []string
	for _, id := range state.Order.Todo {
		out = append(out, state.Tasks[id].Title)
	}
	return out
}

// TestBoardModel_Init_SmokeTest ensures the Init function doesn't panic
func TestBoardModel_Init_SmokeTest(t *testing.T) {
	model := initialBoardModel(testSession(t))

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Init() panicked: %v", r)
		}
	}()

	if cmd := model.Init(); cmd == nil {
		t.Error("Init() should return the timestamp tick")
	}

	if len(model.columns) != 3 {
		t.Errorf("Expected 3 columns, got %d", len(model.columns))
	}

	expectedColumns := []string{"To Do", "In Progress", "Done"}
	for i, expected := range expectedColumns {
		if model.columns[i].title != expected {
			t.Errorf("Column %d: expected title '%s', got '%s'", i, expected, model.columns[i].title)
		}
	}
}

// TestBoardModel_Update_SmokeTest ensures the Update function handles basic messages without panicking
func TestBoardModel_Update_SmokeTest(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "alpha", "beta")
	model := initialBoardModel(sess)

	testCases := []struct {
		name string
		msg  tea.Msg
	}{
		{name: "Key message - quit", msg: runes("q")},
		{name: "Key message - left arrow", msg: tea.KeyMsg{Type: tea.KeyLeft}},
		{name: "Key message - right arrow", msg: tea.KeyMsg{Type: tea.KeyRight}},
		{name: "Key message - up arrow", msg: tea.KeyMsg{Type: tea.KeyUp}},
		{name: "Key message - down arrow", msg: tea.KeyMsg{Type: tea.KeyDown}},
		{name: "Key message - tab", msg: tea.KeyMsg{Type: tea.KeyTab}},
		{name: "Key message - space", msg: tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}},
		{name: "Key message - shift move", msg: runes("L")},
		{name: "Window size message", msg: tea.WindowSizeMsg{Width: 80, Height: 24}},
		{name: "Tick message", msg: tickMsg(time.Now())},
		{name: "Invalid key message", msg: runes("@")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Update() panicked with message %v: %v", tc.msg, r)
				}
			}()

			updatedModel, _ := model.Update(tc.msg)
			if updatedModel == nil {
				t.Error("Update() should return a model")
			}
		})
	}
}

func TestBoardModel_QuitSavesPreferences(t *testing.T) {
	sess := testSession(t)
	m := testModel(t, sess)
	m = press(t, m, runes("l"), runes("t"))

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}

	cfg, err := usercfg.Load()
	if err != nil {
		t.Fatalf("Expected prefs to be written to config: %v", err)
	}
	if cfg.UIPrefs.LastSelectedCol != 1 {
		t.Errorf("Expected last selected column 1, got %d", cfg.UIPrefs.LastSelectedCol)
	}
	if !cfg.UIPrefs.ShowTimestamps {
		t.Error("Expected timestamps preference to be saved")
	}
}

func TestBoardModel_AddThroughForm(t *testing.T) {
	sess := testSession(t)
	m := testModel(t, sess)

	m = press(t, m, runes("a"))
	if m.form == nil {
		t.Fatal("Expected add form to open")
	}

	m = press(t, m,
		runes("Buy milk"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("two liters"),
		tea.KeyMsg{Type: tea.KeyTab},
		runes("3"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.form != nil {
		t.Fatal("Expected form to close after submit")
	}

	state := sess.State()
	if len(state.Order.Todo) != 1 {
		t.Fatalf("Expected one todo task, got %v", state.Order.Todo)
	}
	task := state.Tasks[state.Order.Todo[0]]
	if task.Title != "Buy milk" || task.Description != "two liters" || task.Priority != board.PriorityHigh {
		t.Errorf("Unexpected task %+v", task)
	}
	if task.Status != board.StatusTodo {
		t.Errorf("Expected new task in todo, got %s", task.Status)
	}
}

func TestBoardModel_AddRejectsEmptyTitle(t *testing.T) {
	sess := testSession(t)
	m := testModel(t, sess)

	m = press(t, m, runes("a"), runes("   "), tea.KeyMsg{Type: tea.KeyEnter})
	if m.form == nil {
		t.Fatal("Expected form to stay open")
	}
	if m.form.err == "" {
		t.Error("Expected a validation message")
	}
	if len(sess.State().Tasks) != 0 {
		t.Error("Expected no task to be added")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil {
		t.Error("Expected esc to close the form")
	}
}

func TestBoardModel_EditThroughForm(t *testing.T) {
	sess := testSession(t)
	tasks := addTitles(t, sess, "draft")
	m := testModel(t, sess)

	m = press(t, m, runes("e"))
	if m.form == nil || m.form.editingID != tasks[0].ID {
		t.Fatal("Expected edit form for the selected task")
	}
	m = press(t, m, runes(" v2"), tea.KeyMsg{Type: tea.KeyEnter})

	if got := sess.State().Tasks[tasks[0].ID].Title; got != "draft v2" {
		t.Errorf("Expected edited title, got %q", got)
	}
}

func TestBoardModel_FilterKeystrokes(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "alpha", "beta", "alphabet")
	m := testModel(t, sess)

	m = press(t, m, runes("/"))
	if !m.filtering {
		t.Fatal("Expected filter mode")
	}
	m = press(t, m, runes("alp"))
	if got := sess.State().Filters.Text; got != "alp" {
		t.Errorf("Expected filter text 'alp', got %q", got)
	}
	if len(m.view.Todo) != 2 {
		t.Errorf("Expected 2 visible tasks, got %v", m.view.Todo)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.filtering {
		t.Error("Expected enter to leave filter mode")
	}
	if !strings.Contains(m.View(), "Filter:") {
		t.Error("Expected active filter to be shown")
	}

	m = press(t, m, runes("p"))
	if got := sess.State().Filters.Priority; got != board.PriorityLow {
		t.Errorf("Expected priority filter Low, got %s", got)
	}

	m = press(t, m, runes("x"))
	if sess.State().Filters.Active() {
		t.Error("Expected filters to be cleared")
	}
	if len(m.view.Todo) != 3 {
		t.Errorf("Expected all tasks visible, got %v", m.view.Todo)
	}
	if sess.CanUndo() && len(sess.State().History) != 3 {
		t.Errorf("Expected filter changes to add no history, got %d entries", len(sess.State().History))
	}
}

func TestBoardModel_GrabAndDropAcrossColumns(t *testing.T) {
	sess := testSession(t)
	tasks := addTitles(t, sess, "alpha", "beta", "gamma")
	m := testModel(t, sess)

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.grab == nil || m.grab.taskID != tasks[2].ID {
		t.Fatal("Expected the top task to be grabbed")
	}

	m = press(t, m, runes("l"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.grab != nil {
		t.Error("Expected grab to end after drop")
	}

	state := sess.State()
	if !reflect.DeepEqual(state.Order.InProgress, []string{tasks[2].ID}) {
		t.Errorf("Expected gamma in progress, got %v", state.Order.InProgress)
	}
	if state.Tasks[tasks[2].ID].Status != board.StatusInProgress {
		t.Errorf("Expected status to follow the column, got %s", state.Tasks[tasks[2].ID].Status)
	}
	if m.selectedCol != 1 {
		t.Errorf("Expected selection to follow the task, got column %d", m.selectedCol)
	}
}

func TestBoardModel_GrabDropAtEnd(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "alpha", "beta", "gamma")
	m := testModel(t, sess)

	m = press(t, m,
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		runes("j"), runes("j"), runes("j"), runes("j"),
	)
	if m.columns[0].cursor != 3 {
		t.Fatalf("Expected cursor on the slot after the last task, got %d", m.columns[0].cursor)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if got := todoTitles(sess); !reflect.DeepEqual(got, []string{"beta", "alpha", "gamma"}) {
		t.Errorf("Expected gamma dropped at the end, got %v", got)
	}
}

func TestBoardModel_GrabCancel(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "alpha", "beta")
	m := testModel(t, sess)
	before := todoTitles(sess)

	m = press(t, m,
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		runes("j"),
		tea.KeyMsg{Type: tea.KeyEsc},
	)
	if m.grab != nil {
		t.Error("Expected esc to cancel the grab")
	}
	if got := todoTitles(sess); !reflect.DeepEqual(got, before) {
		t.Errorf("Expected order unchanged, got %v", got)
	}
}

func TestBoardModel_ShiftMoves(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "alpha", "beta", "gamma")
	m := testModel(t, sess)

	m = press(t, m, runes("J"))
	if got := todoTitles(sess); !reflect.DeepEqual(got, []string{"beta", "gamma", "alpha"}) {
		t.Errorf("Expected gamma moved down one slot, got %v", got)
	}
	if m.columns[0].cursor != 1 {
		t.Errorf("Expected cursor to follow the task, got %d", m.columns[0].cursor)
	}

	m = press(t, m, runes("K"))
	if got := todoTitles(sess); !reflect.DeepEqual(got, []string{"gamma", "beta", "alpha"}) {
		t.Errorf("Expected gamma back on top, got %v", got)
	}

	m = press(t, m, runes("K"))
	if got := todoTitles(sess); !reflect.DeepEqual(got, []string{"gamma", "beta", "alpha"}) {
		t.Errorf("Expected K at the top to do nothing, got %v", got)
	}

	m = press(t, m, runes("L"))
	state := sess.State()
	if len(state.Order.InProgress) != 1 || state.Tasks[state.Order.InProgress[0]].Title != "gamma" {
		t.Errorf("Expected gamma in progress, got %v", state.Order.InProgress)
	}
	if m.selectedCol != 1 {
		t.Errorf("Expected selection to follow to column 1, got %d", m.selectedCol)
	}

	m = press(t, m, runes("H"))
	if got := todoTitles(sess); !reflect.DeepEqual(got, []string{"gamma", "beta", "alpha"}) {
		t.Errorf("Expected gamma dropped back at the cursor slot, got %v", got)
	}
	if m.selectedCol != 0 {
		t.Errorf("Expected selection back in column 0, got %d", m.selectedCol)
	}
}

func TestBoardModel_UndoRedo(t *testing.T) {
	sess := testSession(t)
	tasks := addTitles(t, sess, "alpha")
	m := testModel(t, sess)

	m = press(t, m, runes("u"))
	if _, ok := sess.State().Tasks[tasks[0].ID]; ok {
		t.Error("Expected undo to remove the task")
	}

	m = press(t, m, runes("u"))
	if m.status != "Nothing to undo" {
		t.Errorf("Expected nothing-to-undo status, got %q", m.status)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if _, ok := sess.State().Tasks[tasks[0].ID]; !ok {
		t.Error("Expected redo to restore the task")
	}
	if len(m.view.Todo) != 1 {
		t.Errorf("Expected view refreshed after redo, got %v", m.view.Todo)
	}
}

func TestBoardModel_DeleteConfirm(t *testing.T) {
	sess := testSession(t)
	tasks := addTitles(t, sess, "alpha")
	m := testModel(t, sess)

	m = press(t, m, runes("d"))
	if m.confirmDelete != tasks[0].ID {
		t.Fatal("Expected delete confirmation prompt")
	}
	if !strings.Contains(m.View(), "(y/n)") {
		t.Error("Expected confirmation in view")
	}

	m = press(t, m, runes("n"))
	if _, ok := sess.State().Tasks[tasks[0].ID]; !ok {
		t.Error("Expected 'n' to keep the task")
	}

	m = press(t, m, runes("d"), runes("y"))
	if _, ok := sess.State().Tasks[tasks[0].ID]; ok {
		t.Error("Expected 'y' to delete the task")
	}
	if len(m.view.Todo) != 0 {
		t.Errorf("Expected empty view, got %v", m.view.Todo)
	}
}

// TestBoardModel_View_SmokeTest ensures the View function doesn't panic
func TestBoardModel_View_SmokeTest(t *testing.T) {
	sess := testSession(t)
	m := initialBoardModel(sess)
	m.width = 80
	m.height = 24

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("View() panicked: %v", r)
		}
	}()

	view := m.View()
	if !strings.Contains(view, "(empty)") {
		t.Error("Expected empty columns to say so")
	}

	addTitles(t, sess, "alpha")
	m.refresh()
	m.showTimestamps = true
	view = m.View()
	if !strings.Contains(view, "alpha") {
		t.Error("Expected task title in view")
	}
	if !strings.Contains(view, "s ago") {
		t.Error("Expected relative timestamp in view")
	}

	m.err = errors.New("Test error")
	if view = m.View(); !strings.Contains(view, "Test error") {
		t.Error("View() should show the error")
	}

	m.showingHelp = true
	if view = m.View(); !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("Expected help overlay")
	}
}

func TestBoardModel_HiddenByFilterLabel(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "alpha")
	sess.Dispatch(board.SetFilterText{Text: "zzz"})
	m := testModel(t, sess)

	if !strings.Contains(m.View(), "(all hidden by filter)") {
		t.Error("Expected filtered-out column to be labelled")
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer line", 8, "a lon..."},
		{"abc", 2, "ab"},
		{"anything", 0, "anything"},
		{"日本語のタスク名です", 8, "日本..."},
		{"日本語", 6, "日本語"},
		{"日本語", 3, "日"},
		{"café au lait", 6, "caf..."},
	}
	for _, tt := range tests {
		got := clip(tt.in, tt.w)
		if got != tt.want {
			t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("clip(%q, %d) produced invalid UTF-8 %q", tt.in, tt.w, got)
		}
		if tt.w > 0 && lipgloss.Width(got) > tt.w {
			t.Errorf("clip(%q, %d) is %d cells wide", tt.in, tt.w, lipgloss.Width(got))
		}
	}
}

func TestBoardModel_WideTitlesRenderCleanly(t *testing.T) {
	sess := testSession(t)
	addTitles(t, sess, "日本語のタスク名ですとても長いタイトル", "Ünïcödé tâsk wïth àccents everywhere")

	m := initialBoardModel(sess)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = updated.(boardModel)

	view := m.View()
	if !utf8.ValidString(view) {
		t.Fatal("Expected view to be valid UTF-8")
	}
	if !strings.Contains(view, "日本語") {
		t.Errorf("Expected clipped CJK title in view:\n%s", view)
	}
	for i, line := range strings.Split(view, "\n") {
		if w := lipgloss.Width(line); w > 60 {
			t.Errorf("Line %d is %d cells wide, want at most 60: %q", i, w, line)
		}
	}
}

func TestHelpLayout_WrapsByCellWidth(t *testing.T) {
	m := testModel(t, testSession(t))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	m = updated.(boardModel)

	lines, overlayWidth, _ := m.helpLayout()
	wrapWidth := max(10, overlayWidth-4)
	for i, line := range lines {
		if !utf8.ValidString(line) {
			t.Errorf("Help line %d is not valid UTF-8: %q", i, line)
		}
		if w := lipgloss.Width(line); w > wrapWidth {
			t.Errorf("Help line %d is %d cells wide, want at most %d: %q", i, w, wrapWidth, line)
		}
	}
}

func TestBoardModel_ReadOnlyHeader(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLUXBOARD_IGNORE_UI_PREFS", "1")
	// a directory where the board file should be cannot be read
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	sess := session.Open(session.Options{Store: store.New(path), SaveDelay: time.Hour})
	t.Cleanup(func() { sess.Close() })

	if !strings.Contains(testModel(t, sess).View(), "read-only") {
		t.Error("Expected header to mark the board read-only")
	}
	if strings.Contains(testModel(t, testSession(t)).View(), "read-only") {
		t.Error("Expected a readable board to not be marked read-only")
	}
}
