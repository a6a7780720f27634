package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Status is the work-state of a task. It always matches the column holding the task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Priority ranks a task. PriorityNone is only meaningful as a filter value.
type Priority int

const (
	PriorityNone   Priority = 0
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Valid reports whether p is one of Low, Medium or High.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityNone:
		return "Any"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority accepts 1-3 or low/medium/high (and their first letters).
func ParsePriority(s string) (Priority, error) {
	trimmed := strings.TrimSpace(s)
	switch strings.ToLower(trimmed) {
	case "1", "low", "l":
		return PriorityLow, nil
	case "2", "medium", "med", "m":
		return PriorityMedium, nil
	case "3", "high", "h":
		return PriorityHigh, nil
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return Priority(n), fmt.Errorf("priority %d out of range 1-3", n)
	}
	return PriorityNone, fmt.Errorf("unknown priority %q", s)
}

// Column is a key into Order.
type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "inProgress"
	ColumnDone       Column = "done"
)

// Columns lists the fixed columns in display order.
var Columns = []Column{ColumnTodo, ColumnInProgress, ColumnDone}

// Valid reports whether c is one of the three board columns.
func (c Column) Valid() bool {
	return c == ColumnTodo || c == ColumnInProgress || c == ColumnDone
}

// Status returns the canonical status of tasks held in c.
func (c Column) Status() Status {
	switch c {
	case ColumnInProgress:
		return StatusInProgress
	case ColumnDone:
		return StatusDone
	}
	return StatusTodo
}

// Title is the human label of the column.
func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	}
	return string(c)
}

// ColumnForStatus maps a status back to its column.
func ColumnForStatus(s Status) Column {
	switch s {
	case StatusInProgress:
		return ColumnInProgress
	case StatusDone:
		return ColumnDone
	}
	return ColumnTodo
}

// ParseColumn accepts column keys, statuses and a few spellings people type.
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to-do", "to do":
		return ColumnTodo, nil
	case "inprogress", "in-progress", "in progress", "doing", "wip":
		return ColumnInProgress, nil
	case "done":
		return ColumnDone, nil
	}
	return "", fmt.Errorf("unknown column %q", s)
}

// Task is a single card on the board. Timestamps are Unix milliseconds.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// Order holds the master id sequence of every column.
type Order struct {
	Todo       []string `json:"todo"`
	InProgress []string `json:"inProgress"`
	Done       []string `json:"done"`
}

// Column returns the ids in c. The slice must not be modified.
func (o Order) Column(c Column) []string {
	switch c {
	case ColumnTodo:
		return o.Todo
	case ColumnInProgress:
		return o.InProgress
	case ColumnDone:
		return o.Done
	}
	return nil
}

// withColumn returns a copy of o with c replaced by ids.
func (o Order) withColumn(c Column, ids []string) Order {
	switch c {
	case ColumnTodo:
		o.Todo = ids
	case ColumnInProgress:
		o.InProgress = ids
	case ColumnDone:
		o.Done = ids
	}
	return o
}

// Locate finds the column and index holding id.
func (o Order) Locate(id string) (Column, int, bool) {
	for _, c := range Columns {
		if i := indexOf(o.Column(c), id); i >= 0 {
			return c, i, true
		}
	}
	return "", -1, false
}

// Len is the number of ids across all columns.
func (o Order) Len() int {
	return len(o.Todo) + len(o.InProgress) + len(o.Done)
}

// Filters narrows the visible tasks. Zero value shows everything.
type Filters struct {
	Text     string   `json:"text"`
	Priority Priority `json:"priority"`
}

// Active reports whether any filter criterion is set.
func (f Filters) Active() bool {
	return f.Text != "" || f.Priority != PriorityNone
}

// Snapshot is the data-only part of the board, the unit kept in undo/redo history.
type Snapshot struct {
	Tasks   map[string]Task `json:"tasks"`
	Order   Order           `json:"order"`
	Filters Filters         `json:"filters"`
}

// EmptySnapshot returns a board with no tasks.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Tasks: map[string]Task{},
		Order: Order{Todo: []string{}, InProgress: []string{}, Done: []string{}},
	}
}

// State is the live board: current data plus history (most recent first) and
// undone snapshots (most recent first).
type State struct {
	Snapshot
	History []Snapshot
	Future  []Snapshot
}

// EmptyState returns the initial state of a fresh board.
func EmptyState() State {
	return State{Snapshot: EmptySnapshot()}
}

// CanUndo reports whether Undo would change the state.
func (s State) CanUndo() bool { return len(s.History) > 0 }

// CanRedo reports whether Redo would change the state.
func (s State) CanRedo() bool { return len(s.Future) > 0 }

// View projects the state through its own filters.
func (s State) View() Order {
	return Project(s.Tasks, s.Order, s.Filters)
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
