package board

// Action is a board transition. The set of actions is closed: only the types
// in this file implement it.
type Action interface {
	action()
}

// AddTask inserts a task at the top of the todo column.
type AddTask struct {
	Task Task
}

// TaskChanges carries the fields UpdateTask merges. Nil fields are left alone.
// Status is absent on purpose: a task only changes column through MoveTask.
type TaskChanges struct {
	Title       *string
	Description *string
	Priority    *Priority
}

// Empty reports whether c would change nothing.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Priority == nil
}

// UpdateTask merges Changes into the task with ID.
type UpdateTask struct {
	ID      string
	Changes TaskChanges
}

// DeleteTask removes a task from the board.
type DeleteTask struct {
	ID string
}

// MoveTask relocates a task between (or within) columns. Indices refer to the
// master order, not a filtered view; see ResolveDrop.
type MoveTask struct {
	ID        string
	From      Column
	To        Column
	FromIndex int
	ToIndex   int
}

// Undo steps back one mutation.
type Undo struct{}

// Redo reapplies the most recently undone mutation.
type Redo struct{}

// Hydrate replaces the board wholesale and drops all undo depth.
type Hydrate struct {
	Snapshot Snapshot
}

// SetFilterText changes the text filter. Not undoable.
type SetFilterText struct {
	Text string
}

// SetFilterPriority changes the priority filter; PriorityNone clears it. Not undoable.
type SetFilterPriority struct {
	Priority Priority
}

func (AddTask) action()           {}
func (UpdateTask) action()        {}
func (DeleteTask) action()        {}
func (MoveTask) action()          {}
func (Undo) action()              {}
func (Redo) action()              {}
func (Hydrate) action()           {}
func (SetFilterText) action()     {}
func (SetFilterPriority) action() {}

// Mutates reports whether a records history when applied.
func Mutates(a Action) bool {
	switch a.(type) {
	case AddTask, UpdateTask, DeleteTask, MoveTask:
		return true
	}
	return false
}

// StringPtr and PriorityPtr help build TaskChanges literals.
func StringPtr(s string) *string { return &s }

func PriorityPtr(p Priority) *Priority { return &p }
