package board

import "time"

// Reducer applies actions to board states. It never mutates the state it is
// given: maps and slices touched by an action are copied first, so earlier
// states (including those held in history) stay valid.
type Reducer struct {
	// Now stamps UpdatedAt. Defaults to time.Now.
	Now func() time.Time
}

// Reduce applies a using the wall clock.
func Reduce(s State, a Action) State {
	return Reducer{}.Reduce(s, a)
}

// Reduce returns the state after applying a to s. Actions that cannot apply
// return s unchanged and record no history.
func (r Reducer) Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddTask:
		return r.addTask(s, a)
	case UpdateTask:
		return r.updateTask(s, a)
	case DeleteTask:
		return r.deleteTask(s, a)
	case MoveTask:
		return r.moveTask(s, a)
	case Undo:
		return undo(s)
	case Redo:
		return redo(s)
	case Hydrate:
		return hydrate(a.Snapshot)
	case SetFilterText:
		next := s
		next.Filters.Text = a.Text
		return next
	case SetFilterPriority:
		if a.Priority != PriorityNone && !a.Priority.Valid() {
			return s
		}
		next := s
		next.Filters.Priority = a.Priority
		return next
	}
	return s
}

func (r Reducer) now() int64 {
	if r.Now != nil {
		return r.Now().UnixMilli()
	}
	return time.Now().UnixMilli()
}

func (r Reducer) addTask(s State, a AddTask) State {
	task := a.Task
	if task.ID == "" || !task.Priority.Valid() {
		return s
	}
	if _, exists := s.Tasks[task.ID]; exists {
		return s
	}
	task.Status = StatusTodo

	next := record(s)
	next.Tasks = withTask(s.Tasks, task)
	todo := make([]string, 0, len(s.Order.Todo)+1)
	todo = append(todo, task.ID)
	todo = append(todo, s.Order.Todo...)
	next.Order = s.Order.withColumn(ColumnTodo, todo)
	return next
}

func (r Reducer) updateTask(s State, a UpdateTask) State {
	task, ok := s.Tasks[a.ID]
	if !ok {
		return s
	}
	if a.Changes.Priority != nil && !a.Changes.Priority.Valid() {
		return s
	}
	if a.Changes.Title != nil {
		task.Title = *a.Changes.Title
	}
	if a.Changes.Description != nil {
		task.Description = *a.Changes.Description
	}
	if a.Changes.Priority != nil {
		task.Priority = *a.Changes.Priority
	}
	task.UpdatedAt = r.now()

	next := record(s)
	next.Tasks = withTask(s.Tasks, task)
	return next
}

func (r Reducer) deleteTask(s State, a DeleteTask) State {
	next := record(s)
	if _, ok := s.Tasks[a.ID]; ok {
		tasks := make(map[string]Task, len(s.Tasks)-1)
		for id, t := range s.Tasks {
			if id != a.ID {
				tasks[id] = t
			}
		}
		next.Tasks = tasks
	}
	next.Order = Order{
		Todo:       without(s.Order.Todo, a.ID),
		InProgress: without(s.Order.InProgress, a.ID),
		Done:       without(s.Order.Done, a.ID),
	}
	return next
}

func (r Reducer) moveTask(s State, a MoveTask) State {
	if !a.From.Valid() || !a.To.Valid() {
		return s
	}
	task, ok := s.Tasks[a.ID]
	if !ok {
		return s
	}
	src := s.Order.Column(a.From)
	if a.FromIndex < 0 || a.FromIndex >= len(src) || src[a.FromIndex] != a.ID {
		return s
	}

	next := record(s)
	source := make([]string, 0, len(src))
	source = append(source, src[:a.FromIndex]...)
	source = append(source, src[a.FromIndex+1:]...)

	if a.From == a.To {
		// Same slice: ToIndex is measured after the removal.
		next.Order = s.Order.withColumn(a.From, insertAt(source, clamp(a.ToIndex, len(source)), a.ID))
		return next
	}

	dst := s.Order.Column(a.To)
	dest := make([]string, 0, len(dst)+1)
	dest = append(dest, dst...)
	next.Order = s.Order.withColumn(a.From, source).withColumn(a.To, insertAt(dest, clamp(a.ToIndex, len(dest)), a.ID))

	task.Status = a.To.Status()
	task.UpdatedAt = r.now()
	next.Tasks = withTask(s.Tasks, task)
	return next
}

// hydrate replaces the data wholesale. Nil collections are normalized so the
// rest of the engine never sees them.
func hydrate(snap Snapshot) State {
	if snap.Tasks == nil {
		snap.Tasks = map[string]Task{}
	}
	if snap.Order.Todo == nil {
		snap.Order.Todo = []string{}
	}
	if snap.Order.InProgress == nil {
		snap.Order.InProgress = []string{}
	}
	if snap.Order.Done == nil {
		snap.Order.Done = []string{}
	}
	return restore(snap, nil, nil)
}

func withTask(tasks map[string]Task, task Task) map[string]Task {
	out := make(map[string]Task, len(tasks)+1)
	for id, t := range tasks {
		out[id] = t
	}
	out[task.ID] = task
	return out
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// insertAt inserts id at i, growing ids in place. ids must be owned by the caller.
func insertAt(ids []string, i int, id string) []string {
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}
