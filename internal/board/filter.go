package board

import "strings"

// Matches reports whether t passes f. Text matches the title or description
// case-insensitively; an empty text or PriorityNone matches everything.
func Matches(t Task, f Filters) bool {
	if f.Priority != PriorityNone && t.Priority != f.Priority {
		return false
	}
	if f.Text == "" {
		return true
	}
	needle := strings.ToLower(f.Text)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

// Project derives the filtered view of every column. Relative order within a
// column is preserved and ids without a task are dropped.
func Project(tasks map[string]Task, order Order, f Filters) Order {
	keep := func(ids []string) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			t, ok := tasks[id]
			if !ok || !Matches(t, f) {
				continue
			}
			out = append(out, id)
		}
		return out
	}
	return Order{
		Todo:       keep(order.Todo),
		InProgress: keep(order.InProgress),
		Done:       keep(order.Done),
	}
}
