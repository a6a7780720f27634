package board

import (
	"fmt"
	"sort"
)

// Problem is a single invariant violation found by Validate.
type Problem struct {
	TaskID string
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.TaskID, p.Reason)
}

// Validate checks the ordering and status invariants of snap: every ordered id
// appears exactly once, has a task, and that task's status matches its column;
// every task is ordered. Problems are sorted by task id.
func Validate(snap Snapshot) []Problem {
	var problems []Problem
	seen := make(map[string]Column, len(snap.Tasks))

	for _, c := range Columns {
		for _, id := range snap.Order.Column(c) {
			if prev, dup := seen[id]; dup {
				problems = append(problems, Problem{id, fmt.Sprintf("listed in %s and %s", prev, c)})
				continue
			}
			seen[id] = c
			t, ok := snap.Tasks[id]
			if !ok {
				problems = append(problems, Problem{id, fmt.Sprintf("in %s but has no task", c)})
				continue
			}
			if t.Status != c.Status() {
				problems = append(problems, Problem{id, fmt.Sprintf("status %q but held in %s", t.Status, c)})
			}
		}
	}
	for id, t := range snap.Tasks {
		if _, ok := seen[id]; !ok {
			problems = append(problems, Problem{id, "task is not in any column"})
		}
		if t.ID != id {
			problems = append(problems, Problem{id, fmt.Sprintf("keyed under %q but id is %q", id, t.ID)})
		}
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].TaskID < problems[j].TaskID })
	return problems
}
