package board

// MaxHistory bounds the undo depth. Older snapshots are dropped silently.
const MaxHistory = 15

// capture strips history and future from s.
func capture(s State) Snapshot {
	return s.Snapshot
}

// restore builds a live state around snap.
func restore(snap Snapshot, history, future []Snapshot) State {
	return State{Snapshot: snap, History: history, Future: future}
}

// record pushes the current data onto History and discards Future. Every
// mutating action goes through here before applying its effect.
func record(s State) State {
	n := len(s.History) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	history := make([]Snapshot, 0, n)
	history = append(history, capture(s))
	history = append(history, s.History[:n-1]...)
	return restore(s.Snapshot, history, nil)
}

func undo(s State) State {
	if len(s.History) == 0 {
		return s
	}
	previous := s.History[0]
	history := append([]Snapshot(nil), s.History[1:]...)
	future := make([]Snapshot, 0, len(s.Future)+1)
	future = append(future, capture(s))
	future = append(future, s.Future...)
	return restore(previous, history, future)
}

func redo(s State) State {
	if len(s.Future) == 0 {
		return s
	}
	next := s.Future[0]
	future := append([]Snapshot(nil), s.Future[1:]...)
	history := make([]Snapshot, 0, len(s.History)+1)
	history = append(history, capture(s))
	history = append(history, s.History...)
	return restore(next, history, future)
}
