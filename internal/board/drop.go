package board

// Drop describes a drag-and-drop gesture as the user saw it: Index is a slot in
// the filtered view of the destination column.
type Drop struct {
	TaskID string
	From   Column
	To     Column
	Index  int
}

// ResolveDrop maps a drop over the filtered view onto the master order. The
// task lands before whichever task occupies the chosen visible slot, however
// many hidden tasks sit in between; a slot past the last visible task appends
// to the master column.
//
// It returns false when the gesture is stale: the task has left its source
// column, or the anchor task is no longer in the destination column.
func ResolveDrop(master, filtered Order, d Drop) (MoveTask, bool) {
	if !d.From.Valid() || !d.To.Valid() {
		return MoveTask{}, false
	}
	src := indexOf(master.Column(d.From), d.TaskID)
	if src < 0 {
		return MoveTask{}, false
	}

	visible := filtered.Column(d.To)
	dst := len(master.Column(d.To))
	if d.Index >= 0 && d.Index < len(visible) {
		dst = indexOf(master.Column(d.To), visible[d.Index])
		if dst < 0 {
			return MoveTask{}, false
		}
	} else if d.Index < 0 {
		return MoveTask{}, false
	}

	return MoveTask{
		ID:        d.TaskID,
		From:      d.From,
		To:        d.To,
		FromIndex: src,
		ToIndex:   dst,
	}, true
}
