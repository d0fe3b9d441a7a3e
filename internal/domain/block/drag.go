package block

// DragEvent is the end of a drag gesture: the block being dragged and the
// block under the pointer when it was released. An empty OverID means the
// gesture was cancelled or dropped outside any slot.
type DragEvent struct {
	ActiveID string `json:"active_id"`
	OverID   string `json:"over_id"`
}

// ApplyDrag turns a finished drag gesture into a Reorder. It keeps no state.
func ApplyDrag(s Sequence, ev DragEvent) Sequence {
	if ev.OverID == "" || ev.ActiveID == ev.OverID {
		return s.clone()
	}
	from, to := s.IndexOf(ev.ActiveID), s.IndexOf(ev.OverID)
	if from < 0 || to < 0 {
		return s.clone()
	}
	return s.Reorder(from, to)
}
