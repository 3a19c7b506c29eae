package changeset

// Owner receives a notification when a child store transitions from empty
// to non-empty. Log-flavored stores implement it to record the nested slot
// at the child's first touch, so cross-level iteration order stays
// first-write order.
type Owner interface {
	MarkChanged(slot int)
}

// Link points from a child store back to the slot it occupies in its
// parent. The zero Link belongs to a root store and marks nothing.
type Link struct {
	Owner Owner
	Slot  int
}

func (l Link) Mark() {
	if l.Owner != nil {
		l.Owner.MarkChanged(l.Slot)
	}
}
