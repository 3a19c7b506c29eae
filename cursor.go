package changeset

// Cursor is the shape shared by all generated store cursors: Next advances
// to the following change and reports whether one exists, Change returns
// the current one. Concrete cursors are value types, so assigning one to
// another variable forks the iteration; both copies advance independently.
// For a restartable range-over-func sequence, use the store's Seq method.
type Cursor[C any] interface {
	Next() bool
	Change() C
}

// All drains a cursor into a slice, starting from its current position.
func All[C any, K Cursor[C]](c K) []C {
	var result []C
	for c.Next() {
		result = append(result, c.Change())
	}
	return result
}
