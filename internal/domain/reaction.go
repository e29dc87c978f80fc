package domain

// ReactionDelta is one row of the reaction difference table: a known
// reaction and its characteristic mass change. The same entry may appear
// multiple times with different deltas; each row stands on its own.
type ReactionDelta struct {
	EntryID  string
	DiffMass float64
}
