package domain

// PathStep records one matched edge of a transformation path. Steps are
// append-only: once part of a path they are never mutated.
type PathStep struct {
	Source string `json:"source"`
	Target string `json:"target"`
	// Reactions holds the entry IDs of every reaction whose characteristic
	// mass delta explains this step's mass gap. Serialized as "diff" for
	// compatibility with the downstream cluster tools.
	Reactions []string `json:"diff"`
}

// ResultPath is an ordered sequence of steps whose final target mass lies
// within the goal tolerance of the requested end mass.
type ResultPath []PathStep

// Clone returns an independent copy of the path with cap for one more step.
func (p ResultPath) Clone() ResultPath {
	out := make(ResultPath, len(p), len(p)+1)
	copy(out, p)
	return out
}
