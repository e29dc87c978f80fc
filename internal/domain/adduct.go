package domain

// AdductSign indicates whether ionization added or removed mass.
type AdductSign byte

const (
	// AdductAdd marks adducts written "+X": the ion added mass during
	// ionization, so recovering the candidate mass subtracts it.
	AdductAdd AdductSign = '+'
	// AdductRemove marks adducts written "-X": mass was removed, so the
	// candidate mass adds it back.
	AdductRemove AdductSign = '-'
)

// AdductRule is one entry of the adduct table. Immutable once loaded.
type AdductRule struct {
	Ion  string
	Sign AdductSign
	Mass float64
}

// Label renders the rule back into its file form, e.g. "+H".
func (r AdductRule) Label() string {
	return string(r.Sign) + r.Ion
}

// Apply derives the node key and adjusted mass for an observed weight.
func (r AdductRule) Apply(originalWeight float64) (key string, adjusted float64) {
	base := FormatMass(originalWeight)
	if r.Sign == AdductAdd {
		return base + "+" + r.Ion, originalWeight - r.Mass
	}
	return base + "-" + r.Ion, originalWeight + r.Mass
}
