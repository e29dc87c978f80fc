package domain

import (
	"math"
	"strconv"
	"strings"
)

// Node is a single searchable point in the mass network: either a central
// (neutral) mass used as-is, or an observed mass adjusted by one adduct rule.
type Node struct {
	// Key uniquely identifies the node. Central nodes use the bare decimal
	// form of their mass; adduct-derived nodes use "{weight}{sign}{ion}".
	Key string
	// BaseWeight is the originating compound identifier before any adduct
	// adjustment. Central nodes have BaseWeight == Key.
	BaseWeight string
	// Mass is the adduct-adjusted value used in all comparisons.
	Mass float64
}

// FormatMass renders a mass the way node keys and central identifiers are
// written in the input files: shortest decimal form that round-trips.
func FormatMass(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// BaseWeight strips any adduct suffix from a node key, returning the
// originating compound identifier.
func BaseWeight(key string) string {
	if i := strings.IndexAny(key, "+-"); i >= 0 {
		return key[:i]
	}
	return key
}

// PPMDiff reports the relative difference between mass and ref in parts per
// million of ref.
func PPMDiff(mass, ref float64) float64 {
	return math.Abs(mass-ref) / ref * 1e6
}
