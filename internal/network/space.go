// Package network builds the node space searched by the path engine: central
// masses kept as-is plus every adduct expansion of every observed mass.
package network

import (
	"github.com/metabolica/metanet/internal/adduct"
	"github.com/metabolica/metanet/internal/domain"
)

// Space is the read-only set of searchable nodes, shared by every search run.
type Space struct {
	nodes []domain.Node
	byKey map[string]int
}

// Build constructs the node space. Central masses become one node each, keyed
// by their decimal form. Observed masses expand into one node per adduct
// rule. Duplicate keys overwrite silently: repeated central or observed
// masses are expected to coalesce into a single node.
func Build(central, observed []float64, adducts *adduct.Table) *Space {
	s := &Space{
		nodes: make([]domain.Node, 0, len(central)+len(observed)*adducts.Len()),
		byKey: make(map[string]int, len(central)+len(observed)*adducts.Len()),
	}
	for _, w := range central {
		key := domain.FormatMass(w)
		s.put(domain.Node{Key: key, BaseWeight: key, Mass: w})
	}
	for _, w := range observed {
		base := domain.FormatMass(w)
		for _, rule := range adducts.Rules() {
			key, adjusted := rule.Apply(w)
			s.put(domain.Node{Key: key, BaseWeight: base, Mass: adjusted})
		}
	}
	return s
}

func (s *Space) put(n domain.Node) {
	if i, ok := s.byKey[n.Key]; ok {
		s.nodes[i] = n
		return
	}
	s.byKey[n.Key] = len(s.nodes)
	s.nodes = append(s.nodes, n)
}

// Nodes returns all nodes in insertion order. Callers must not mutate.
func (s *Space) Nodes() []domain.Node {
	return s.nodes
}

// Lookup resolves a node by key.
func (s *Space) Lookup(key string) (domain.Node, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return domain.Node{}, false
	}
	return s.nodes[i], true
}

// Len reports the number of distinct nodes.
func (s *Space) Len() int {
	return len(s.nodes)
}
