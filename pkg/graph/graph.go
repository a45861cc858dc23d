package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Graph is the normalized, structurally immutable co-authorship network.
// It is safe for concurrent reads.
type Graph struct {
	nodes   []*Node
	links   []Link
	index   map[string]int
	ranking []CategoryRank
}

// Nodes returns the nodes in payload order. Callers must not modify them.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Links returns the resolved links in payload order.
func (g *Graph) Links() []Link { return g.links }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.links) }

// Lookup returns the node with the given id.
func (g *Graph) Lookup(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Categories returns every non-empty category ranked by count, with the
// color each one renders in.
func (g *Graph) Categories() []CategoryRank { return g.ranking }

// TopCategories returns the n highest ranked categories. n is clamped to
// [0, len(Categories())].
func (g *Graph) TopCategories(n int) []CategoryRank {
	return g.ranking[:max(0, min(n, len(g.ranking)))]
}

// HighlightValue returns the attribute of n that key groups by.
func HighlightValue(n *Node, key HighlightKey) string {
	if key == HighlightAffiliation {
		return n.Meta.Affiliation
	}
	return n.Category
}

// Peers returns the ids of all nodes sharing n's value for key, n included.
// An empty value has no peers besides n itself.
func (g *Graph) Peers(n *Node, key HighlightKey) []string {
	value := HighlightValue(n, key)
	if value == "" {
		return []string{n.ID}
	}
	var ids []string
	for _, m := range g.nodes {
		if HighlightValue(m, key) == value {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

// Stats summarizes degree and category distribution.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.nodes), Links: len(g.links), Categories: len(g.ranking)}
	for i, n := range g.nodes {
		if i == 0 {
			s.MinDegree, s.MaxDegree = n.Degree, n.Degree
		}
		s.MinDegree = min(s.MinDegree, n.Degree)
		s.MaxDegree = max(s.MaxDegree, n.Degree)
		if n.Degree == 0 {
			s.Isolated++
		}
	}
	return s
}

// Hash returns a stable SHA-256 over the structural content of the graph
// (ids, categories, links). It keys cached layout snapshots.
func (g *Graph) Hash() string {
	type node struct {
		ID       string `json:"id"`
		Category string `json:"c,omitempty"`
	}
	v := struct {
		Nodes []node   `json:"n"`
		Links [][2]int `json:"l"`
	}{
		Nodes: make([]node, len(g.nodes)),
		Links: make([][2]int, len(g.links)),
	}
	for i, n := range g.nodes {
		v.Nodes[i] = node{ID: n.ID, Category: n.Category}
	}
	for i, l := range g.links {
		v.Links[i] = [2]int{l.Source, l.Target}
	}
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
