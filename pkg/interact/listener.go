package interact

import (
	"slices"

	"github.com/matzehuels/coauthornet/pkg/graph"
)

// Highlight is the set of nodes sharing the hovered node's highlight value.
type Highlight struct {
	NodeID string             `json:"node"`
	Key    graph.HighlightKey `json:"key"`
	Value  string             `json:"value"`
	Peers  []string           `json:"peers"`
}

// Contains reports whether id is highlighted.
func (h *Highlight) Contains(id string) bool {
	return h != nil && slices.Contains(h.Peers, id)
}

// Listener receives notifications from a [Controller].
type Listener interface {
	// HoverChanged reports the new highlight, or nil when hover ends.
	HoverChanged(h *Highlight)
	// NodeSelected reports the metadata of a clicked node.
	NodeSelected(m graph.Metadata)
}

// ListenerFuncs adapts functions to [Listener]. Nil fields are skipped.
type ListenerFuncs struct {
	OnHover  func(h *Highlight)
	OnSelect func(m graph.Metadata)
}

// HoverChanged implements [Listener].
func (l ListenerFuncs) HoverChanged(h *Highlight) {
	if l.OnHover != nil {
		l.OnHover(h)
	}
}

// NodeSelected implements [Listener].
func (l ListenerFuncs) NodeSelected(m graph.Metadata) {
	if l.OnSelect != nil {
		l.OnSelect(m)
	}
}
