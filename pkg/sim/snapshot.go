package sim

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/coauthornet/pkg/force"
)

// Point is a model-space position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is a serializable layout used to warm-start a simulation on the
// same graph.
type Snapshot struct {
	GraphHash string           `json:"graph_hash"`
	Tick      int              `json:"tick"`
	Alpha     float64          `json:"alpha"`
	Params    force.Params     `json:"params"`
	Positions map[string]Point `json:"positions"`
}

// Snapshot captures the current positions by node id.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		GraphHash: s.g.Hash(),
		Tick:      s.tick,
		Alpha:     s.alpha,
		Params:    s.params,
		Positions: make(map[string]Point, len(s.ps)),
	}
	for i, n := range s.g.Nodes() {
		snap.Positions[n.ID] = Point{X: s.ps[i].X, Y: s.ps[i].Y}
	}
	return snap
}

// Restore moves every node present in snap to its recorded position with zero
// velocity. Unknown ids are skipped. It returns the number of nodes restored.
// Alpha and state are left alone; callers reheat as they see fit.
func (s *Simulation) Restore(snap Snapshot) int {
	n := 0
	for i, node := range s.g.Nodes() {
		pt, ok := snap.Positions[node.ID]
		if !ok {
			continue
		}
		p := &s.ps[i]
		p.X, p.Y, p.VX, p.VY = pt.X, pt.Y, 0, 0
		n++
	}
	return n
}

// MarshalSnapshot encodes a snapshot as JSON.
func MarshalSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}

// UnmarshalSnapshot decodes a snapshot produced by [MarshalSnapshot].
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
