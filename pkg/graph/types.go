package graph

// =============================================================================
// Payload - Wire Format
// =============================================================================

// Payload is the raw graph delivered by a source before normalization.
type Payload struct {
	Nodes []PayloadNode `json:"nodes" bson:"nodes"`
	Links []PayloadLink `json:"links" bson:"links"`
}

// PayloadNode is a single author record.
type PayloadNode struct {
	ID           string   `json:"id" bson:"id"`
	Category     string   `json:"category,omitempty" bson:"category,omitempty"` // Coloring key (defaults to Country)
	Country      string   `json:"country,omitempty" bson:"country,omitempty"`
	Affiliation  string   `json:"affiliation,omitempty" bson:"affiliation,omitempty"`
	Publications int      `json:"publications,omitempty" bson:"publications,omitempty"`
	Titles       []string `json:"titles,omitempty" bson:"titles,omitempty"`
}

// PayloadLink is a collaboration between two authors, by id.
type PayloadLink struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// category returns the coloring key of the record.
func (n PayloadNode) category() string {
	if n.Category != "" {
		return n.Category
	}
	return n.Country
}

// =============================================================================
// Graph Model
// =============================================================================

// Metadata is the opaque per-author passthrough reported on selection.
type Metadata struct {
	ID           string   `json:"id"`
	Affiliation  string   `json:"affiliation,omitempty"`
	Country      string   `json:"country,omitempty"`
	Publications int      `json:"publications"`
	Titles       []string `json:"titles,omitempty"`
}

// Node is a normalized author. All fields are fixed after [Build].
type Node struct {
	ID       string
	Index    int // Position in Graph.Nodes, aligned with simulation particles
	Category string
	Degree   int
	Radius   float64
	Color    string
	Meta     Metadata
}

// Link is a collaboration resolved to node indices.
type Link struct {
	Source int
	Target int
}

// HighlightKey selects which attribute groups nodes for hover highlighting.
type HighlightKey string

// Highlight keys.
const (
	HighlightCategory    HighlightKey = "category"
	HighlightAffiliation HighlightKey = "affiliation"
)

// Valid reports whether k is a known highlight key.
func (k HighlightKey) Valid() bool {
	return k == HighlightCategory || k == HighlightAffiliation
}

// CategoryRank is one entry of the color legend.
type CategoryRank struct {
	Category string
	Count    int
	Color    string
}

// Stats summarizes a built graph.
type Stats struct {
	Nodes      int
	Links      int
	MinDegree  int
	MaxDegree  int
	Isolated   int // Nodes without links
	Categories int // Distinct non-empty categories
}
