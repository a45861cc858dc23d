package graph

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func sampleGraph(t *testing.T) *Graph {
	t.Helper()
	p := Payload{
		Nodes: []PayloadNode{
			{ID: "ada", Country: "UK", Affiliation: "Cambridge", Publications: 3},
			{ID: "bob", Country: "US", Affiliation: "MIT"},
			{ID: "cy", Country: "UK", Affiliation: "MIT"},
			{ID: "dee", Affiliation: ""},
		},
		Links: []PayloadLink{{Source: "ada", Target: "bob"}, {Source: "bob", Target: "cy"}},
	}
	g, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestPeers(t *testing.T) {
	g := sampleGraph(t)
	tests := []struct {
		name string
		id   string
		key  HighlightKey
		want []string
	}{
		{"CategoryShared", "ada", HighlightCategory, []string{"ada", "cy"}},
		{"CategoryAlone", "bob", HighlightCategory, []string{"bob"}},
		{"AffiliationShared", "bob", HighlightAffiliation, []string{"bob", "cy"}},
		{"EmptyValue", "dee", HighlightCategory, []string{"dee"}},
		{"EmptyAffiliation", "dee", HighlightAffiliation, []string{"dee"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := g.Lookup(tt.id)
			if !ok {
				t.Fatalf("Lookup(%s) failed", tt.id)
			}
			if got := g.Peers(n, tt.key); !slices.Equal(got, tt.want) {
				t.Errorf("Peers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHighlightKeyValid(t *testing.T) {
	for _, k := range []HighlightKey{HighlightCategory, HighlightAffiliation} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if HighlightKey("country").Valid() {
		t.Error("unknown key reported valid")
	}
}

func TestStats(t *testing.T) {
	g := sampleGraph(t)
	s := g.Stats()
	want := Stats{Nodes: 4, Links: 2, MinDegree: 0, MaxDegree: 2, Isolated: 1, Categories: 2}
	if s != want {
		t.Errorf("Stats = %+v, want %+v", s, want)
	}

	empty, err := Build(Payload{})
	if err != nil {
		t.Fatalf("Build(empty): %v", err)
	}
	if s := empty.Stats(); s != (Stats{}) {
		t.Errorf("empty Stats = %+v", s)
	}
}

func TestTopCategories(t *testing.T) {
	g := sampleGraph(t)
	top := g.TopCategories(1)
	if len(top) != 1 || top[0].Category != "UK" || top[0].Count != 2 {
		t.Errorf("TopCategories(1) = %+v", top)
	}
	for _, tt := range []struct {
		n, want int
	}{
		{50, 2},
		{0, 0},
		{-1, 0},
	} {
		if got := g.TopCategories(tt.n); len(got) != tt.want {
			t.Errorf("TopCategories(%d) len = %d, want %d", tt.n, len(got), tt.want)
		}
	}
}

func TestHash(t *testing.T) {
	a := sampleGraph(t)
	b := sampleGraph(t)
	if a.Hash() != b.Hash() {
		t.Error("identical payloads hash differently")
	}
	if len(a.Hash()) != 64 {
		t.Errorf("hash length = %d, want 64", len(a.Hash()))
	}

	c, err := Build(payload([]string{"ada", "bob"}, [][2]string{{"ada", "bob"}}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a.Hash() == c.Hash() {
		t.Error("different graphs share a hash")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	src := `{
	  "nodes": [
	    {"id": "Ada", "country": "UK", "affiliation": "Cambridge", "publications": 2, "titles": ["On Engines", "Notes"]},
	    {"id": "Charles", "country": "UK"}
	  ],
	  "links": [{"source": "Ada", "target": "Charles"}]
	}`
	p, err := ReadPayload(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadPayload: %v", err)
	}
	if len(p.Nodes) != 2 || len(p.Links) != 1 {
		t.Fatalf("payload = %+v", p)
	}
	if p.Nodes[0].Publications != 2 || len(p.Nodes[0].Titles) != 2 {
		t.Errorf("metadata lost: %+v", p.Nodes[0])
	}

	var buf bytes.Buffer
	if err := WritePayload(p, &buf); err != nil {
		t.Fatalf("WritePayload: %v", err)
	}
	q, err := UnmarshalPayload(buf.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalPayload: %v", err)
	}
	if q.Nodes[0].Affiliation != "Cambridge" || q.Links[0].Target != "Charles" {
		t.Errorf("round trip = %+v", q)
	}

	if _, err := ReadPayload(strings.NewReader("{")); err == nil {
		t.Error("expected decode error")
	}
}

func TestMetadataIsCopied(t *testing.T) {
	titles := []string{"x"}
	g, err := Build(Payload{Nodes: []PayloadNode{{ID: "a", Titles: titles}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	titles[0] = "mutated"
	n, _ := g.Lookup("a")
	if n.Meta.Titles[0] != "x" {
		t.Error("node metadata aliases the payload")
	}
}
