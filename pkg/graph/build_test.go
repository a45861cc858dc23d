package graph

import (
	"errors"
	"fmt"
	"testing"
)

func payload(ids []string, links [][2]string) Payload {
	var p Payload
	for _, id := range ids {
		p.Nodes = append(p.Nodes, PayloadNode{ID: id})
	}
	for _, l := range links {
		p.Links = append(p.Links, PayloadLink{Source: l[0], Target: l[1]})
	}
	return p
}

func TestBuildDegrees(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		links [][2]string
		want  map[string]int
	}{
		{
			name:  "Chain",
			ids:   []string{"A", "B", "C"},
			links: [][2]string{{"A", "B"}, {"B", "C"}},
			want:  map[string]int{"A": 1, "B": 2, "C": 1},
		},
		{
			name:  "SelfLinkCountsTwice",
			ids:   []string{"A", "B"},
			links: [][2]string{{"A", "A"}, {"A", "B"}},
			want:  map[string]int{"A": 3, "B": 1},
		},
		{
			name:  "Isolated",
			ids:   []string{"A", "B", "C"},
			links: [][2]string{{"A", "B"}},
			want:  map[string]int{"A": 1, "B": 1, "C": 0},
		},
		{
			name:  "ParallelLinks",
			ids:   []string{"A", "B"},
			links: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  map[string]int{"A": 2, "B": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(payload(tt.ids, tt.links))
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			for id, want := range tt.want {
				n, ok := g.Lookup(id)
				if !ok {
					t.Fatalf("node %s missing", id)
				}
				if n.Degree != want {
					t.Errorf("degree(%s) = %d, want %d", id, n.Degree, want)
				}
			}
		})
	}
}

func TestBuildMalformed(t *testing.T) {
	tests := []struct {
		name     string
		p        Payload
		wantLink int
		wantID   string
	}{
		{
			name:     "UnknownTarget",
			p:        payload([]string{"A", "B"}, [][2]string{{"A", "B"}, {"B", "Z"}}),
			wantLink: 1,
			wantID:   "Z",
		},
		{
			name:     "UnknownSource",
			p:        payload([]string{"A"}, [][2]string{{"Q", "A"}}),
			wantLink: 0,
			wantID:   "Q",
		},
		{
			name:     "DuplicateID",
			p:        payload([]string{"A", "A"}, nil),
			wantLink: -1,
			wantID:   "A",
		},
		{
			name:     "EmptyID",
			p:        payload([]string{"A", ""}, nil),
			wantLink: -1,
			wantID:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.p)
			if err == nil {
				t.Fatal("expected error")
			}
			if g != nil {
				t.Error("graph should be nil on error")
			}
			if !errors.Is(err, ErrMalformedGraph) {
				t.Errorf("errors.Is(err, ErrMalformedGraph) = false for %v", err)
			}
			var mge *MalformedGraphError
			if !errors.As(err, &mge) {
				t.Fatalf("error type = %T, want *MalformedGraphError", err)
			}
			if mge.Link != tt.wantLink {
				t.Errorf("Link = %d, want %d", mge.Link, tt.wantLink)
			}
			if mge.NodeID != tt.wantID {
				t.Errorf("NodeID = %q, want %q", mge.NodeID, tt.wantID)
			}
		})
	}
}

func TestRadiusBoundsAndMonotonic(t *testing.T) {
	// Star plus a tail: degrees 0..9 across nodes.
	ids := []string{"hub", "a", "b", "c", "d", "e", "f", "g", "h", "i", "lonely"}
	var links [][2]string
	for _, id := range ids[1:10] {
		links = append(links, [2]string{"hub", id})
	}
	links = append(links, [2]string{"a", "b"}, [2]string{"a", "c"})

	g, err := Build(payload(ids, links))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, n := range g.Nodes() {
		if n.Radius < DefaultMinRadius || n.Radius > DefaultMaxRadius {
			t.Errorf("radius(%s) = %v outside [%v, %v]", n.ID, n.Radius, DefaultMinRadius, DefaultMaxRadius)
		}
	}
	for _, a := range g.Nodes() {
		for _, b := range g.Nodes() {
			if a.Degree < b.Degree && a.Radius > b.Radius {
				t.Errorf("radius not monotonic: %s(deg %d, r %v) > %s(deg %d, r %v)",
					a.ID, a.Degree, a.Radius, b.ID, b.Degree, b.Radius)
			}
		}
	}

	hub, _ := g.Lookup("hub")
	if hub.Radius != DefaultMaxRadius {
		t.Errorf("max-degree radius = %v, want %v", hub.Radius, DefaultMaxRadius)
	}
	lonely, _ := g.Lookup("lonely")
	if lonely.Radius != DefaultMinRadius {
		t.Errorf("zero-degree radius = %v, want %v", lonely.Radius, DefaultMinRadius)
	}
}

func TestRadiusEqualDegrees(t *testing.T) {
	t.Run("Ring", func(t *testing.T) {
		g, err := Build(payload([]string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}}))
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		want := g.Nodes()[0].Radius
		for _, n := range g.Nodes() {
			if n.Radius != want {
				t.Errorf("radius(%s) = %v, want %v", n.ID, n.Radius, want)
			}
		}
		if want != (DefaultMinRadius+DefaultMaxRadius)/2 {
			t.Errorf("equal-degree radius = %v, want range midpoint", want)
		}
	})

	t.Run("NoLinks", func(t *testing.T) {
		g, err := Build(payload([]string{"A", "B"}, nil))
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		for _, n := range g.Nodes() {
			if n.Radius != DefaultMinRadius {
				t.Errorf("radius(%s) = %v, want %v", n.ID, n.Radius, DefaultMinRadius)
			}
		}
	})
}

func TestChainRadius(t *testing.T) {
	g, err := Build(payload([]string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, _ := g.Lookup("A")
	b, _ := g.Lookup("B")
	c, _ := g.Lookup("C")
	if !(b.Radius > a.Radius) || a.Radius != c.Radius {
		t.Errorf("radii A=%v B=%v C=%v, want B largest and A==C", a.Radius, b.Radius, c.Radius)
	}
}

func TestWithRadiusRange(t *testing.T) {
	g, err := Build(payload([]string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}}), WithRadiusRange(20, 5))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, _ := g.Lookup("B")
	a, _ := g.Lookup("A")
	if b.Radius != 20 || a.Radius != 5 {
		t.Errorf("radii A=%v B=%v, want 5 and 20", a.Radius, b.Radius)
	}
}

func TestColorAssignment(t *testing.T) {
	// Eleven distinct categories: c0 most frequent ... c10 least frequent.
	var p Payload
	for c := 0; c < 11; c++ {
		for k := 0; k < 12-c; k++ {
			p.Nodes = append(p.Nodes, PayloadNode{
				ID:      fmt.Sprintf("c%d-%d", c, k),
				Country: fmt.Sprintf("country-%d", c),
			})
		}
	}
	p.Nodes = append(p.Nodes, PayloadNode{ID: "nowhere"})

	g, err := Build(p)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[string]string)
	for _, n := range g.Nodes() {
		switch {
		case n.ID == "nowhere":
			if n.Color != NeutralColor {
				t.Errorf("empty category color = %s, want neutral", n.Color)
			}
		case n.Category == "country-10":
			if n.Color != NeutralColor {
				t.Errorf("11th category color = %s, want neutral", n.Color)
			}
		default:
			if n.Color == NeutralColor {
				t.Errorf("%s got neutral color", n.Category)
			}
			if prev, ok := seen[n.Color]; ok && prev != n.Category {
				t.Errorf("color %s shared by %s and %s", n.Color, prev, n.Category)
			}
			seen[n.Color] = n.Category
		}
	}
	if len(seen) != 10 {
		t.Errorf("distinct palette colors = %d, want 10", len(seen))
	}

	first, _ := g.Lookup("c0-0")
	if first.Color != DefaultPalette[0] {
		t.Errorf("top category color = %s, want %s", first.Color, DefaultPalette[0])
	}
}

func TestColorTiesFirstOccurrence(t *testing.T) {
	p := Payload{Nodes: []PayloadNode{
		{ID: "1", Country: "UK"},
		{ID: "2", Country: "US"},
		{ID: "3", Country: "US"},
		{ID: "4", Country: "UK"},
		{ID: "5", Country: "FR"},
	}}
	g, err := Build(p, WithTopCategories(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ranked := g.Categories()
	if ranked[0].Category != "UK" || ranked[1].Category != "US" || ranked[2].Category != "FR" {
		t.Fatalf("ranking = %+v, want UK, US, FR", ranked)
	}

	uk, _ := g.Lookup("1")
	us, _ := g.Lookup("2")
	if uk.Color != DefaultPalette[0] {
		t.Errorf("UK color = %s, want %s", uk.Color, DefaultPalette[0])
	}
	if us.Color != NeutralColor {
		t.Errorf("US color = %s, want neutral (outside top 1)", us.Color)
	}
}

func TestCategoryOverridesCountry(t *testing.T) {
	g, err := Build(Payload{Nodes: []PayloadNode{{ID: "a", Country: "UK", Category: "Physics"}}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	n, _ := g.Lookup("a")
	if n.Category != "Physics" {
		t.Errorf("Category = %q, want Physics", n.Category)
	}
	if n.Meta.Country != "UK" {
		t.Errorf("Meta.Country = %q, want UK", n.Meta.Country)
	}
}
