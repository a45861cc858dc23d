package graph_test

import (
	"fmt"

	"github.com/matzehuels/coauthornet/pkg/graph"
)

func ExampleBuild() {
	p := graph.Payload{
		Nodes: []graph.PayloadNode{
			{ID: "A", Country: "UK"},
			{ID: "B", Country: "US"},
			{ID: "C", Country: "UK"},
		},
		Links: []graph.PayloadLink{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
		},
	}
	g, err := graph.Build(p)
	if err != nil {
		panic(err)
	}
	for _, n := range g.Nodes() {
		fmt.Printf("%s degree=%d radius=%.1f color=%s\n", n.ID, n.Degree, n.Radius, n.Color)
	}
	// Output:
	// A degree=1 radius=3.0 color=#e41a1c
	// B degree=2 radius=12.0 color=#377eb8
	// C degree=1 radius=3.0 color=#e41a1c
}

func ExampleBuild_malformed() {
	p := graph.Payload{
		Nodes: []graph.PayloadNode{{ID: "A"}},
		Links: []graph.PayloadLink{{Source: "A", Target: "ghost"}},
	}
	_, err := graph.Build(p)
	fmt.Println(err)
	// Output:
	// malformed graph: link 0: unknown target node "ghost"
}
