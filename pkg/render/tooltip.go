package render

import (
	"strconv"

	"github.com/matzehuels/coauthornet/pkg/graph"
)

// Tooltip returns the metadata panel of an author, one line per field.
// Each title gets its own line.
func Tooltip(m graph.Metadata) []string {
	lines := []string{
		"Author: " + m.ID,
		"Affiliation: " + m.Affiliation,
		"Country: " + m.Country,
		"Publications: " + strconv.Itoa(m.Publications),
	}
	if len(m.Titles) == 0 {
		return append(lines, "Titles: No titles available")
	}
	lines = append(lines, "Titles:")
	for _, t := range m.Titles {
		lines = append(lines, "  "+t)
	}
	return lines
}
