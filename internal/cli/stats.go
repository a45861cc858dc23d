package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coauthornet/pkg/graph"
	"github.com/matzehuels/coauthornet/pkg/pipeline"
)

// statsCommand summarizes a network without laying it out.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		top     int
		all     bool
		refresh bool
	)
	cmd := &cobra.Command{
		Use:   "stats [source]",
		Short: "Summarize degrees and categories of a network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := c.sourceArg(args)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Load(cmd.Context(), pipeline.Options{
				Source:     src,
				SourceOpts: c.sourceOptions(runner, refresh),
				GraphOpts:  c.Config.GraphOptions(),
				Logger:     c.Logger,
			})
			if err != nil {
				return err
			}

			cats := g.Categories()
			if !all {
				n := top
				if n <= 0 {
					n = c.Config.Graph.TopCategories
				}
				cats = g.TopCategories(n)
			}
			printGraphStats(g.Stats())
			fmt.Println(categoryTable(cats, g.NodeCount()))
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of categories to list (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "list every category")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "refetch remote sources")
	return cmd
}

func printGraphStats(s graph.Stats) {
	fmt.Println(StyleTitle.Render("Network"))
	printKeyValue("Authors", strconv.Itoa(s.Nodes))
	printKeyValue("Links", strconv.Itoa(s.Links))
	printKeyValue("Degree", fmt.Sprintf("%d to %d", s.MinDegree, s.MaxDegree))
	printKeyValue("Isolated", strconv.Itoa(s.Isolated))
	printKeyValue("Categories", strconv.Itoa(s.Categories))
	printNewline()
}

// categoryTable renders ranked categories with a swatch in their node color.
func categoryTable(cats []graph.CategoryRank, total int) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, len(cats))
	for i, cr := range cats {
		share := 0.0
		if total > 0 {
			share = 100 * float64(cr.Count) / float64(total)
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			cr.Category,
			strconv.Itoa(cr.Count),
			fmt.Sprintf("%.1f%%", share),
			lipgloss.NewStyle().Foreground(lipgloss.Color(cr.Color)).Render("●") + " " + cr.Color,
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Category", "Authors", "Share", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
