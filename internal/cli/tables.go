package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"epicevents.org/internal/store"
)

// TableOptions configures a tabular rendering.
type TableOptions struct {
	Title   string
	Headers []string
	OrderBy []store.OrderField
}

// RenderTable prints rows as a bordered table. An empty row set prints
// an informational line instead of an empty frame.
func (c *Console) RenderTable(rows [][]string, opts TableOptions) {
	if len(rows) == 0 {
		c.InfoMessage("No data available!")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(opts.Headers...).
		Rows(rows...)

	c.NewLine()
	if opts.Title != "" {
		c.println("   " + headlineStyle.Render(opts.Title))
	}
	if len(opts.OrderBy) > 0 {
		annotations := make([]string, 0, len(opts.OrderBy))
		for _, field := range opts.OrderBy {
			annotations = append(annotations, field.Annotation())
		}
		c.println("   " + orderingStyle.Render("Ordered by: "+strings.Join(annotations, ", ")))
	}
	c.printIndented(t.Render())
	c.NewLine()
}

// RenderKeyValueTable prints one record as attribute/value pairs, used
// for the summary shown after a create or update.
func (c *Console) RenderKeyValueTable(title string, pairs [][2]string) {
	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{p[0], p[1]})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return titleStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Rows(rows...)

	c.NewLine()
	if title != "" {
		c.println("   " + headlineStyle.Render(title))
	}
	c.printIndented(t.Render())
	c.NewLine()
}

func (c *Console) printIndented(block string) {
	for _, line := range strings.Split(block, "\n") {
		c.println("   " + line)
	}
}
