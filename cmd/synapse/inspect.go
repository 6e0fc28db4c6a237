package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"synapse/internal/bind"
	"synapse/internal/driver"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <file.sbb>...",
	Short: "Decode binary binding containers and summarize them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Int("jobs", 0, "max parallel decoders (0=auto)")
	inspectCmd.Flags().Bool("items", false, "print every item with its edges and tables")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

const maxPathWidth = 40

func runInspect(cmd *cobra.Command, args []string) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	showItems, err := cmd.Flags().GetBool("items")
	if err != nil {
		return fmt.Errorf("failed to get items flag: %w", err)
	}

	results, err := driver.Inspect(cmd.Context(), args, jobs)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("FILE", "BINDING", "OP", "ITEMS", "FUNCS", "OVERLOADS", "REG").
		Rows(summaryRows(results)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintln(w, errStyle.Render(r.Err.Error()))
			continue
		}
		if showItems {
			for _, b := range r.Bindings {
				writeStates(w, b)
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be decoded", failed, len(results))
	}
	return nil
}

func summaryRows(results []driver.Inspection) [][]string {
	var rows [][]string
	for _, r := range results {
		file := shorten(r.Path, maxPathWidth)
		if r.Err != nil {
			rows = append(rows, []string{file, "-", "-", "-", "-", "-", "error"})
			continue
		}
		for _, b := range r.Bindings {
			reg := "no"
			if b.Register {
				reg = "yes"
			}
			rows = append(rows, []string{
				file,
				b.Name,
				b.Operator.Symbol(),
				strconv.Itoa(len(b.Named())),
				strconv.Itoa(len(b.Functions)),
				strconv.Itoa(len(b.Overloads)),
				reg,
			})
		}
	}
	return rows
}

// shorten keeps the tail of long paths; the file name is the useful part.
func shorten(p string, width int) string {
	if runewidth.StringWidth(p) <= width {
		return p
	}
	r := []rune(p)
	for len(r) > 0 && runewidth.StringWidth(string(r))+3 > width {
		r = r[1:]
	}
	return "..." + string(r)
}

// writeStates prints the item state machine of b, root first.
func writeStates(w io.Writer, b *bind.Binding) {
	fmt.Fprintf(w, "%s %s\n", b.Operator.Symbol(), itemStyle.Render(b.Name))
	fmt.Fprintln(w, "  "+describeItem(b, b.RootItem(), "<root>"))
	for _, id := range b.Named() {
		it := b.Item(id)
		fmt.Fprintln(w, "  "+describeItem(b, it, it.Name))
	}
}

func describeItem(b *bind.Binding, it *bind.Item, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s %s]", name, it.Kind, it.Operator.Symbol())
	for _, op := range slices.Sorted(maps.Keys(it.Next)) {
		fmt.Fprintf(&sb, " %s%s", op.Symbol(), b.Item(it.Next[op]).Name)
	}
	for _, lit := range slices.Sorted(maps.Keys(it.Statics)) {
		fmt.Fprintf(&sb, " %s=>%s", lit, b.Item(it.Statics[lit]).Name)
	}
	tables := []struct {
		label string
		t     bind.Table
	}{
		{"get", it.Getter}, {"set", it.Setter}, {"ops", it.Overloads}, {"fn", it.Functions},
	}
	for _, tb := range tables {
		if len(tb.t) > 0 {
			fmt.Fprintf(&sb, " %s{%s}", tb.label, strings.Join(tb.t.Keys(), " "))
		}
	}
	return sb.String()
}
