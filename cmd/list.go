package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"qcreg/internal/config"
	"qcreg/internal/db"
	"qcreg/internal/model"
	"qcreg/internal/rowsort"
	"qcreg/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag"
	"go.uber.org/zap"
)

type listOptions struct {
	sortKey string
	order   orderFlag
	filter  string
	output  outputFormat
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print registered QC documents",
		Long: `Print registered QC documents in registration order, or sorted by a
column with the same rules as the interactive table: empty cells last,
numbers by value, text by locale collation.

Example:
  qcreg list --sort pos --order desc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(root, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.sortKey, "sort", "", "Column key to sort by (seq, sel, name, lot, level, assay, pos, mean, sd, expiry, registered)")
	cmd.Flags().Var(enumflag.New(&opts.order, "order", orderFlagIds, enumflag.EnumCaseInsensitive), "order", "Sort order: asc, desc or none")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Only documents whose name, lot or assay contains this text")
	cmd.Flags().VarP(enumflag.New(&opts.output, "format", outputFormatIds, enumflag.EnumCaseInsensitive), "output", "o", "Output format: table, json or yaml")
	return cmd
}

func runList(root *rootOptions, opts *listOptions, out io.Writer) error {
	columns := ui.QcDocColumns()
	order := opts.order.order()

	var key func(model.QcDocRow) rowsort.Value
	if opts.sortKey != "" {
		var err error
		key, err = sortKey(columns, opts.sortKey, root.cfg.Unsortable(config.TableQcDocs))
		if err != nil {
			return err
		}
	}

	database, err := root.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	docs, err := db.ListQcDocs(database, opts.filter)
	if err != nil {
		return err
	}

	cmp := rowsort.NewComparator(root.cfg.Locale)
	rowsort.Sort(cmp, docs, order, key, ui.QcDocSeq)
	root.logger.Debug("listing qc documents",
		zap.Int("count", len(docs)),
		zap.String("sort", opts.sortKey),
		zap.Stringer("order", order))

	if opts.output != outputTable {
		return writeStructured(out, opts.output, newQcDocOutputs(docs))
	}
	_, err = fmt.Fprintln(out, renderTable(columns, docs))
	return err
}

// sortKey resolves a column key to its sort value, refusing columns that
// have no sort role.
func sortKey[R any](columns []ui.Column[R], key string, unsortable []string) (func(R) rowsort.Value, error) {
	for _, c := range columns {
		if !strings.EqualFold(c.Key, key) {
			continue
		}
		if c.Value == nil || slices.Contains(unsortable, c.Key) {
			return nil, fmt.Errorf("column %q is not sortable", c.Key)
		}
		return c.Value, nil
	}
	return nil, fmt.Errorf("unknown column %q", key)
}

// renderTable renders the visible columns of rows as a bordered table.
func renderTable[R any](columns []ui.Column[R], rows []R) string {
	var headers []string
	var visible []ui.Column[R]
	for _, c := range columns {
		if c.Hidden {
			continue
		}
		visible = append(visible, c)
		headers = append(headers, strings.ToUpper(c.Label))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorMuted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(ui.ColorAccent)
			}
			return style
		})

	for _, r := range rows {
		cells := make([]string, 0, len(visible))
		for _, c := range visible {
			cells = append(cells, c.Cell(r))
		}
		t.Row(cells...)
	}
	return t.String()
}
