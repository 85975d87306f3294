package cmd

import (
	"fmt"
	"io"

	"qcreg/internal/db"
	"qcreg/internal/ui"

	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag"
)

type oplogOptions struct {
	limit  int
	output outputFormat
}

func newOplogCmd(root *rootOptions) *cobra.Command {
	opts := &oplogOptions{}
	cmd := &cobra.Command{
		Use:   "oplog",
		Short: "Print the operation log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOplog(root, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&opts.limit, "limit", 50, "Number of most recent entries to print (0 for all)")
	cmd.Flags().VarP(enumflag.New(&opts.output, "format", outputFormatIds, enumflag.EnumCaseInsensitive), "output", "o", "Output format: table, json or yaml")
	return cmd
}

func runOplog(root *rootOptions, opts *oplogOptions, out io.Writer) error {
	if opts.limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}

	database, err := root.openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	logs, err := db.ListOperationLogs(database, opts.limit)
	if err != nil {
		return err
	}

	if opts.output != outputTable {
		return writeStructured(out, opts.output, newOperationLogOutputs(logs))
	}
	if len(logs) == 0 {
		_, err = fmt.Fprintln(out, "The operation log is empty.")
		return err
	}
	_, err = fmt.Fprintln(out, renderTable(ui.OperationLogColumns(), logs))
	return err
}
