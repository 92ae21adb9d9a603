package cli

import (
	"fmt"

	"github.com/oleg578/swiftcsv"
	"github.com/spf13/cobra"

	"github.com/zarlcorp/zrows/internal/config"
	"github.com/zarlcorp/zrows/internal/dataset"
	"github.com/zarlcorp/zrows/internal/report"
	"github.com/zarlcorp/zrows/internal/table"
)

func newRowsCmd() *cobra.Command {
	var (
		delimiter string
		from      int
		count     int
		total     bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "rows <path>",
		Short: "Print a window of rows from a large file",
		Long: `Prints rows from..from+count-1 (1-based, header excluded) without reading
the whole file. Only the lines up to the window are indexed.`,
		Example: `  zrows rows large_test_data.csv --from 5000000 --count 20
  zrows rows out.csv -d ';' --from 1 --count 3 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from < 1 {
				return fmt.Errorf("%w: --from must be at least 1, got %d", dataset.ErrInvalidArgument, from)
			}
			delim, err := config.Config{Delimiter: delimiter}.Delim()
			if err != nil {
				return err
			}

			tbl, err := table.Open(args[0], table.Options{Delimiter: delim})
			if err != nil {
				return err
			}
			defer tbl.Close()

			rows, err := tbl.Rows(from-1, count)
			if err != nil {
				return err
			}

			if total {
				n, err := tbl.RowCount()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s rows in %s\n", report.Number(n), args[0])
			}

			if asJSON {
				head := tbl.Header()
				objs := make([]map[string]string, len(rows))
				for i, row := range rows {
					obj := make(map[string]string, len(head))
					for j, name := range head {
						obj[name] = row[j]
					}
					objs[i] = obj
				}
				return printJSON(cmd.OutOrStdout(), objs)
			}

			w := swiftcsv.NewWriter(cmd.OutOrStdout())
			w.Comma = byte(delim)
			if err := w.Write(tbl.Header()); err != nil {
				return err
			}
			for _, row := range rows {
				if err := w.Write(row); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", ",", `field delimiter, one character or "tab"`)
	cmd.Flags().IntVar(&from, "from", 1, "first row to print, 1-based")
	cmd.Flags().IntVar(&count, "count", 20, "rows to print")
	cmd.Flags().BoolVar(&total, "total", false, "also count every row (reads the whole file)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON objects keyed by header")

	return cmd
}
