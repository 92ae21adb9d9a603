package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zarlcorp/zrows/internal/config"
	"github.com/zarlcorp/zrows/internal/report"
	"github.com/zarlcorp/zrows/internal/verify"
)

// ErrVerifyFailed is returned when a checked file has problems.
var ErrVerifyFailed = errors.New("verification failed")

func newVerifyCmd() *cobra.Command {
	var (
		delimiter string
		rows      int
	)

	cmd := &cobra.Command{
		Use:   "verify <path>",
		Short: "Re-read a generated file and check its structure",
		Long: `Re-reads a generated file and checks the header, the column count,
that ids run 1..N without gaps, and every field's format and range.
Files ending in .lz4 are decompressed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delim, err := config.Config{Delimiter: delimiter}.Delim()
			if err != nil {
				return err
			}

			rep, err := verify.CheckFile(args[0], verify.Options{
				Delimiter:  delim,
				ExpectRows: rows,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rep.OK() {
				fmt.Fprintf(out, "ok: %s rows in %s\n", report.Number(rep.Rows), args[0])
				return nil
			}

			for _, p := range rep.Problems {
				fmt.Fprintf(out, "  %s\n", p)
			}
			if rep.Dropped > 0 {
				fmt.Fprintf(out, "  ... and %s more\n", report.Number(rep.Dropped))
			}
			return fmt.Errorf("%s: %w", args[0], ErrVerifyFailed)
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", ",", `field delimiter, one character or "tab"`)
	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "expected data rows (0 = don't check)")

	return cmd
}
