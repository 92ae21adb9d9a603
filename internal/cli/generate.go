package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/zarlcorp/zrows/internal/batch"
	"github.com/zarlcorp/zrows/internal/config"
	"github.com/zarlcorp/zrows/internal/dataset"
	"github.com/zarlcorp/zrows/internal/report"
	"github.com/zarlcorp/zrows/internal/tui"
)

type generateFlags struct {
	configPath  string
	rows        int
	batchSize   int
	delimiter   string
	crlf        bool
	compression string
	seed        uint64
	plain       bool
}

func newGenerateCmd(version string) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Write synthetic rows to a delimited text file",
		Example: `  # ten million rows in batches of 100k
  zrows generate large_test_data.csv --rows 10000000

  # reproducible, semicolon separated, lz4 framed
  zrows generate out.csv.lz4 -n 50000 -d ';' --seed 42 --compress lz4

  # settings from a file, path overridden
  zrows generate other.csv --config run.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, args)
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			return runGenerate(cmd, version, opts, f.plain)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML run file")
	fl.IntVarP(&f.rows, "rows", "n", 0, "total rows to write (required)")
	fl.IntVarP(&f.batchSize, "batch-size", "b", dataset.DefaultBatchSize, "rows generated and written per batch")
	fl.StringVarP(&f.delimiter, "delimiter", "d", ",", `field delimiter, one character or "tab"`)
	fl.BoolVar(&f.crlf, "crlf", false, `terminate lines with \r\n`)
	fl.StringVar(&f.compression, "compress", string(dataset.CompressionNone), "output framing: none or lz4")
	fl.Uint64Var(&f.seed, "seed", 0, "seed for reproducible output (0 = random)")
	fl.BoolVar(&f.plain, "plain", false, "log progress lines instead of the progress view")

	return cmd
}

// resolve layers defaults, the config file, flags that were set, and the
// positional path, in that order.
func (f generateFlags) resolve(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fl := cmd.Flags()
	if fl.Changed("rows") {
		cfg.TotalRows = f.rows
	}
	if fl.Changed("batch-size") {
		cfg.BatchSize = f.batchSize
	}
	if fl.Changed("delimiter") {
		cfg.Delimiter = f.delimiter
	}
	if fl.Changed("crlf") {
		cfg.CRLF = f.crlf
	}
	if fl.Changed("compress") {
		cfg.Compression = f.compression
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if len(args) == 1 {
		cfg.FilePath = args[0]
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, version string, opts dataset.Options, plain bool) error {
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()

	var (
		sum dataset.Summary
		err error
	)
	if !plain && isTerminal(errOut) {
		sum, err = tui.Run(ctx, version, opts, os.Stdin, errOut)
	} else {
		log := slog.New(slog.NewTextHandler(errOut, nil)).With("run", uuid.NewString())
		log.Info("generating",
			"path", opts.Path,
			"rows", opts.TotalRows,
			"batch_size", opts.BatchSize,
			"batches", batch.Count(opts.TotalRows, opts.BatchSize),
		)
		opts.Progress = func(p dataset.Progress) {
			log.Info("batch written",
				"batch", p.Batch,
				"of", p.Batches,
				"rows", p.Rows,
				"pct", fmt.Sprintf("%.1f", p.Percent()),
				"elapsed", p.Elapsed.Round(time.Millisecond),
			)
		}
		sum, err = dataset.Generate(ctx, opts)
	}
	if err != nil {
		if sum.Rows > 0 {
			return fmt.Errorf("generate: %w (%s rows kept in %s)", err, report.Number(sum.Rows), sum.Path)
		}
		return fmt.Errorf("generate: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary(sum))
	return nil
}
