// Package dataset streams synthetic records to a delimited text file in
// bounded-memory batches.
//
// Each batch is generated into a reused slice, encoded into a reused buffer and
// handed to the file in one write, so memory stays proportional to the batch
// size regardless of the total row count. A failure or cancellation leaves the
// header and every completed batch on disk.
package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/zarlcorp/zrows/internal/batch"
	"github.com/zarlcorp/zrows/internal/record"
)

// Generate writes opts.TotalRows records to opts.Path.
//
// Invalid options fail with ErrInvalidArgument before the file is touched.
// Destination failures return an *IOError. Cancelling ctx stops the run
// between batches. The returned Summary is filled in even on failure.
func Generate(ctx context.Context, opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}
	opts = opts.withDefaults()

	start := opts.Clock()
	s, err := openSink(opts.Path, opts.Compression)
	if err != nil {
		return Summary{Path: opts.Path}, err
	}

	r := runner{
		opts:  opts,
		gen:   record.New(record.WithSource(opts.Source), record.WithClock(opts.Clock)),
		enc:   newEncoder(opts.Delimiter, opts.CRLF),
		sink:  s,
		start: start,
	}

	err = r.run(ctx)
	if err != nil {
		s.abort()
	} else {
		err = s.close()
	}

	sum := Summary{
		Path:    opts.Path,
		Rows:    r.rows,
		Batches: r.batches,
		Bytes:   s.written(),
		Elapsed: opts.Clock().Sub(start),
	}
	return sum, err
}

type runner struct {
	opts  Options
	gen   *record.Generator
	enc   *encoder
	sink  *sink
	start time.Time

	rows    int
	batches int
}

func (r *runner) run(ctx context.Context) error {
	head, err := r.enc.header()
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	if err := r.sink.write(head); err != nil {
		return err
	}

	total, size := r.opts.TotalRows, r.opts.BatchSize
	count := batch.Count(total, size)
	recs := make([]record.Record, min(size, total))

	for rng := range batch.All(total, size) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped after %d rows: %w", r.rows, err)
		}

		rows := recs[:rng.Len()]
		r.gen.Fill(rows, rng.First)

		data, err := r.enc.encode(rows)
		if err != nil {
			return fmt.Errorf("encode batch %d: %w", rng.Index+1, err)
		}
		if err := r.sink.write(data); err != nil {
			return err
		}

		r.rows = rng.Last
		r.batches++

		if r.opts.Progress != nil {
			r.opts.Progress(Progress{
				Batch:   rng.Index + 1,
				Batches: count,
				Rows:    r.rows,
				Total:   total,
				Elapsed: r.opts.Clock().Sub(r.start),
			})
		}
	}

	return nil
}
