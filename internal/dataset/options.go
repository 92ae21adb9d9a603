package dataset

import (
	"time"
	"unicode/utf8"

	"github.com/zarlcorp/zrows/internal/record"
)

// DefaultBatchSize is the batch size used when none is configured.
const DefaultBatchSize = 100_000

// Compression selects how the output stream is framed.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionLZ4  Compression = "lz4"
)

// ParseCompression maps a name to a Compression. The empty string is none.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionLZ4:
		return CompressionLZ4, nil
	}
	return "", invalidf("unknown compression %q", s)
}

// Options describes one generation run.
type Options struct {
	// Path is the destination file. It is created or truncated.
	Path string
	// TotalRows is the number of records to write; must be positive.
	TotalRows int
	// BatchSize bounds rows held in memory and rows per write; must be positive.
	BatchSize int
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// CRLF terminates lines with \r\n instead of \n.
	CRLF bool
	// Compression frames the output. Empty means none.
	Compression Compression

	// Source supplies randomness. Nil means record.SystemSource.
	Source record.Source
	// Clock is read for register_time sampling and elapsed time. Nil means time.Now.
	Clock func() time.Time
	// Progress is called after every batch. Nil disables reporting.
	Progress ProgressFunc
}

// Validate checks the options without touching the filesystem.
func (o Options) Validate() error {
	if o.Path == "" {
		return invalidf("file path is required")
	}
	if o.TotalRows <= 0 {
		return invalidf("total rows must be positive, got %d", o.TotalRows)
	}
	if o.BatchSize <= 0 {
		return invalidf("batch size must be positive, got %d", o.BatchSize)
	}
	if err := validDelimiter(o.Delimiter); err != nil {
		return err
	}
	if _, err := ParseCompression(string(o.Compression)); err != nil {
		return err
	}
	return nil
}

func validDelimiter(r rune) error {
	switch {
	case r == 0:
		return nil
	case r == '"' || r == '\r' || r == '\n':
		return invalidf("delimiter %q is reserved", r)
	case r < 0 || r >= utf8.RuneSelf:
		return invalidf("delimiter %q must be a single ASCII character", r)
	}
	return nil
}

// CheckDelimiter reports whether r can separate fields in a file written or
// read by this package. Zero is accepted and means ','.
func CheckDelimiter(r rune) error {
	return validDelimiter(r)
}

func (o Options) withDefaults() Options {
	o.BatchSize = min(o.BatchSize, o.TotalRows)
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Compression == "" {
		o.Compression = CompressionNone
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Source == nil {
		o.Source = record.SystemSource()
	}
	return o
}
