// Package table pages through a large delimited file without loading it.
//
// Row start offsets are indexed lazily, only as far as the furthest row
// requested, and parsed rows are kept in a bounded LRU cache. Rows are
// line-delimited: a quoted field spanning lines is reported as a parse error.
package table

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/oleg578/swiftcsv"

	"github.com/zarlcorp/zrows/internal/dataset"
)

// DefaultCacheRows bounds the parsed-row cache when Options.CacheRows is zero.
const DefaultCacheRows = 10_000

const indexChunk = 1 << 20

// Options configures a Table.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// CacheRows is the most parsed rows kept in memory. Zero means DefaultCacheRows.
	CacheRows int
}

// Table is an open delimited file with a header line. It is safe for
// concurrent use.
type Table struct {
	mu sync.Mutex

	f     *os.File
	path  string
	size  int64
	comma byte

	header []string

	// offsets[i] is where data row i starts; next is the first byte not yet indexed
	offsets []int64
	next    int64
	chunk   []byte

	cache *lru.Cache[int, []string]
}

// Open opens path and reads its header. Compressed files are rejected since
// they cannot be read at an offset.
func Open(path string, opts Options) (*Table, error) {
	return open(path, opts, indexChunk)
}

func open(path string, opts Options, chunk int) (*Table, error) {
	if err := dataset.CheckDelimiter(opts.Delimiter); err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".lz4") {
		return nil, fmt.Errorf("%w: %s is compressed; decompress it to page through rows", dataset.ErrInvalidArgument, path)
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.CacheRows < 0 {
		return nil, fmt.Errorf("%w: cache rows must not be negative, got %d", dataset.ErrInvalidArgument, opts.CacheRows)
	}
	if opts.CacheRows == 0 {
		opts.CacheRows = DefaultCacheRows
	}

	cache, err := lru.New[int, []string](opts.CacheRows)
	if err != nil {
		return nil, fmt.Errorf("row cache: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &dataset.IOError{Op: "open", Path: path, Err: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &dataset.IOError{Op: "stat", Path: path, Err: err}
	}

	t := &Table{
		f:     f,
		path:  path,
		size:  info.Size(),
		comma: byte(opts.Delimiter),
		chunk: make([]byte, chunk),
		cache: cache,
	}
	if err := t.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

func (t *Table) readHeader() error {
	if err := t.indexTo(1); err != nil {
		return err
	}
	if len(t.offsets) == 0 {
		return fmt.Errorf("%w: %s has no header line", dataset.ErrInvalidArgument, t.path)
	}

	buf, err := t.section(t.offsets[0], t.limit(0))
	if err != nil {
		return err
	}
	head, err := t.parse(firstLine(buf), -1)
	if err != nil {
		return fmt.Errorf("%s: header: %w", t.path, err)
	}
	t.header = head
	t.offsets = t.offsets[:0]
	return nil
}

// Header returns the column names.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Columns returns the header width. Every returned row has this many fields.
func (t *Table) Columns() int {
	return len(t.header)
}

// RowCount returns the number of non-blank data rows. The first call indexes
// the rest of the file.
func (t *Table) RowCount() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.indexTo(math.MaxInt); err != nil {
		return 0, err
	}
	return len(t.offsets), nil
}

// Rows returns up to count data rows starting at the 0-based row from. A
// window past the last row is clipped; one starting past it is empty.
// Returned rows are shared with the cache and must not be modified.
func (t *Table) Rows(from, count int) ([][]string, error) {
	if from < 0 || count < 0 {
		return nil, fmt.Errorf("%w: window from %d count %d", dataset.ErrInvalidArgument, from, count)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	want := from + min(count, math.MaxInt-from)
	if err := t.indexTo(want); err != nil {
		return nil, err
	}
	end := min(want, len(t.offsets))
	if from >= end {
		return nil, nil
	}

	out := make([][]string, end-from)
	lo, hi := -1, -1
	for i := from; i < end; i++ {
		if row, ok := t.cache.Get(i); ok {
			out[i-from] = row
			continue
		}
		if lo < 0 {
			lo = i
		}
		hi = i
	}
	if lo < 0 {
		return out, nil
	}

	// one read covers every miss in the window
	base := t.offsets[lo]
	buf, err := t.section(base, t.limit(hi))
	if err != nil {
		return nil, err
	}
	for i := lo; i <= hi; i++ {
		if out[i-from] != nil {
			continue
		}
		row, err := t.parse(firstLine(buf[t.offsets[i]-base:]), len(t.header))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", t.path, i+1, err)
		}
		t.cache.Add(i, row)
		out[i-from] = row
	}
	return out, nil
}

// Close releases the file.
func (t *Table) Close() error {
	return t.f.Close()
}

// indexTo extends offsets until it holds n rows or the file is exhausted.
func (t *Table) indexTo(n int) error {
	for len(t.offsets) < n && t.next < t.size {
		m, err := t.f.ReadAt(t.chunk, t.next)
		if err != nil && !errors.Is(err, io.EOF) {
			return &dataset.IOError{Op: "read", Path: t.path, Err: err}
		}
		if m == 0 {
			// the file shrank since Open
			t.size = t.next
			break
		}
		data := t.chunk[:m]

		used := 0
		for len(t.offsets) < n {
			i := bytes.IndexByte(data[used:], '\n')
			if i < 0 {
				break
			}
			t.add(t.next+int64(used), data[used:used+i])
			used += i + 1
		}

		if used == 0 {
			if t.next+int64(m) >= t.size {
				// last line has no terminator
				t.add(t.next, data)
				used = m
			} else {
				// line longer than the buffer
				t.chunk = make([]byte, 2*len(t.chunk))
				continue
			}
		}
		t.next += int64(used)
	}
	return nil
}

func (t *Table) add(off int64, line []byte) {
	if len(bytes.TrimSuffix(line, []byte{'\r'})) == 0 {
		return
	}
	t.offsets = append(t.offsets, off)
}

// limit returns an offset past the end of row i's line.
func (t *Table) limit(i int) int64 {
	if i+1 < len(t.offsets) {
		return t.offsets[i+1]
	}
	return t.next
}

func (t *Table) section(start, end int64) ([]byte, error) {
	buf := make([]byte, end-start)
	n, err := t.f.ReadAt(buf, start)
	if n == len(buf) {
		return buf, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return nil, &dataset.IOError{Op: "read", Path: t.path, Err: err}
}

// parse splits one line into fields. When width is not negative, short rows
// are padded with empty fields and long rows are truncated.
func (t *Table) parse(line []byte, width int) ([]string, error) {
	r := swiftcsv.NewReader(bytes.NewReader(line))
	r.Comma = t.comma
	row, err := r.Read()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if width < 0 {
		return row, nil
	}
	if len(row) > width {
		return row[:width:width], nil
	}
	for len(row) < width {
		row = append(row, "")
	}
	return row, nil
}

func firstLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return bytes.TrimSuffix(b, []byte{'\r'})
}
