// Package verify re-reads a generated file and checks its structure: header,
// column count, id sequence and per-field formats.
package verify

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/oleg578/swiftcsv"
	"github.com/pierrec/lz4/v4"
	"github.com/zarlcorp/zrows/internal/dataset"
	"github.com/zarlcorp/zrows/internal/record"
)

const defaultMaxProblems = 20

var (
	emailRe   = regexp.MustCompile(`^[a-z]+\d{4}@(.+)$`)
	phoneRe   = regexp.MustCompile(`^1\d{10}$`)
	salaryRe  = regexp.MustCompile(`^\d+\.\d{2}$`)
	addressRe = regexp.MustCompile(`^([A-Za-z]+) [A-Za-z0-9]{10}$`)
)

// Options configures a check.
type Options struct {
	// Delimiter separates fields. Zero means ','.
	Delimiter rune
	// ExpectRows, when positive, is the required number of data rows.
	ExpectRows int
	// MaxProblems caps recorded problems. Zero means 20.
	MaxProblems int
}

// Problem is one violation found in the file.
type Problem struct {
	Line   int // 1-based line of the record, header is line 1
	Column string
	Msg    string
}

func (p Problem) String() string {
	if p.Column == "" {
		return fmt.Sprintf("line %d: %s", p.Line, p.Msg)
	}
	return fmt.Sprintf("line %d: %s: %s", p.Line, p.Column, p.Msg)
}

// Report is the outcome of a check.
type Report struct {
	Rows     int // data rows read, header excluded
	Problems []Problem
	// Dropped counts problems beyond MaxProblems.
	Dropped int
}

// OK reports whether no problems were found.
func (r Report) OK() bool {
	return len(r.Problems) == 0
}

// CheckFile opens path and checks it. Files ending in .lz4 are decompressed.
func CheckFile(path string, opts Options) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("verify: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".lz4") {
		r = lz4.NewReader(f)
	}
	return Check(r, opts)
}

// Check reads delimited text from r. The error is non-nil only when the
// stream cannot be read or parsed; content violations land in the Report.
func Check(r io.Reader, opts Options) (Report, error) {
	if err := dataset.CheckDelimiter(opts.Delimiter); err != nil {
		return Report{}, fmt.Errorf("verify: %w", err)
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if opts.MaxProblems <= 0 {
		opts.MaxProblems = defaultMaxProblems
	}

	cr := swiftcsv.NewReader(bufio.NewReaderSize(r, 1<<20))
	cr.Comma = byte(opts.Delimiter)
	cr.ReuseRecord = true

	c := checker{opts: opts}

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		c.add(1, "", "empty file")
		return c.report, nil
	}
	if err != nil {
		return c.report, fmt.Errorf("verify: header: %w", err)
	}
	// rows are held to the schema width, not the header's
	cr.FieldsPerRecord = len(record.Header)
	if !slices.Equal(head, record.Header) {
		c.add(1, "", fmt.Sprintf("header is %v, want %v", head, record.Header))
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		// width mismatches still return the row; row reports them
		if err != nil && !errors.Is(err, swiftcsv.ErrorFieldCount) {
			return c.report, fmt.Errorf("verify: line %d: %w", c.report.Rows+2, err)
		}
		c.report.Rows++
		c.row(c.report.Rows+1, row)
	}

	if opts.ExpectRows > 0 && c.report.Rows != opts.ExpectRows {
		c.add(c.report.Rows+1, "", fmt.Sprintf("found %d rows, want %d", c.report.Rows, opts.ExpectRows))
	}

	return c.report, nil
}

type checker struct {
	opts   Options
	report Report
}

func (c *checker) add(line int, col, msg string) {
	if len(c.report.Problems) >= c.opts.MaxProblems {
		c.report.Dropped++
		return
	}
	c.report.Problems = append(c.report.Problems, Problem{Line: line, Column: col, Msg: msg})
}

func (c *checker) row(line int, f []string) {
	if len(f) != len(record.Header) {
		c.add(line, "", fmt.Sprintf("has %d columns, want %d", len(f), len(record.Header)))
		return
	}

	if id, err := strconv.Atoi(f[0]); err != nil || id != line-1 {
		c.add(line, "id", fmt.Sprintf("%q out of sequence, want %d", f[0], line-1))
	}

	if f[1] == "" {
		c.add(line, "name", "empty")
	}

	if age, err := strconv.Atoi(f[2]); err != nil || age < record.MinAge || age > record.MaxAge {
		c.add(line, "age", fmt.Sprintf("%q not in [%d, %d]", f[2], record.MinAge, record.MaxAge))
	}

	if m := emailRe.FindStringSubmatch(f[3]); m == nil || !slices.Contains(record.Domains, m[1]) {
		c.add(line, "email", fmt.Sprintf("%q malformed", f[3]))
	}

	if !phoneRe.MatchString(f[4]) {
		c.add(line, "phone", fmt.Sprintf("%q malformed", f[4]))
	}

	if _, err := time.Parse(record.TimeLayout, f[5]); err != nil {
		c.add(line, "register_time", fmt.Sprintf("%q malformed", f[5]))
	}

	c.salary(line, f[6])

	if m := addressRe.FindStringSubmatch(f[7]); m == nil || !slices.Contains(record.Regions, m[1]) {
		c.add(line, "address", fmt.Sprintf("%q malformed", f[7]))
	}
}

func (c *checker) salary(line int, s string) {
	if !salaryRe.MatchString(s) {
		c.add(line, "salary", fmt.Sprintf("%q needs two fractional digits", s))
		return
	}
	whole, frac, _ := strings.Cut(s, ".")
	w, err1 := strconv.ParseInt(whole, 10, 64)
	fr, err2 := strconv.ParseInt(frac, 10, 64)
	if err1 != nil || err2 != nil {
		c.add(line, "salary", fmt.Sprintf("%q malformed", s))
		return
	}
	cents := record.Cents(w*100 + fr)
	if cents < record.MinSalary || cents > record.MaxSalary {
		c.add(line, "salary", fmt.Sprintf("%s not in [%s, %s]", s, record.MinSalary, record.MaxSalary))
	}
}
