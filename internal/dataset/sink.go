package dataset

import (
	"bytes"
	"io"
	"os"

	"github.com/oleg578/swiftcsv"
	"github.com/pierrec/lz4/v4"
	"github.com/zarlcorp/zrows/internal/record"
)

// sink is the append-only destination file, optionally lz4 framed.
type sink struct {
	path string
	f    *os.File
	n    countingWriter
	lz   *lz4.Writer
	w    io.Writer
}

func openSink(path string, c Compression) (*sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	s := &sink{path: path, f: f}
	s.n.w = f
	s.w = &s.n
	if c == CompressionLZ4 {
		s.lz = lz4.NewWriter(&s.n)
		s.w = s.lz
	}
	return s, nil
}

// write hands p to the destination in a single call.
func (s *sink) write(p []byte) error {
	if _, err := s.w.Write(p); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// close finishes the lz4 frame and closes the file.
func (s *sink) close() error {
	if s.lz != nil {
		if err := s.lz.Close(); err != nil {
			s.f.Close()
			return &IOError{Op: "flush", Path: s.path, Err: err}
		}
	}
	if err := s.f.Close(); err != nil {
		return &IOError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}

// abort closes the file after a failure, keeping whatever was already written.
func (s *sink) abort() {
	if s.lz != nil {
		_ = s.lz.Close()
	}
	_ = s.f.Close()
}

func (s *sink) written() int64 {
	return s.n.n
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// encoder renders rows into a reusable in-memory buffer.
type encoder struct {
	buf    bytes.Buffer
	csv    *swiftcsv.Writer
	fields []string
}

func newEncoder(delim rune, crlf bool) *encoder {
	e := &encoder{fields: make([]string, 0, len(record.Header))}
	e.csv = swiftcsv.NewWriter(&e.buf)
	e.csv.Comma = byte(delim)
	e.csv.UseCRLF = crlf
	return e
}

// header returns the encoded header line.
func (e *encoder) header() ([]byte, error) {
	e.buf.Reset()
	if err := e.csv.Write(record.Header); err != nil {
		return nil, err
	}
	if err := e.csv.Flush(); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// encode returns recs as delimited text. The slice is valid until the next call.
func (e *encoder) encode(recs []record.Record) ([]byte, error) {
	e.buf.Reset()
	for _, r := range recs {
		e.fields = r.AppendFields(e.fields[:0])
		if err := e.csv.Write(e.fields); err != nil {
			return nil, err
		}
	}
	if err := e.csv.Flush(); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}
