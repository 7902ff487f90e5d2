// Package csvimport reads and validates CSV files uploaded for bulk
// catalog imports. Files must be UTF-8; a leading BOM is tolerated.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Reader parses a comma-separated file with a mandatory header row.
type Reader struct {
	csv     *csv.Reader
	headers []string
	index   map[string]int
	line    int
}

// NewReader wraps r, strips a UTF-8 BOM if present, and rejects
// content that is not valid UTF-8.
func NewReader(r io.Reader) (*Reader, error) {
	buf := bufio.NewReader(r)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	sample, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	if len(sample) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(sample) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	return &Reader{csv: cr, index: make(map[string]int)}, nil
}

// FromBytes builds a Reader over an uploaded file body.
func FromBytes(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data))
}

// ParseHeader reads the header row. Header names are trimmed and
// lower-cased so "Code" and "code " address the same column.
func (r *Reader) ParseHeader() error {
	record, err := r.csv.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	r.headers = make([]string, len(record))
	for i, h := range record {
		name := strings.ToLower(strings.TrimSpace(h))
		r.headers[i] = name
		r.index[name] = i
	}
	r.line = 1
	return nil
}

// Headers returns the normalized header names in file order.
func (r *Reader) Headers() []string {
	return r.headers
}

// MissingHeaders returns the required column names absent from the file.
func (r *Reader) MissingHeaders(required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := r.index[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Record is one data row keyed by header name. Line is the 1-based
// line number in the file, counting the header.
type Record struct {
	Line   int
	fields map[string]string
}

// Get returns the trimmed value of a column, or "" if absent.
func (rec *Record) Get(column string) string {
	return rec.fields[column]
}

// GetOrDefault returns the column value, or def when the cell is empty.
func (rec *Record) GetOrDefault(column, def string) string {
	if v := rec.fields[column]; v != "" {
		return v
	}
	return def
}

func (rec *Record) isEmpty() bool {
	for _, v := range rec.fields {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadAll reads every remaining data row, skipping rows whose cells are
// all empty. A malformed row aborts the read with its line number.
func (r *Reader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			break
		}
		r.line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.line, err)
		}

		rec := &Record{Line: r.line, fields: make(map[string]string, len(r.headers))}
		for i, name := range r.headers {
			if i < len(row) {
				rec.fields[name] = strings.TrimSpace(row[i])
			} else {
				rec.fields[name] = ""
			}
		}
		if rec.isEmpty() {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoDataRows
	}
	return records, nil
}
