// Package csvimport reads spreadsheet exports of records into header-mapped rows
// and validates them before they reach the domain.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// CSVParser reads a CSV file whose first line is a header
type CSVParser struct {
	delimiter  rune
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
}

// ParserOption configures a CSVParser
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// NewCSVParser strips a UTF-8 BOM and rejects empty or non UTF-8 input
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	p := &CSVParser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	buf := bufio.NewReader(r)
	bom, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(head) {
		return nil, ErrInvalidEncoding
	}

	p.reader = csv.NewReader(buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// ParseFromBytes creates a parser over data
func ParseFromBytes(data []byte, opts ...ParserOption) (*CSVParser, error) {
	return NewCSVParser(bytes.NewReader(data), opts...)
}

// NormalizeHeader folds a column title to its field key: lower case with
// spaces, underscores and dashes removed ("Company Name" -> "companyname")
func NormalizeHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(h) {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// FoldValue is the comparison key for cell values: Unicode case folded with
// runs of whitespace collapsed, so "ACME  Trading" and "acme trading" match
func FoldValue(v string) string {
	return cases.Fold().String(strings.Join(strings.Fields(v), " "))
}

// ParseHeader reads the header row. Later duplicates of a column are ignored.
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		key := NormalizeHeader(h)
		p.headers[i] = key
		if _, dup := p.headerMap[key]; !dup && key != "" {
			p.headerMap[key] = i
		}
	}
	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}
	p.currentRow = 1
	return nil
}

// Headers returns the normalized header names in file order
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks a normalized header name
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// MissingHeaders returns the required columns absent from the header
func (p *CSVParser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line keyed by normalized header
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value of a column
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// GetOrDefault returns the value of a column or def when blank
func (r *Row) GetOrDefault(column, def string) string {
	if v := r.Data[column]; v != "" {
		return v
	}
	return def
}

// IsEmpty reports whether every cell is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}
	p.totalRows++

	row := &Row{LineNumber: p.currentRow, Data: make(map[string]string, len(p.headerMap))}
	for key, idx := range p.headerMap {
		if idx < len(record) {
			row.Data[key] = strings.TrimSpace(record[idx])
		} else {
			row.Data[key] = ""
		}
	}
	return row, nil
}

// CurrentRow is the 1-indexed line of the last row read
func (p *CSVParser) CurrentRow() int {
	return p.currentRow
}

// TotalRows counts the data rows read so far
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}
