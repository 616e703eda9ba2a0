package csvimport

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sfa/backend/internal/domain/bulk"
)

// ExistsLookup reports whether a value of a unique column is already stored
type ExistsLookup func(ctx context.Context, column, value string) (bool, error)

// Result is the outcome of validating one file
type Result struct {
	TotalRows   int
	ValidRows   []*Row
	ErrorRows   int
	Errors      []bulk.RowError
	TotalErrors int
	IsTruncated bool
}

// Processor validates a CSV file against a rule set
type Processor struct {
	maxRows      int
	maxErrors    int
	existsLookup ExistsLookup
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor)

// WithMaxRows caps the data rows read (10000 by default)
func WithMaxRows(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.maxRows = n
		}
	}
}

// WithMaxErrors caps the row errors kept (100 by default)
func WithMaxErrors(n int) ProcessorOption {
	return func(p *Processor) {
		if n > 0 {
			p.maxErrors = n
		}
	}
}

// WithExistsLookup enables database duplicate checks for unique columns
func WithExistsLookup(fn ExistsLookup) ProcessorOption {
	return func(p *Processor) {
		p.existsLookup = fn
	}
}

// NewProcessor creates a processor
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{maxRows: 10000, maxErrors: 100}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process parses r and validates every row. File level problems (empty,
// bad encoding, missing columns) are returned as errors; row level problems
// end up in Result.Errors.
func (p *Processor) Process(ctx context.Context, r io.Reader, rules []FieldRule) (*Result, error) {
	parser, err := NewCSVParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}

	var required []string
	for _, rule := range rules {
		if rule.Required {
			required = append(required, rule.Column)
		}
	}
	if missing := parser.MissingHeaders(required); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	errs := NewErrorCollection(p.maxErrors)
	fields := NewFieldValidator(rules, errs)
	result := &Result{}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs.Add(bulk.RowError{Row: parser.CurrentRow(), Code: ErrCodeImportCSVParsing, Message: err.Error()})
			result.TotalRows++
			result.ErrorRows++
			continue
		}
		if row.IsEmpty() {
			continue
		}

		result.TotalRows++
		if result.TotalRows > p.maxRows {
			errs.Add(bulk.RowError{Row: row.LineNumber, Code: ErrCodeImportTooManyRows,
				Message: fmt.Sprintf("exceeded maximum of %d rows", p.maxRows)})
			result.TotalRows--
			break
		}

		valid := fields.ValidateRow(row)
		if valid && p.existsLookup != nil {
			valid, err = p.checkStored(ctx, row, rules, errs)
			if err != nil {
				return nil, err
			}
		}

		if valid {
			result.ValidRows = append(result.ValidRows, row)
		} else {
			result.ErrorRows++
		}
	}

	if result.TotalRows == 0 && !errs.HasErrors() {
		return nil, ErrNoDataRows
	}

	result.Errors = errs.Errors()
	result.TotalErrors = errs.TotalCount()
	result.IsTruncated = errs.IsTruncated()
	return result, nil
}

func (p *Processor) checkStored(ctx context.Context, row *Row, rules []FieldRule, errs *ErrorCollection) (bool, error) {
	ok := true
	for _, rule := range rules {
		value := strings.TrimSpace(row.Get(rule.Column))
		if !rule.Unique || value == "" {
			continue
		}
		exists, err := p.existsLookup(ctx, rule.Column, value)
		if err != nil {
			return false, fmt.Errorf("failed to check %s: %w", rule.Column, err)
		}
		if exists {
			errs.AddDuplicate(row.LineNumber, rule.Column, value, true)
			ok = false
		}
	}
	return ok, nil
}
