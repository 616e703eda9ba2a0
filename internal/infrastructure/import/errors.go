package csvimport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sfa/backend/internal/domain/bulk"
)

// Row error codes
const (
	ErrCodeImportCSVParsing      = "ERR_IMPORT_CSV_PARSING"
	ErrCodeImportValidation      = "ERR_IMPORT_VALIDATION"
	ErrCodeImportRequiredField   = "ERR_IMPORT_REQUIRED_FIELD"
	ErrCodeImportInvalidType     = "ERR_IMPORT_INVALID_TYPE"
	ErrCodeImportInvalidLength   = "ERR_IMPORT_INVALID_LENGTH"
	ErrCodeImportInvalidValue    = "ERR_IMPORT_INVALID_VALUE"
	ErrCodeImportDuplicateInFile = "ERR_IMPORT_DUPLICATE_IN_FILE"
	ErrCodeImportDuplicateInDB   = "ERR_IMPORT_DUPLICATE_IN_DB"
	ErrCodeImportTooManyRows     = "ERR_IMPORT_TOO_MANY_ROWS"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
)

// MissingColumnsError lists required columns absent from the header
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "CSV file is missing required columns: " + strings.Join(e.Columns, ", ")
}

// ErrorCollection keeps up to a fixed number of row errors and counts the rest
type ErrorCollection struct {
	errors     []bulk.RowError
	rows       map[int]struct{}
	maxErrors  int
	totalCount int
}

// NewErrorCollection creates a collection keeping at most maxErrors entries (100 by default)
func NewErrorCollection(maxErrors int) *ErrorCollection {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &ErrorCollection{
		errors:    make([]bulk.RowError, 0),
		rows:      make(map[int]struct{}),
		maxErrors: maxErrors,
	}
}

// Add records an error
func (ec *ErrorCollection) Add(err bulk.RowError) {
	ec.totalCount++
	ec.rows[err.Row] = struct{}{}
	if len(ec.errors) < ec.maxErrors {
		ec.errors = append(ec.errors, err)
	}
}

// AddRequired records a missing mandatory value
func (ec *ErrorCollection) AddRequired(row int, column string) {
	ec.Add(bulk.RowError{Row: row, Column: column, Code: ErrCodeImportRequiredField,
		Message: fmt.Sprintf("field '%s' is required", column)})
}

// AddInvalid records a value that failed a check
func (ec *ErrorCollection) AddInvalid(row int, column, code, message, value string) {
	ec.Add(bulk.RowError{Row: row, Column: column, Code: code, Message: message, Value: value})
}

// AddDuplicate records a value already seen in the file or stored in the database
func (ec *ErrorCollection) AddDuplicate(row int, column, value string, inDB bool) {
	if inDB {
		ec.AddInvalid(row, column, ErrCodeImportDuplicateInDB,
			fmt.Sprintf("value '%s' already exists", value), value)
		return
	}
	ec.AddInvalid(row, column, ErrCodeImportDuplicateInFile,
		fmt.Sprintf("duplicate value '%s' found in file", value), value)
}

// Errors returns the kept errors
func (ec *ErrorCollection) Errors() []bulk.RowError {
	return ec.errors
}

// TotalCount includes errors past the limit
func (ec *ErrorCollection) TotalCount() int {
	return ec.totalCount
}

// HasErrors reports whether anything was recorded
func (ec *ErrorCollection) HasErrors() bool {
	return ec.totalCount > 0
}

// HasRow reports whether row has at least one error
func (ec *ErrorCollection) HasRow(row int) bool {
	_, ok := ec.rows[row]
	return ok
}

// IsTruncated reports whether errors were dropped
func (ec *ErrorCollection) IsTruncated() bool {
	return ec.totalCount > ec.maxErrors
}

func (ec *ErrorCollection) String() string {
	if !ec.HasErrors() {
		return "no errors"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d error(s) found", ec.totalCount)
	if ec.IsTruncated() {
		fmt.Fprintf(&sb, " (showing first %d)", ec.maxErrors)
	}
	sb.WriteString(":\n")
	for _, e := range ec.errors {
		if e.Column != "" {
			fmt.Fprintf(&sb, "  - row %d, column '%s': %s\n", e.Row, e.Column, e.Message)
		} else {
			fmt.Fprintf(&sb, "  - row %d: %s\n", e.Row, e.Message)
		}
	}
	return sb.String()
}
