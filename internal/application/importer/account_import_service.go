// Package importer loads company accounts from spreadsheet exports.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sfa/backend/internal/domain/bulk"
	"github.com/sfa/backend/internal/domain/identity"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
	csvimport "github.com/sfa/backend/internal/infrastructure/import"
	"github.com/sfa/backend/internal/infrastructure/logger"
	"github.com/sfa/backend/internal/infrastructure/telemetry"
)

// known account columns; anything else in the file lands in Extra
var accountColumns = map[string]bool{
	"referenceid":   true,
	"companyname":   true,
	"contactperson": true,
	"contactnumber": true,
	"emailaddress":  true,
	"typeclient":    true,
	"address":       true,
	"area":          true,
	"companygroup":  true,
	"status":        true,
	"tsm":           true,
	"manager":       true,
}

// Result reports the outcome of one import
type Result struct {
	OperationID  *uuid.UUID      `json:"operation_id,omitempty"`
	TotalRows    int             `json:"total_rows"`
	ImportedRows int             `json:"imported_rows"`
	ErrorRows    int             `json:"error_rows"`
	Errors       []bulk.RowError `json:"errors,omitempty"`
	TotalErrors  int             `json:"total_errors,omitempty"`
	IsTruncated  bool            `json:"is_truncated,omitempty"`
}

// ReportInvalidator drops cached dashboards after accounts are added
type ReportInvalidator interface {
	Invalidate(ctx context.Context) error
}

// AccountImportService imports company accounts from CSV
type AccountImportService struct {
	accounts    sales.AccountRepository
	operations  bulk.OperationRepository
	invalidator ReportInvalidator
	metrics     *telemetry.Metrics
	maxRows     int
	logger      *zap.Logger
}

// Option configures the AccountImportService
type Option func(*AccountImportService)

// WithReportInvalidator invalidates the dashboard cache after an import
func WithReportInvalidator(inv ReportInvalidator) Option {
	return func(s *AccountImportService) { s.invalidator = inv }
}

// WithMetrics records imported and rejected rows
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *AccountImportService) { s.metrics = m }
}

// WithMaxRows caps the rows accepted from one file
func WithMaxRows(n int) Option {
	return func(s *AccountImportService) { s.maxRows = n }
}

// NewAccountImportService creates an AccountImportService
func NewAccountImportService(accounts sales.AccountRepository, operations bulk.OperationRepository, logger *zap.Logger, opts ...Option) *AccountImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AccountImportService{
		accounts:   accounts,
		operations: operations,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the column checks applied to every row
func (s *AccountImportService) Rules() []csvimport.FieldRule {
	statuses := []string{
		string(sales.AccountStatusActive),
		string(sales.AccountStatusInactive),
		string(sales.AccountStatusOnHold),
		string(sales.AccountStatusTransferred),
	}
	return []csvimport.FieldRule{
		csvimport.Field("companyname").Required().MaxLength(255).Build(),
		csvimport.Field("referenceid").MaxLength(64).Custom(validateReferenceID).Build(),
		csvimport.Field("contactperson").MaxLength(255).Build(),
		csvimport.Field("contactnumber").MaxLength(100).Build(),
		csvimport.Field("emailaddress").Email().MaxLength(255).Build(),
		csvimport.Field("typeclient").MaxLength(100).Build(),
		csvimport.Field("address").MaxLength(500).Build(),
		csvimport.Field("area").MaxLength(100).Build(),
		csvimport.Field("companygroup").MaxLength(255).Build(),
		csvimport.Field("status").OneOf(statuses...).Build(),
	}
}

func validateReferenceID(value string) error {
	if !identity.ValidReferenceID(value) {
		return fmt.Errorf("'%s' is not a valid reference ID", value)
	}
	return nil
}

// Import validates r and stores every valid row as an account. Rows without a
// reference ID are owned by actor. Invalid rows are reported with their line
// number and skipped; the rest are inserted together.
func (s *AccountImportService) Import(ctx context.Context, actor string, r io.Reader) (*Result, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "importer", "ImportAccounts")
	defer span.End()

	log := s.logger.With(
		zap.String("request_id", logger.GetRequestID(ctx)),
		zap.String("actor", actor),
	)

	var procOpts []csvimport.ProcessorOption
	if s.maxRows > 0 {
		procOpts = append(procOpts, csvimport.WithMaxRows(s.maxRows))
	}
	processed, err := csvimport.NewProcessor(procOpts...).Process(ctx, r, s.Rules())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fileError(err)
	}

	rowErrors := append([]bulk.RowError(nil), processed.Errors...)
	accounts := make([]*sales.Account, 0, len(processed.ValidRows))
	seen := make(map[string]int)
	for _, row := range processed.ValidRows {
		account, rowErr, err := s.buildAccount(ctx, actor, row, seen)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		accounts = append(accounts, account)
	}

	errorRows := processed.TotalRows - len(accounts)
	duplicates := len(rowErrors) - len(processed.Errors)
	telemetry.SetAttributes(span, telemetry.SpanAttrRecords, processed.TotalRows)

	op, err := bulk.NewOperation(bulk.ActionImport, bulk.TargetAccounts, actor, nil, processed.TotalRows)
	if err != nil {
		return nil, err
	}
	if err := s.operations.Save(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to record import: %w", err)
	}

	if err := s.accounts.SaveBatch(ctx, accounts); err != nil {
		log.Error("Account import failed", zap.Int("rows", len(accounts)), zap.Error(err))
		telemetry.RecordError(span, err)
		_ = op.Fail(err)
		s.saveOutcome(ctx, log, op)
		s.metrics.RecordBulk(ctx, string(bulk.ActionImport), string(bulk.TargetAccounts), string(bulk.StatusFailed), 0)
		return nil, err
	}

	_ = op.Complete(len(accounts), rowErrors)
	s.saveOutcome(ctx, log, op)
	s.metrics.RecordImportRows(ctx, len(accounts), errorRows)
	s.metrics.RecordBulk(ctx, string(bulk.ActionImport), string(bulk.TargetAccounts), string(bulk.StatusCompleted), len(accounts))
	if len(accounts) > 0 && s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx); err != nil {
			log.Warn("Failed to invalidate report cache", zap.Error(err))
		}
	}
	log.Info("Accounts imported",
		zap.Int("total_rows", processed.TotalRows),
		zap.Int("imported", len(accounts)),
		zap.Int("rejected", errorRows),
	)
	telemetry.SetOK(span)

	opID := op.ID
	return &Result{
		OperationID:  &opID,
		TotalRows:    processed.TotalRows,
		ImportedRows: len(accounts),
		ErrorRows:    errorRows,
		Errors:       rowErrors,
		TotalErrors:  processed.TotalErrors + duplicates,
		IsTruncated:  processed.IsTruncated,
	}, nil
}

// buildAccount turns a validated row into an account, or a row error when the
// agent already holds the company in the file or in the database
func (s *AccountImportService) buildAccount(ctx context.Context, actor string, row *csvimport.Row, seen map[string]int) (*sales.Account, *bulk.RowError, error) {
	ref := row.GetOrDefault("referenceid", actor)
	company := row.Get("companyname")

	key := ref + "|" + csvimport.FoldValue(company)
	if first, dup := seen[key]; dup {
		return nil, &bulk.RowError{
			Row:     row.LineNumber,
			Column:  "companyname",
			Code:    csvimport.ErrCodeImportDuplicateInFile,
			Message: fmt.Sprintf("duplicate of row %d", first),
			Value:   company,
		}, nil
	}
	seen[key] = row.LineNumber

	exists, err := s.accounts.ExistsByCompanyName(ctx, ref, company)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check company %q: %w", company, err)
	}
	if exists {
		return nil, &bulk.RowError{
			Row:     row.LineNumber,
			Column:  "companyname",
			Code:    csvimport.ErrCodeImportDuplicateInDB,
			Message: fmt.Sprintf("'%s' already exists for %s", company, ref),
			Value:   company,
		}, nil
	}

	account, err := sales.NewAccount(ref, company)
	if err != nil {
		return nil, &bulk.RowError{Row: row.LineNumber, Code: csvimport.ErrCodeImportValidation, Message: err.Error()}, nil
	}
	account.ContactPerson = row.Get("contactperson")
	account.ContactNumber = row.Get("contactnumber")
	account.EmailAddress = row.Get("emailaddress")
	account.TypeClient = row.Get("typeclient")
	account.Address = row.Get("address")
	account.Area = row.Get("area")
	account.CompanyGroup = row.Get("companygroup")
	account.TSM = row.Get("tsm")
	account.Manager = row.Get("manager")
	if status := row.Get("status"); status != "" {
		if err := account.SetStatus(canonicalStatus(status)); err != nil {
			return nil, &bulk.RowError{Row: row.LineNumber, Column: "status", Code: csvimport.ErrCodeImportInvalidValue, Message: err.Error(), Value: status}, nil
		}
	}
	for column, value := range row.Data {
		if !accountColumns[column] && value != "" {
			account.Extra[column] = value
		}
	}
	return account, nil, nil
}

// canonicalStatus maps a case-insensitive status to its stored spelling
func canonicalStatus(v string) sales.AccountStatus {
	for _, s := range []sales.AccountStatus{
		sales.AccountStatusActive,
		sales.AccountStatusInactive,
		sales.AccountStatusOnHold,
		sales.AccountStatusTransferred,
	} {
		if strings.EqualFold(v, string(s)) {
			return s
		}
	}
	return sales.AccountStatus(v)
}

// fileError turns file level parse failures into invalid input
func fileError(err error) error {
	var missing *csvimport.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		return shared.ErrInvalidInput.WithMessage(missing.Error())
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrInvalidEncoding),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrNoDataRows):
		return shared.ErrInvalidInput.WithMessage(err.Error())
	}
	return err
}

func (s *AccountImportService) saveOutcome(ctx context.Context, log *zap.Logger, op *bulk.Operation) {
	if err := s.operations.Save(context.WithoutCancel(ctx), op); err != nil {
		log.Error("Failed to record import outcome", zap.String("operation_id", op.ID.String()), zap.Error(err))
	}
}
