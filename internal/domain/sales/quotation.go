package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/sfa/backend/internal/domain/shared"
)

// QuotationStatus represents the state of a quotation
type QuotationStatus string

const (
	QuotationStatusPending   QuotationStatus = "Pending"
	QuotationStatusApproved  QuotationStatus = "Approved"
	QuotationStatusDeclined  QuotationStatus = "Declined"
	QuotationStatusConverted QuotationStatus = "Converted"
)

// IsValid checks if the status is valid
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusPending, QuotationStatusApproved, QuotationStatusDeclined, QuotationStatusConverted:
		return true
	}
	return false
}

// Quotation is a price offer sent to a company
type Quotation struct {
	shared.VersionedEntity
	QuotationNumber string
	ReferenceID     string
	CompanyName     string
	Amount          shared.Amount
	Status          QuotationStatus
	ValidUntil      *time.Time
}

// NewQuotation creates a pending quotation
func NewQuotation(number, referenceID, companyName string, amount shared.Amount) (*Quotation, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Quotation number cannot be empty")
	}
	if strings.TrimSpace(referenceID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Reference ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("Quotation amount cannot be negative")
	}
	return &Quotation{
		VersionedEntity: shared.NewVersionedEntity(),
		QuotationNumber: strings.TrimSpace(number),
		ReferenceID:     strings.TrimSpace(referenceID),
		CompanyName:     strings.TrimSpace(companyName),
		Amount:          amount,
		Status:          QuotationStatusPending,
	}, nil
}

// ChangeStatus moves the quotation to another status.
// Declined and converted quotations are final.
func (q *Quotation) ChangeStatus(status QuotationStatus) error {
	if !status.IsValid() {
		return shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid quotation status: %s", status))
	}
	if q.Status == QuotationStatusDeclined || q.Status == QuotationStatusConverted {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot change quotation from state: %s", q.Status))
	}
	q.Status = status
	q.Touch()
	return nil
}

// QuotationFilter narrows quotation listings
type QuotationFilter struct {
	shared.Filter
	ReferenceID string
	Status      QuotationStatus
}
