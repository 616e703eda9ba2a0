package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/sfa/backend/internal/domain/shared"
)

// SalesOrderStatus represents the state of a sales order
type SalesOrderStatus string

const (
	SalesOrderStatusDone      SalesOrderStatus = "SO-Done"
	SalesOrderStatusDelivered SalesOrderStatus = "Delivered"
	SalesOrderStatusCancelled SalesOrderStatus = "Cancelled"
)

// IsValid checks if the status is valid
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusDone, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// SalesOrder is a confirmed order, optionally born from a quotation
type SalesOrder struct {
	shared.VersionedEntity
	SONumber        string
	ReferenceID     string
	CompanyName     string
	QuotationNumber string
	Amount          shared.Amount
	ActualSales     shared.Amount
	Status          SalesOrderStatus
	DeliveryDate    *time.Time
}

// NewSalesOrder creates an order in SO-Done state
func NewSalesOrder(number, referenceID, companyName string, amount shared.Amount) (*SalesOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("SO number cannot be empty")
	}
	if strings.TrimSpace(referenceID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Reference ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.ErrInvalidInput.WithMessage("SO amount cannot be negative")
	}
	return &SalesOrder{
		VersionedEntity: shared.NewVersionedEntity(),
		SONumber:        strings.TrimSpace(number),
		ReferenceID:     strings.TrimSpace(referenceID),
		CompanyName:     strings.TrimSpace(companyName),
		Amount:          amount,
		Status:          SalesOrderStatusDone,
	}, nil
}

// MarkDelivered records delivery and the invoiced amount
func (o *SalesOrder) MarkDelivered(actualSales shared.Amount, at time.Time) error {
	if o.Status != SalesOrderStatusDone {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot deliver order in state: %s", o.Status))
	}
	o.Status = SalesOrderStatusDelivered
	o.ActualSales = actualSales
	o.DeliveryDate = &at
	o.Touch()
	return nil
}

// Cancel cancels an undelivered order
func (o *SalesOrder) Cancel() error {
	if o.Status != SalesOrderStatusDone {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot cancel order in state: %s", o.Status))
	}
	o.Status = SalesOrderStatusCancelled
	o.Touch()
	return nil
}

// SalesOrderFilter narrows sales order listings
type SalesOrderFilter struct {
	shared.Filter
	ReferenceID string
	Status      SalesOrderStatus
}
