package sales

import (
	"strings"
	"time"

	"github.com/sfa/backend/internal/domain/shared"
)

// Activity statuses that drive the sales dashboards
const (
	ActivityStatusQuoteDone = "Quote-Done"
	ActivityStatusSODone    = "SO-Done"
	ActivityStatusDelivered = "Delivered"
	ActivityStatusCancelled = "Cancelled"
)

// Call statuses
const (
	CallStatusSuccessful   = "Successful"
	CallStatusUnsuccessful = "Unsuccessful"
)

// Activity is one logged sales touchpoint. Quotation and sales order numbers
// and amounts are copied onto the activity as the deal progresses.
type Activity struct {
	shared.VersionedEntity
	ReferenceID     string
	Manager         string
	TSM             string
	CompanyName     string
	CompanyGroup    string
	ContactPerson   string
	TypeActivity    string
	CallStatus      string
	ActivityStatus  string
	Remarks         string
	QuotationNumber string
	QuotationAmount shared.Amount
	SONumber        string
	SOAmount        shared.Amount
	ActualSales     shared.Amount
	ActivityDate    time.Time
}

// NewActivity creates an activity dated at activityDate (now when zero)
func NewActivity(referenceID, companyName, typeActivity string, activityDate time.Time) (*Activity, error) {
	if strings.TrimSpace(referenceID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Reference ID cannot be empty")
	}
	if strings.TrimSpace(companyName) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Company name cannot be empty")
	}
	if activityDate.IsZero() {
		activityDate = time.Now()
	}
	return &Activity{
		VersionedEntity: shared.NewVersionedEntity(),
		ReferenceID:     strings.TrimSpace(referenceID),
		CompanyName:     strings.TrimSpace(companyName),
		TypeActivity:    typeActivity,
		ActivityDate:    activityDate,
	}, nil
}

// IsStatus compares the activity status case-insensitively
func (a *Activity) IsStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(a.ActivityStatus), status)
}

// TransferTo reassigns the activity to another agent
func (a *Activity) TransferTo(referenceID, tsm, manager string) error {
	if strings.TrimSpace(referenceID) == "" {
		return shared.ErrInvalidInput.WithMessage("Target reference ID cannot be empty")
	}
	a.ReferenceID = referenceID
	if tsm != "" {
		a.TSM = tsm
	}
	if manager != "" {
		a.Manager = manager
	}
	a.Touch()
	return nil
}

// ActivityFilter narrows activity listings and report inputs
type ActivityFilter struct {
	shared.Filter
	ReferenceID    string
	TSM            string
	Manager        string
	ActivityStatus string
	CallStatus     string
	CompanyGroup   string
	From           *time.Time
	To             *time.Time
}
