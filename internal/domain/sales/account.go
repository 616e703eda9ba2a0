package sales

import (
	"strings"

	"github.com/sfa/backend/internal/domain/shared"
)

// AccountStatus represents the lifecycle state of a company account
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "Active"
	AccountStatusInactive    AccountStatus = "Inactive"
	AccountStatusOnHold      AccountStatus = "On Hold"
	AccountStatusTransferred AccountStatus = "Transferred"
)

// IsValid checks if the status is valid
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusOnHold, AccountStatusTransferred:
		return true
	}
	return false
}

// Account is a company account owned by a sales agent.
// Ownership and grouping are plain string references, never foreign keys.
type Account struct {
	shared.VersionedEntity
	ReferenceID   string
	CompanyName   string
	ContactPerson string
	ContactNumber string
	EmailAddress  string
	TypeClient    string
	Address       string
	Area          string
	CompanyGroup  string
	Status        AccountStatus
	TSM           string
	Manager       string
	Extra         map[string]any
}

// NewAccount creates a new active account
func NewAccount(referenceID, companyName string) (*Account, error) {
	referenceID = strings.TrimSpace(referenceID)
	companyName = strings.TrimSpace(companyName)
	if referenceID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Reference ID cannot be empty")
	}
	if companyName == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Company name cannot be empty")
	}
	return &Account{
		VersionedEntity: shared.NewVersionedEntity(),
		ReferenceID:     referenceID,
		CompanyName:     companyName,
		Status:          AccountStatusActive,
		Extra:           make(map[string]any),
	}, nil
}

// SetStatus changes the account status
func (a *Account) SetStatus(status AccountStatus) error {
	if !status.IsValid() {
		return shared.ErrInvalidInput.WithMessage("Invalid account status: " + string(status))
	}
	a.Status = status
	a.Touch()
	return nil
}

// TransferTo hands the account over to another agent
func (a *Account) TransferTo(referenceID, tsm, manager string) error {
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

// AccountFilter narrows account listings
type AccountFilter struct {
	shared.Filter
	ReferenceID  string
	TSM          string
	Manager      string
	CompanyGroup string
	TypeClient   string
	Status       AccountStatus
}
