package identity

import (
	"regexp"
	"strings"

	"github.com/sfa/backend/internal/domain/shared"
)

// Role is the position of a user in the sales hierarchy
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleManager    Role = "Manager"
	RoleTSM        Role = "Territory Sales Manager"
	RoleTSA        Role = "Territory Sales Associate"
	RoleCSR        Role = "CSR"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleTSM, RoleTSA, RoleCSR:
		return true
	}
	return false
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
	UserStatusResigned UserStatus = "Resigned"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a sales agent or back-office user. ReferenceID is the key every
// other record uses to point at its owner.
type User struct {
	shared.VersionedEntity
	ReferenceID string
	Firstname   string
	Lastname    string
	Email       string
	Role        Role
	Manager     string
	TSM         string
	Location    string
	Status      UserStatus
}

// NewUser creates an active user with an already generated reference ID
func NewUser(referenceID, firstname, lastname, email string, role Role) (*User, error) {
	if strings.TrimSpace(referenceID) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("Reference ID cannot be empty")
	}
	if strings.TrimSpace(firstname) == "" || strings.TrimSpace(lastname) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("First and last name are required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("Invalid role: " + string(role))
	}
	return &User{
		VersionedEntity: shared.NewVersionedEntity(),
		ReferenceID:     referenceID,
		Firstname:       strings.TrimSpace(firstname),
		Lastname:        strings.TrimSpace(lastname),
		Email:           strings.ToLower(strings.TrimSpace(email)),
		Role:            role,
		Status:          UserStatusActive,
	}, nil
}

// FullName returns "Firstname Lastname"
func (u *User) FullName() string {
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

// AssignTo places the user under a TSM and manager
func (u *User) AssignTo(tsm, manager string) {
	u.TSM = tsm
	u.Manager = manager
	u.Touch()
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
