package bulk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
)

// Action is the kind of bulk operation
type Action string

const (
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionTransfer Action = "transfer"
	ActionImport   Action = "import"
)

// IsValid checks if the action is valid
func (a Action) IsValid() bool {
	switch a {
	case ActionEdit, ActionDelete, ActionTransfer, ActionImport:
		return true
	}
	return false
}

// Target is the record collection a bulk operation works on
type Target string

const (
	TargetAccounts   Target = "accounts"
	TargetActivities Target = "activities"
)

// IsValid checks if the target is valid
func (t Target) IsValid() bool {
	return t == TargetAccounts || t == TargetActivities
}

// Status represents the status of a bulk operation
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// IsTerminal returns true if this is a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// RowError describes a problem with one imported row
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// Operation is the audit record of one bulk call
type Operation struct {
	shared.VersionedEntity
	Action       Action
	Target       Target
	Actor        string
	RecordIDs    []uuid.UUID
	Requested    int
	Affected     int
	Status       Status
	ErrorMessage string
	RowErrors    []RowError
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// NewOperation starts tracking a bulk call over requested records
func NewOperation(action Action, target Target, actor string, ids []uuid.UUID, requested int) (*Operation, error) {
	if !action.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid bulk action: %s", action))
	}
	if !target.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid bulk target: %s", target))
	}
	if requested < 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Requested count cannot be negative")
	}
	if ids == nil {
		ids = make([]uuid.UUID, 0)
	}
	return &Operation{
		VersionedEntity: shared.NewVersionedEntity(),
		Action:          action,
		Target:          target,
		Actor:           actor,
		RecordIDs:       ids,
		Requested:       requested,
		Status:          StatusPending,
		RowErrors:       make([]RowError, 0),
		StartedAt:       time.Now(),
	}, nil
}

// Complete marks the operation as done
func (o *Operation) Complete(affected int, rowErrors []RowError) error {
	if o.Status.IsTerminal() {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot complete from state: %s", o.Status))
	}
	o.Status = StatusCompleted
	o.Affected = affected
	if rowErrors != nil {
		o.RowErrors = rowErrors
	}
	now := time.Now()
	o.CompletedAt = &now
	o.Touch()
	return nil
}

// Fail marks the operation as failed. Nothing was changed by a failed operation.
func (o *Operation) Fail(cause error) error {
	if o.Status.IsTerminal() {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Cannot fail from terminal state: %s", o.Status))
	}
	o.Status = StatusFailed
	o.Affected = 0
	if cause != nil {
		o.ErrorMessage = cause.Error()
	}
	now := time.Now()
	o.CompletedAt = &now
	o.Touch()
	return nil
}

// Duration returns how long the operation ran
func (o *Operation) Duration() time.Duration {
	if o.CompletedAt == nil {
		return time.Since(o.StartedAt)
	}
	return o.CompletedAt.Sub(o.StartedAt)
}

// RowErrorsJSON returns the row errors as a JSON string
func (o *Operation) RowErrorsJSON() (string, error) {
	if len(o.RowErrors) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(o.RowErrors)
	if err != nil {
		return "", fmt.Errorf("failed to marshal row errors: %w", err)
	}
	return string(data), nil
}

// SetRowErrorsFromJSON parses row errors from a JSON string
func (o *Operation) SetRowErrorsFromJSON(jsonStr string) error {
	if jsonStr == "" || jsonStr == "[]" {
		o.RowErrors = make([]RowError, 0)
		return nil
	}
	var rowErrors []RowError
	if err := json.Unmarshal([]byte(jsonStr), &rowErrors); err != nil {
		return fmt.Errorf("failed to unmarshal row errors: %w", err)
	}
	o.RowErrors = rowErrors
	return nil
}
