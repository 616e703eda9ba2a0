package bulk

import (
	"time"

	"github.com/google/uuid"

	"github.com/sfa/backend/internal/domain/bulk"
)

// EditRequest applies the same field values to every selected record
type EditRequest struct {
	Target bulk.Target
	IDs    []uuid.UUID
	Patch  map[string]string
	Actor  string
}

// DeleteRequest removes every selected record
type DeleteRequest struct {
	Target bulk.Target
	IDs    []uuid.UUID
	Actor  string
}

// TransferRequest hands every selected record to another agent
type TransferRequest struct {
	Target        bulk.Target
	IDs           []uuid.UUID
	ToReferenceID string
	Actor         string
}

// Result reports the outcome of one bulk call
type Result struct {
	OperationID *uuid.UUID  `json:"operation_id,omitempty"`
	Action      bulk.Action `json:"action"`
	Target      bulk.Target `json:"target"`
	Requested   int         `json:"requested"`
	Affected    int         `json:"affected"`
}

// OperationResponse is the API view of a recorded bulk operation
type OperationResponse struct {
	ID           uuid.UUID       `json:"id"`
	Action       bulk.Action     `json:"action"`
	Target       bulk.Target     `json:"target"`
	Actor        string          `json:"actor"`
	Requested    int             `json:"requested"`
	Affected     int             `json:"affected"`
	Status       bulk.Status     `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	RowErrors    []bulk.RowError `json:"row_errors,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
	DurationMs   int64           `json:"duration_ms"`
}

// ToOperationResponse converts a domain operation
func ToOperationResponse(op *bulk.Operation) OperationResponse {
	return OperationResponse{
		ID:           op.ID,
		Action:       op.Action,
		Target:       op.Target,
		Actor:        op.Actor,
		Requested:    op.Requested,
		Affected:     op.Affected,
		Status:       op.Status,
		ErrorMessage: op.ErrorMessage,
		RowErrors:    op.RowErrors,
		StartedAt:    op.StartedAt,
		CompletedAt:  op.CompletedAt,
		DurationMs:   op.Duration().Milliseconds(),
	}
}

// HistoryFilter narrows the bulk operation history
type HistoryFilter struct {
	Page     int
	PageSize int
	Action   string
	Target   string
	Status   string
	Actor    string
	From     *time.Time
	To       *time.Time
}
