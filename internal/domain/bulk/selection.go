package bulk

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/sales"
	"github.com/sfa/backend/internal/domain/shared"
)

// NormalizeSelection drops nil and duplicate IDs while keeping first-seen order
func NormalizeSelection(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// editableFields maps request field names to columns, per target
var editableFields = map[Target]map[string]string{
	TargetAccounts: {
		"status":       "status",
		"typeclient":   "type_client",
		"companygroup": "company_group",
		"area":         "area",
	},
	TargetActivities: {
		"activitystatus": "activity_status",
		"callstatus":     "call_status",
		"typeactivity":   "type_activity",
		"remarks":        "remarks",
	},
}

// EditableFields lists the patchable field names of a target, sorted
func EditableFields(target Target) []string {
	fields := make([]string, 0, len(editableFields[target]))
	for f := range editableFields[target] {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// PatchColumns validates a bulk edit patch and converts it to column values
func PatchColumns(target Target, patch map[string]string) (map[string]any, error) {
	allowed, ok := editableFields[target]
	if !ok {
		return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid bulk target: %s", target))
	}
	if len(patch) == 0 {
		return nil, shared.ErrInvalidInput.WithMessage("Bulk edit requires at least one field")
	}
	columns := make(map[string]any, len(patch))
	for field, value := range patch {
		column, ok := allowed[strings.ToLower(field)]
		if !ok {
			return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Field %q cannot be bulk edited", field))
		}
		value = strings.TrimSpace(value)
		if target == TargetAccounts && column == "status" && !sales.AccountStatus(value).IsValid() {
			return nil, shared.ErrInvalidInput.WithMessage(fmt.Sprintf("Invalid account status: %s", value))
		}
		columns[column] = value
	}
	return columns, nil
}
