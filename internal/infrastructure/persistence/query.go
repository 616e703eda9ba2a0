package persistence

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// listPage counts the rows matched by query, clamps the requested page into
// [1, totalPages] and loads that page into dest ordered by a whitelisted column.
func listPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string, dest any) (int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	filter = filter.Normalize()
	filter.Page = shared.ClampPage(filter.Page, shared.TotalPages(total, filter.PageSize))
	orderBy := ValidateSortField(filter.OrderBy, allowed, defaultField)
	orderDir := ValidateSortOrder(filter.OrderDir)

	err := query.
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(dest).Error
	return total, err
}

// whereSearch matches term case-insensitively against any of the columns
func whereSearch(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// whereEq adds "column = value" when value is not empty
func whereEq(query *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return query
	}
	return query.Where(column+" = ?", value)
}

// wherePeriod bounds column by an inclusive [from, to] range, either end optional
func wherePeriod(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}

// bulkUpdates builds the SET list of a multi-row update. Every touched row moves
// to the next version so concurrent single-record writers see the change.
func bulkUpdates(fields map[string]any) map[string]any {
	updates := make(map[string]any, len(fields)+2)
	for col, val := range fields {
		updates[col] = val
	}
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now()
	return updates
}

// updateByIDs runs one UPDATE ... WHERE id IN (...) over model's table
func updateByIDs(db *gorm.DB, model any, ids []uuid.UUID, fields map[string]any) (int64, error) {
	if len(ids) == 0 || len(fields) == 0 {
		return 0, nil
	}
	result := db.Model(model).Where("id IN ?", ids).Updates(bulkUpdates(fields))
	return result.RowsAffected, result.Error
}

// deleteByIDs runs one DELETE ... WHERE id IN (...) over model's table
func deleteByIDs(db *gorm.DB, model any, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("id IN ?", ids).Delete(model)
	return result.RowsAffected, result.Error
}

// saveWithLock writes every column of model only while the stored row still
// carries the version the caller loaded. Callers bump the version once before
// saving, so the stored row must hold version-1. A deleted row is a conflict
// as well: it must not come back through an upsert.
func saveWithLock(db *gorm.DB, model any, id uuid.UUID, version int, what string) error {
	result := db.Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage(what + " was modified or deleted by another request")
	}
	return nil
}

// exists reports whether query matches at least one row
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
