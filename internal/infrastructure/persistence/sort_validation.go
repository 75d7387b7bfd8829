package persistence

import (
	"strings"

	"github.com/dormhub/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var (
	UserSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "username": true,
		"display_name": true, "role": true, "status": true, "last_login_at": true,
	}
	BuildingSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
	}
	RoomSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "number": true,
		"room_type": true, "capacity": true, "status": true,
	}
	MaintenanceSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "priority": true,
		"status": true, "title": true, "completed_at": true,
	}
	InspectionSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true,
		"scheduled_at": true, "status": true,
	}
	EventSortFields = map[string]bool{
		"created_at": true, "starts_at": true, "title": true, "capacity": true,
	}
)

// listQuery describes how a resource is sorted and searched
type listQuery struct {
	sortFields   map[string]bool
	defaultOrder string   // e.g. "created_at DESC"
	searchCols   []string // columns matched case-insensitively by Filter.Search
}

// search applies Filter.Search as a case-insensitive substring match over the columns
func (q listQuery) search(db *gorm.DB, filter shared.Filter) *gorm.DB {
	term := strings.TrimSpace(filter.Search)
	if term == "" || len(q.searchCols) == 0 {
		return db
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, len(q.searchCols))
	args := make([]any, len(q.searchCols))
	for i, col := range q.searchCols {
		clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes LIKE wildcards in a user term match literally
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// page applies ordering and pagination
func (q listQuery) page(db *gorm.DB, filter shared.Filter) *gorm.DB {
	filter = filter.Normalize()
	order := q.defaultOrder
	if field := ValidateSortField(filter.OrderBy, q.sortFields, ""); field != "" {
		order = field + " " + ValidateSortOrder(filter.OrderDir)
	}
	return db.Order(order).Offset(filter.Offset()).Limit(filter.PageSize)
}
