package service

import "github.com/askeland/vanir/internal/domain"

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func normalizePage(page, limit int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pagination(page, limit int32, total int64) domain.Pagination {
	totalPages := int32((total + int64(limit) - 1) / int64(limit))
	return domain.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}
