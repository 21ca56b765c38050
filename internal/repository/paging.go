package repository

import (
	"finesse/internal/listing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListParams are pushed down to SQL when no text filter is active.
type ListParams struct {
	Ativo *bool
	Sort  listing.Sort
	Page  int
	Size  int
}

// listPage counts q, then applies the sort column (id when unknown) and the page window.
func listPage[T any](q *gorm.DB, p ListParams, columns map[string]string) ([]T, int64, error) {
	if p.Ativo != nil {
		q = q.Where("ativo = ?", *p.Ativo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := columns[p.Sort.Field]
	if !ok {
		col, p.Sort.Desc = "id", false
	}
	page, size := listing.ClampPage(p.Page, p.Size)

	var rows []T
	err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: p.Sort.Desc}).
		Order("id ASC").
		Limit(size).
		Offset(page * size).
		Find(&rows).Error
	return rows, total, err
}
