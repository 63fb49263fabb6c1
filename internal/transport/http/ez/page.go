package ez

import (
	"math"

	"grocery-backend/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery ?page=&page_size=，页码从 1 开始
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (q PageQuery) ToPage() domain.Page {
	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	// 超大页码夹住，offset 不会溢出；夹住后照样是空页
	if last := math.MaxInt32 / size; page > last {
		page = last
	}
	return domain.Page{Offset: (page - 1) * size, Limit: size}
}
