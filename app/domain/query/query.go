package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Pagination struct {
	Page  int
	Limit int
	Order string
}

func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// ListQuery is a page of a searchable, filterable collection. It maps
// one-to-one onto the page cache key of a family.
type ListQuery struct {
	Pagination
	Search string
	Filter string
}

func NewPagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Pagination{Page: page, Limit: limit, Order: "desc"}
}

func GetPaginationFromQuery(reqCtx *gin.Context) (*Pagination, error) {
	pageStr := reqCtx.DefaultQuery("page", "1")
	limitStr := reqCtx.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	order := reqCtx.DefaultQuery("order", "desc")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return nil, fmt.Errorf("invalid page number")
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		return nil, fmt.Errorf("invalid limit number")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf("invalid order")
	}

	return &Pagination{
		Page:  page,
		Limit: limit,
		Order: order,
	}, nil
}

// GetListQueryFromQuery reads page, limit, order, search and the named filter parameter.
func GetListQueryFromQuery(reqCtx *gin.Context, filterParam string) (*ListQuery, error) {
	p, err := GetPaginationFromQuery(reqCtx)
	if err != nil {
		return nil, err
	}
	q := &ListQuery{
		Pagination: *p,
		Search:     strings.TrimSpace(reqCtx.Query("search")),
	}
	if filterParam != "" {
		q.Filter = strings.TrimSpace(reqCtx.Query(filterParam))
	}
	return q, nil
}

// Page is the envelope cached for paginated reads. Items is never nil.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, total int64, p Pagination) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}
}
