package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`
}

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

func NewPaging(page, perPage int) Paging {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	return Paging{Page: page, PerPage: perPage, Offset: (page - 1) * perPage, Limit: perPage}
}

// PageParam reads a route param such as :page, falling back to 1.
func PageParam(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Params(key)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ResolvePaging reads the page from the route (or ?page=) and ?per_page=.
// maxPerPage 0 means unbounded.
func ResolvePaging(c *fiber.Ctx, defaultPerPage, maxPerPage int) Paging {
	page := PageParam(c, "page")
	if c.Params("page") == "" {
		if n, err := strconv.Atoi(strings.TrimSpace(c.Query("page"))); err == nil && n > 0 {
			page = n
		}
	}
	perPage, _ := strconv.Atoi(strings.TrimSpace(c.Query("per_page")))
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		perPage = maxPerPage
	}
	return NewPaging(page, perPage)
}

func BuildPaginationFromPage(total int64, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
