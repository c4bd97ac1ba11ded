package handlers

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/EvalAdminBack/internal/models"
	"github.com/saeid-a/EvalAdminBack/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

type pageRequest struct {
	Page  int
	Limit int
	repository.ListOptions
}

// parseListOptions reads page, limit, search, sort and order.
func parseListOptions(c *fiber.Ctx) (pageRequest, error) {
	page, err := parsePositiveInt(c.Query("page"), 1)
	if err != nil {
		return pageRequest{}, errors.New("page must be a positive integer")
	}
	limit, err := parsePositiveInt(c.Query("limit"), defaultPageLimit)
	if err != nil {
		return pageRequest{}, errors.New("limit must be a positive integer")
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	// OFFSET is (page-1)*limit and must not wrap.
	if page-1 > math.MaxInt32/limit {
		return pageRequest{}, errors.New("page must be a positive integer")
	}

	order := strings.ToLower(strings.TrimSpace(c.Query("order")))
	if order != "" && order != "asc" && order != "desc" {
		return pageRequest{}, errors.New("order must be asc or desc")
	}

	return pageRequest{
		Page:  page,
		Limit: limit,
		ListOptions: repository.ListOptions{
			Search: strings.TrimSpace(c.Query("search")),
			Sort:   strings.TrimSpace(c.Query("sort")),
			Order:  order,
			Offset: (page - 1) * limit,
			Limit:  limit,
		},
	}, nil
}

func parsePositiveInt(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, strconv.ErrSyntax
	}
	return value, nil
}

func paginated(c *fiber.Ctx, key string, items any, req pageRequest, total int) error {
	return c.JSON(fiber.Map{
		key:          items,
		"pagination": buildPaginationMeta(req.Page, req.Limit, total),
	})
}
