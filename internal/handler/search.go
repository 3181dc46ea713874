package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/portfolio"
	"github.com/propcover/insurance-master/internal/repository"
)

// SearchHandler serves the policy search box.
type SearchHandler struct {
	Cfg      config.Config
	Policies *repository.PolicyRepo
}

func NewSearchHandler(cfg config.Config, p *repository.PolicyRepo) *SearchHandler {
	return &SearchHandler{Cfg: cfg, Policies: p}
}

// SearchPolicies runs a free-text search across policy number,
// carrier, building name and agent name, with optional ?coverage= and
// ?carrier= filters and page/page_size pagination.  Each hit carries
// its derived status.
func (h *SearchHandler) SearchPolicies(c echo.Context) error {
	q := repository.PolicySearchQuery{
		Term:     c.QueryParam("q"),
		Coverage: c.QueryParam("coverage"),
		Carrier:  c.QueryParam("carrier"),
		Page:     atoiDefault(c.QueryParam("page"), 1),
		PageSize: atoiDefault(c.QueryParam("page_size"), 20),
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rows, total, err := h.Policies.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
	}

	cl := portfolio.Classifier{ExpiringSoonDays: h.Cfg.ExpiringSoonDays}
	now := time.Now().UTC()
	for i := range rows {
		rows[i].Status = string(cl.ClassifyDate(rows[i].ExpirationDate, now))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"results":   rows,
		"total":     total,
		"page":      q.Page,
		"page_size": q.PageSize,
	})
}

// Suggestions completes a partial query from known policy numbers,
// carriers, building names and agent names.  Queries under two
// characters return an empty list without touching the database.
func (h *SearchHandler) Suggestions(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("q"))
	limit := atoiDefault(c.QueryParam("limit"), 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}
	if len(term) < 2 {
		return c.JSON(http.StatusOK, echo.Map{"suggestions": []string{}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Policies.Suggestions(ctx, term, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "suggestions failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"suggestions": out})
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
