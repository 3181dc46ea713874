package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/portfolio"
	"github.com/propcover/insurance-master/internal/repository"
)

// StatsHandler serves the dashboard's headline numbers.
type StatsHandler struct {
	Cfg       config.Config
	Agents    *repository.AgentRepo
	Buildings *repository.BuildingRepo
	Policies  *repository.PolicyRepo
	Alerts    *repository.AlertRepo
}

func NewStatsHandler(cfg config.Config, a *repository.AgentRepo, b *repository.BuildingRepo,
	p *repository.PolicyRepo, al *repository.AlertRepo) *StatsHandler {
	return &StatsHandler{Cfg: cfg, Agents: a, Buildings: b, Policies: p, Alerts: al}
}

// Overview aggregates counts across the portfolio.  The status
// breakdown is derived through the same classifier the listings use,
// so the numbers always agree with what the board shows.
func (h *StatsHandler) Overview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	agents, err := h.Agents.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list agents failed"})
	}
	buildings, err := h.Buildings.List(ctx, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list buildings failed"})
	}
	policies, err := h.Policies.List(ctx, "", "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list policies failed"})
	}
	unread, err := h.Alerts.ListUnread(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list alerts failed"})
	}

	cl := portfolio.Classifier{ExpiringSoonDays: h.Cfg.ExpiringSoonDays}
	now := time.Now().UTC()
	cl.ClassifyPolicies(policies, now)

	byStatus := map[model.Status]int{
		model.StatusActive:       0,
		model.StatusExpiringSoon: 0,
		model.StatusExpired:      0,
		model.StatusMissing:      0,
	}
	var totalPremium float64
	for _, p := range policies {
		byStatus[p.Status]++
		totalPremium += p.PremiumAnnual
	}

	unassigned := 0
	for _, b := range buildings {
		if b.PrimaryAgentID == nil {
			unassigned++
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"agents":               len(agents),
		"buildings":            len(buildings),
		"unassigned_buildings": unassigned,
		"policies":             len(policies),
		"policies_by_status":   byStatus,
		"total_annual_premium": totalPremium,
		"unread_alerts":        len(unread),
		"generated_at":         now.Format(time.RFC3339),
	})
}
