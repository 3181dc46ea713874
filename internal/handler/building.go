package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/portfolio"
	"github.com/propcover/insurance-master/internal/queue"
	"github.com/propcover/insurance-master/internal/repository"
	queue_publisher "github.com/propcover/insurance-master/internal/service"
)

// BuildingHandler bundles dependencies for building endpoints and the
// assignment board.
type BuildingHandler struct {
	Cfg       config.Config
	Buildings *repository.BuildingRepo
	Agents    *repository.AgentRepo
	Policies  *repository.PolicyRepo
}

func NewBuildingHandler(cfg config.Config, b *repository.BuildingRepo, a *repository.AgentRepo, p *repository.PolicyRepo) *BuildingHandler {
	return &BuildingHandler{Cfg: cfg, Buildings: b, Agents: a, Policies: p}
}

type buildingReq struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Notes          string  `json:"notes"`
	PrimaryAgentID *string `json:"primary_agent_id"`
}

type assignReq struct {
	AgentID string `json:"agent_id"` // agent id or "unassigned"
}

// buildingCard is a building annotated for listings and the board.
type buildingCard struct {
	model.Building
	PolicyCount  int  `json:"policy_count"`
	ExpiringSoon bool `json:"expiring_within_window"`
}

// boardBucket is one column of the assignment board.
type boardBucket struct {
	Agent     *model.Agent   `json:"agent"` // nil for the unassigned column
	Buildings []buildingCard `json:"buildings"`
}

// Create adds a building.  A provided primary agent must exist.
func (h *BuildingHandler) Create(c echo.Context) error {
	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Address) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/address required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.PrimaryAgentID != nil {
		if _, err := h.Agents.GetByID(ctx, *req.PrimaryAgentID); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown agent"})
		}
	}

	b := model.Building{Name: req.Name, Address: req.Address, Notes: req.Notes, PrimaryAgentID: req.PrimaryAgentID}
	if err := h.Buildings.Create(ctx, &b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create building failed"})
	}
	return c.JSON(http.StatusCreated, b)
}

// List returns buildings, optionally filtered by ?agent= (an agent id
// or "unassigned"), each annotated with its policy count.
func (h *BuildingHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	buildings, err := h.Buildings.List(ctx, c.QueryParam("agent"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list buildings failed"})
	}
	counts, err := h.Policies.CountsByBuilding(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count policies failed"})
	}

	cards := make([]buildingCard, 0, len(buildings))
	for _, b := range buildings {
		cards = append(cards, buildingCard{Building: b, PolicyCount: counts[b.ID]})
	}
	return c.JSON(http.StatusOK, echo.Map{"buildings": cards, "count": len(cards)})
}

// Get returns one building by id.
func (h *BuildingHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Buildings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load building failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Update changes name, address and notes.
func (h *BuildingHandler) Update(c echo.Context) error {
	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Buildings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load building failed"})
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		b.Name = v
	}
	if v := strings.TrimSpace(req.Address); v != "" {
		b.Address = v
	}
	b.Notes = req.Notes

	if err := h.Buildings.Update(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update building failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes a building without policies.
func (h *BuildingHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Buildings.Delete(ctx, c.Param("id")); err != nil {
		switch err {
		case repository.ErrBuildingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "building still has policies"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete building failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Board renders the assignment board: one bucket per agent plus the
// synthetic unassigned bucket, every building annotated with its
// policy count and whether any policy expires within the highlight
// window.  Buckets exist even when empty so the UI always shows a
// column per agent.
func (h *BuildingHandler) Board(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
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

	byBuilding := make(map[string][]model.Policy, len(buildings))
	for _, p := range policies {
		byBuilding[p.BuildingID] = append(byBuilding[p.BuildingID], p)
	}

	now := time.Now().UTC()
	grouped := portfolio.GroupByAgent(buildings, agents)

	board := make(map[string]boardBucket, len(grouped))
	for key, bucket := range grouped {
		cards := make([]buildingCard, 0, len(bucket))
		for _, b := range bucket {
			ps := byBuilding[b.ID]
			cards = append(cards, buildingCard{
				Building:     b,
				PolicyCount:  len(ps),
				ExpiringSoon: portfolio.IsExpiringWithin(h.Cfg.HighlightWindowDays, ps, now),
			})
		}
		var agent *model.Agent
		for i := range agents {
			if agents[i].ID == key {
				agent = &agents[i]
				break
			}
		}
		board[key] = boardBucket{Agent: agent, Buildings: cards}
	}
	return c.JSON(http.StatusOK, echo.Map{"board": board, "generated_at": now.Format(time.RFC3339)})
}

// Assign moves a building to another agent or to unassigned.  Unknown
// building is 404, unknown target agent 422; moving a building onto
// its current agent succeeds as a no-op.  Successful moves publish a
// building.reassigned event for the audit log.
func (h *BuildingHandler) Assign(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	target := strings.TrimSpace(req.AgentID)
	if target == "" {
		target = portfolio.Unassigned
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Buildings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load building failed"})
	}
	agents, err := h.Agents.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list agents failed"})
	}

	moved, err := portfolio.MoveBuilding([]model.Building{*b}, agents, b.ID, target)
	if err != nil {
		if err == portfolio.ErrUnknownAgent {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown agent"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "move failed"})
	}
	updated := moved[0]

	if err := h.Buildings.SetPrimaryAgent(ctx, updated.ID, updated.PrimaryAgentID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save assignment failed"})
	}

	ev := queue.BuildingReassignedEvent{
		BuildingID:   updated.ID,
		BuildingName: updated.Name,
		FromAgentID:  portfolio.Unassigned,
		ToAgentID:    target,
		MovedBy:      fmt.Sprint(c.Get("user_id")),
		MovedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if b.PrimaryAgentID != nil {
		ev.FromAgentID = *b.PrimaryAgentID
	}
	for i := range agents {
		if agents[i].ID == target {
			ev.ToAgentName = agents[i].Name
			break
		}
	}
	_ = queue_publisher.PublishBuildingReassigned(ctx, ev) // best effort, never fails the move

	return c.JSON(http.StatusOK, updated)
}

// Gaps reports which required coverage types have no policy on the
// building.  Each gap is a coverage slot in structural "missing"
// status.
func (h *BuildingHandler) Gaps(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Buildings.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrBuildingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "building not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load building failed"})
	}
	policies, err := h.Policies.List(ctx, b.ID, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list policies failed"})
	}

	gaps := portfolio.CoverageGaps(policies, model.CoverageTypes)
	if gaps == nil {
		gaps = []model.CoverageType{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"building_id": b.ID,
		"gaps":        gaps,
	})
}
