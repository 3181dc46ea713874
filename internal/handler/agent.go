package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/repository"
)

// AgentHandler bundles dependencies for agent endpoints.
type AgentHandler struct {
	Agents *repository.AgentRepo
}

func NewAgentHandler(a *repository.AgentRepo) *AgentHandler {
	return &AgentHandler{Agents: a}
}

type agentReq struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Create adds an agent.
func (h *AgentHandler) Create(c echo.Context) error {
	var req agentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := model.Agent{Name: req.Name, Company: req.Company, Email: req.Email, Phone: req.Phone}
	if err := h.Agents.Create(ctx, &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create agent failed"})
	}
	return c.JSON(http.StatusCreated, a)
}

// List returns all agents.
func (h *AgentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	agents, err := h.Agents.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list agents failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"agents": agents, "count": len(agents)})
}

// Get returns one agent by id.
func (h *AgentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Agents.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrAgentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "agent not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load agent failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Delete removes an agent.  Buildings assigned to the agent are left
// with a dangling reference and surface under "unassigned" on the
// board; that is intentional, so a deletion never cascades.
func (h *AgentHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Agents.Delete(ctx, c.Param("id")); err != nil {
		if err == repository.ErrAgentNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "agent not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete agent failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
