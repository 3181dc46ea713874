package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/config"
	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/portfolio"
	"github.com/propcover/insurance-master/internal/repository"
)

// PolicyHandler bundles dependencies for policy endpoints.  Status is
// never read from storage: every response runs the classifier against
// the current clock, so a policy that expired overnight shows expired
// on the next request with no batch job involved.
type PolicyHandler struct {
	Cfg       config.Config
	Policies  *repository.PolicyRepo
	Buildings *repository.BuildingRepo
	Agents    *repository.AgentRepo
	History   *repository.HistoryRepo
}

func NewPolicyHandler(cfg config.Config, p *repository.PolicyRepo, b *repository.BuildingRepo,
	a *repository.AgentRepo, hist *repository.HistoryRepo) *PolicyHandler {
	return &PolicyHandler{Cfg: cfg, Policies: p, Buildings: b, Agents: a, History: hist}
}

func (h *PolicyHandler) classifier() portfolio.Classifier {
	return portfolio.Classifier{ExpiringSoonDays: h.Cfg.ExpiringSoonDays}
}

type policyReq struct {
	BuildingID     string             `json:"building_id"`
	AgentID        string             `json:"agent_id"`
	CoverageType   string             `json:"coverage_type"`
	PolicyNumber   string             `json:"policy_number"`
	Carrier        string             `json:"carrier"`
	EffectiveDate  string             `json:"effective_date"`
	ExpirationDate string             `json:"expiration_date"`
	Limits         map[string]float64 `json:"limits"`
	Deductibles    map[string]float64 `json:"deductibles"`
	PremiumAnnual  float64            `json:"premium_annual"`
}

type historyReq struct {
	Note string `json:"note"`
}

// validate checks the request semantically; it returns a user-facing
// message or "" when the payload is acceptable.
func (r *policyReq) validate() string {
	if strings.TrimSpace(r.BuildingID) == "" || strings.TrimSpace(r.AgentID) == "" {
		return "building_id/agent_id required"
	}
	if strings.TrimSpace(r.PolicyNumber) == "" {
		return "policy_number required"
	}
	if !model.KnownCoverageType(model.CoverageType(r.CoverageType)) {
		return "unknown coverage_type"
	}
	eff, err := time.Parse(portfolio.ISODate, r.EffectiveDate)
	if err != nil {
		return "effective_date must be YYYY-MM-DD"
	}
	exp, err := time.Parse(portfolio.ISODate, r.ExpirationDate)
	if err != nil {
		return "expiration_date must be YYYY-MM-DD"
	}
	if !exp.After(eff) {
		return "expiration_date must be after effective_date"
	}
	if r.PremiumAnnual < 0 {
		return "premium_annual must be non-negative"
	}
	return ""
}

// Create adds a policy after validating its references and dates.
func (h *PolicyHandler) Create(c echo.Context) error {
	var req policyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Buildings.GetByID(ctx, req.BuildingID); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown building"})
	}
	if _, err := h.Agents.GetByID(ctx, req.AgentID); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown agent"})
	}

	p := model.Policy{
		BuildingID:     req.BuildingID,
		AgentID:        req.AgentID,
		CoverageType:   model.CoverageType(req.CoverageType),
		PolicyNumber:   strings.TrimSpace(req.PolicyNumber),
		Carrier:        req.Carrier,
		EffectiveDate:  req.EffectiveDate,
		ExpirationDate: req.ExpirationDate,
		Limits:         req.Limits,
		Deductibles:    req.Deductibles,
		PremiumAnnual:  req.PremiumAnnual,
	}
	if err := h.Policies.Create(ctx, &p); err != nil {
		if err == repository.ErrConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "policy number already exists for building"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create policy failed"})
	}

	p.Status = h.classifier().ClassifyDate(p.ExpirationDate, time.Now().UTC())
	return c.JSON(http.StatusCreated, p)
}

// List returns policies filtered by ?building=, ?agent= and ?status=.
// Status filtering happens after classification, against the derived
// value.
func (h *PolicyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	policies, err := h.Policies.List(ctx, c.QueryParam("building"), c.QueryParam("agent"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list policies failed"})
	}

	h.classifier().ClassifyPolicies(policies, time.Now().UTC())

	if want := c.QueryParam("status"); want != "" {
		filtered := make([]model.Policy, 0, len(policies))
		for _, p := range policies {
			if string(p.Status) == want {
				filtered = append(filtered, p)
			}
		}
		policies = filtered
	}
	return c.JSON(http.StatusOK, echo.Map{"policies": policies, "count": len(policies)})
}

// Get returns one policy with its derived status.
func (h *PolicyHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Policies.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}
	p.Status = h.classifier().ClassifyDate(p.ExpirationDate, time.Now().UTC())
	return c.JSON(http.StatusOK, p)
}

// Update rewrites a policy's mutable fields and appends a history
// entry recording the change.
func (h *PolicyHandler) Update(c echo.Context) error {
	var req policyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Policies.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}

	// Updates keep the building; a policy moves buildings by deletion
	// and re-entry, matching how carriers reissue contracts.
	req.BuildingID = p.BuildingID
	if req.AgentID == "" {
		req.AgentID = p.AgentID
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": msg})
	}
	if _, err := h.Agents.GetByID(ctx, req.AgentID); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown agent"})
	}

	p.AgentID = req.AgentID
	p.CoverageType = model.CoverageType(req.CoverageType)
	p.PolicyNumber = strings.TrimSpace(req.PolicyNumber)
	p.Carrier = req.Carrier
	p.EffectiveDate = req.EffectiveDate
	p.ExpirationDate = req.ExpirationDate
	p.Limits = req.Limits
	p.Deductibles = req.Deductibles
	p.PremiumAnnual = req.PremiumAnnual

	if err := h.Policies.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update policy failed"})
	}
	_ = h.History.Append(ctx, &model.PolicyHistory{PolicyID: p.ID, Note: "policy updated"})

	p.Status = h.classifier().ClassifyDate(p.ExpirationDate, time.Now().UTC())
	return c.JSON(http.StatusOK, p)
}

// Delete removes a policy and its dependent rows.
func (h *PolicyHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Policies.Delete(ctx, c.Param("id")); err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete policy failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListHistory returns the audit trail of a policy, newest first.
func (h *PolicyHandler) ListHistory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Policies.GetByID(ctx, c.Param("id")); err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}
	entries, err := h.History.ListByPolicy(ctx, c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list history failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"history": entries, "count": len(entries)})
}

// AddHistory appends a free-text note to a policy's audit trail.
func (h *PolicyHandler) AddHistory(c echo.Context) error {
	var req historyReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Note) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "note required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Policies.GetByID(ctx, c.Param("id")); err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}

	entry := model.PolicyHistory{PolicyID: c.Param("id"), Note: strings.TrimSpace(req.Note)}
	if err := h.History.Append(ctx, &entry); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save note failed"})
	}
	return c.JSON(http.StatusCreated, entry)
}
