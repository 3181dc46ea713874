package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/portfolio"
	"github.com/propcover/insurance-master/internal/repository"
)

// ClaimHandler bundles dependencies for claim endpoints.
type ClaimHandler struct {
	Claims   *repository.ClaimRepo
	Policies *repository.PolicyRepo
	History  *repository.HistoryRepo
}

func NewClaimHandler(cl *repository.ClaimRepo, p *repository.PolicyRepo, hist *repository.HistoryRepo) *ClaimHandler {
	return &ClaimHandler{Claims: cl, Policies: p, History: hist}
}

type claimReq struct {
	PolicyID    string  `json:"policy_id"` // ignored on the nested route
	ClaimNumber string  `json:"claim_number"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Note        string  `json:"note"`
}

// Create files a claim under a policy and records it in the policy's
// history.  Mounted both nested under a policy and standalone; the
// path parameter wins over the body's policy_id.
func (h *ClaimHandler) Create(c echo.Context) error {
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.ClaimNumber) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "claim_number required"})
	}
	if req.Date != "" {
		if _, err := time.Parse(portfolio.ISODate, req.Date); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
	}
	status := req.Status
	if status == "" {
		status = model.ClaimOpen
	}
	if !model.KnownClaimStatus(status) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	policyID := c.Param("id")
	if policyID == "" {
		policyID = strings.TrimSpace(req.PolicyID)
	}
	if policyID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "policy_id required"})
	}
	if _, err := h.Policies.GetByID(ctx, policyID); err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}

	claim := model.Claim{
		PolicyID:    policyID,
		ClaimNumber: strings.TrimSpace(req.ClaimNumber),
		Date:        req.Date,
		Amount:      req.Amount,
		Status:      status,
		Note:        req.Note,
	}
	if err := h.Claims.Create(ctx, &claim); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create claim failed"})
	}
	_ = h.History.Append(ctx, &model.PolicyHistory{
		PolicyID: policyID,
		Note:     "claim filed: " + claim.ClaimNumber,
	})
	return c.JSON(http.StatusCreated, claim)
}

// List returns the claims filed under a policy.
func (h *ClaimHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	policyID := c.Param("id")
	if _, err := h.Policies.GetByID(ctx, policyID); err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}
	claims, err := h.Claims.ListByPolicy(ctx, policyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list claims failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"claims": claims, "count": len(claims)})
}

// ListAll returns claims across every policy, filtered by ?policy= and
// ?status= when set.
func (h *ClaimHandler) ListAll(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.KnownClaimStatus(status) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	claims, err := h.Claims.List(ctx, c.QueryParam("policy"), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list claims failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"claims": claims, "count": len(claims)})
}

// UpdateStatus moves a claim through open -> pending -> closed.
func (h *ClaimHandler) UpdateStatus(c echo.Context) error {
	var req claimReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.KnownClaimStatus(req.Status) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Claims.UpdateStatus(ctx, c.Param("claimID"), req.Status, req.Note); err != nil {
		if err == repository.ErrClaimNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "claim not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update claim failed"})
	}
	claim, err := h.Claims.GetByID(ctx, c.Param("claimID"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load claim failed"})
	}
	return c.JSON(http.StatusOK, claim)
}
