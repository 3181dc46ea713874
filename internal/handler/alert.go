package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/alerts"
	"github.com/propcover/insurance-master/internal/model"
	"github.com/propcover/insurance-master/internal/repository"
)

// AlertHandler bundles dependencies for alert endpoints.  The scanner
// normally runs on its own schedule; Check lets the dashboard trigger
// a pass on demand.
type AlertHandler struct {
	Alerts  *repository.AlertRepo
	Scanner *alerts.Service
}

func NewAlertHandler(a *repository.AlertRepo, scanner *alerts.Service) *AlertHandler {
	return &AlertHandler{Alerts: a, Scanner: scanner}
}

// List returns alerts, most urgent first.  ?unread=true narrows the
// listing to unacknowledged alerts, which is what the dashboard badge
// polls.
func (h *AlertHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		alerts []model.Alert
		err    error
	)
	if c.QueryParam("unread") == "true" {
		alerts, err = h.Alerts.ListUnread(ctx)
	} else {
		alerts, err = h.Alerts.ListAll(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list alerts failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts, "count": len(alerts)})
}

// MarkRead acknowledges an alert.
func (h *AlertHandler) MarkRead(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Alerts.MarkRead(ctx, c.Param("id")); err != nil {
		if err == repository.ErrAlertNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "alert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "mark read failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Check runs a renewal scan immediately and reports what it created.
func (h *AlertHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	created, err := h.Scanner.CheckRenewals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "renewal check failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"created": created, "count": len(created)})
}
