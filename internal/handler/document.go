package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propcover/insurance-master/internal/ingest"
	"github.com/propcover/insurance-master/internal/repository"
)

// DocumentHandler bundles dependencies for document upload and review.
type DocumentHandler struct {
	Ingest   *ingest.Service
	Files    *repository.FileRepo
	Policies *repository.PolicyRepo
}

func NewDocumentHandler(svc *ingest.Service, files *repository.FileRepo, policies *repository.PolicyRepo) *DocumentHandler {
	return &DocumentHandler{Ingest: svc, Files: files, Policies: policies}
}

// Upload accepts a multipart document under the "file" field, stores
// it and runs metadata extraction.  Mounted both nested under a policy
// and standalone: the path parameter wins, otherwise optional
// policy_id / building_id form fields link the document.  A given
// policy must exist.
func (h *DocumentHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	policyID := c.Param("id")
	if policyID == "" {
		policyID = c.FormValue("policy_id")
	}
	if policyID != "" {
		if _, err := h.Policies.GetByID(ctx, policyID); err != nil {
			if err == repository.ErrPolicyNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
		}
	}

	rec, err := h.Ingest.Store(ctx, fh, policyID, c.FormValue("building_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store document failed"})
	}
	return c.JSON(http.StatusCreated, rec)
}

// Get returns one document record including extraction results.
func (h *DocumentHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrFileNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load file failed"})
	}
	return c.JSON(http.StatusOK, f)
}

// ListByPolicy returns the documents attached to a policy.
func (h *DocumentHandler) ListByPolicy(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	policyID := c.Param("id")
	if _, err := h.Policies.GetByID(ctx, policyID); err != nil {
		if err == repository.ErrPolicyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "policy not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load policy failed"})
	}
	files, err := h.Files.ListByPolicy(ctx, policyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list files failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"files": files, "count": len(files)})
}

// Download streams the stored document back to the client.
func (h *DocumentHandler) Download(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	f, err := h.Files.GetByID(ctx, c.Param("id"))
	if err != nil {
		if err == repository.ErrFileNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load file failed"})
	}
	return c.Attachment(f.FilePath, f.OriginalFilename)
}
