package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"brief-portal/internal/logger"
	"brief-portal/internal/models"
	"brief-portal/internal/services"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// AdminHandler serves the admin dashboard, the template list and the
// submission views.
type AdminHandler struct {
	templates   *services.TemplateService
	submissions *services.SubmissionService
	exports     *services.ExportService
	log         *logger.Logger
}

func NewAdminHandler(templates *services.TemplateService, submissions *services.SubmissionService, exports *services.ExportService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		templates:   templates,
		submissions: submissions,
		exports:     exports,
		log:         log.With("handler", "admin"),
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	data := gin.H{"Title": "Admin Dashboard"}
	previews, err := h.submissions.GetTemplateSubmissions(c.Request.Context())
	if err != nil {
		h.log.Warn("failed to load template previews", "error", err)
		data["Error"] = errorMessage(err, "Failed to load dashboard")
		data["Stats"] = services.ComputeDashboardStats(nil)
		web.Render(c, pageStatus(err), "admin_dashboard", data)
		return
	}
	data["Stats"] = services.ComputeDashboardStats(previews)
	web.Render(c, http.StatusOK, "admin_dashboard", data)
}

func (h *AdminHandler) Templates(c *gin.Context) {
	data := gin.H{"Title": "Templates"}
	templates, err := h.templates.GetTemplates(c.Request.Context())
	if err != nil {
		data["Error"] = errorMessage(err, "Failed to load templates")
		web.Render(c, pageStatus(err), "admin_templates", data)
		return
	}
	data["Templates"] = templates
	web.Render(c, http.StatusOK, "admin_templates", data)
}

func (h *AdminHandler) Submissions(c *gin.Context) {
	data := gin.H{"Title": "Submissions"}
	previews, err := h.submissions.GetTemplateSubmissions(c.Request.Context())
	if err != nil {
		data["Error"] = errorMessage(err, "Failed to load submissions")
		web.Render(c, pageStatus(err), "submissions", data)
		return
	}
	data["Templates"] = previews
	web.Render(c, http.StatusOK, "submissions", data)
}

func (h *AdminHandler) SubmissionDetail(c *gin.Context) {
	preview, err := h.submissions.GetTemplateSubmission(c.Request.Context(), c.Param("templateId"))
	if errors.Is(err, services.ErrTemplateNotFound) {
		web.RenderError(c, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load submissions"))
		return
	}
	web.Render(c, http.StatusOK, "submission_detail", gin.H{"Title": preview.TemplateName, "Template": preview})
}

// loadUserSubmission fetches the template preview and the user's brief
// concurrently and joins them into a brief owned by the submitter.
func (h *AdminHandler) loadUserSubmission(ctx context.Context, templateID, userID string) (*models.TemplateSubmission, models.Brief, error) {
	var (
		preview    *models.TemplateSubmission
		submission *models.UserSubmission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		preview, err = h.submissions.GetTemplateSubmission(gctx, templateID)
		return err
	})
	g.Go(func() error {
		var err error
		submission, err = h.submissions.GetUserSubmission(gctx, templateID, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, models.Brief{}, err
	}

	owner := models.Submitter{ID: userID}
	for _, s := range preview.Submissions {
		if s.ID == userID {
			owner = s
			break
		}
	}
	return preview, submission.AsBrief(owner, time.Now()), nil
}

func (h *AdminHandler) UserSubmission(c *gin.Context) {
	preview, brief, err := h.loadUserSubmission(c.Request.Context(), c.Param("templateId"), c.Param("userId"))
	if errors.Is(err, services.ErrTemplateNotFound) {
		web.RenderError(c, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		h.log.Warn("failed to load user submission", "template_id", c.Param("templateId"), "user_id", c.Param("userId"), "error", err)
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load submission"))
		return
	}
	web.Render(c, http.StatusOK, "user_submission", gin.H{
		"Title":    brief.Title,
		"Template": preview,
		"Brief":    brief,
	})
}

// SubmissionPDF exports a user's submission, inline with ?inline=1.
func (h *AdminHandler) SubmissionPDF(c *gin.Context) {
	_, brief, err := h.loadUserSubmission(c.Request.Context(), c.Param("templateId"), c.Param("userId"))
	if errors.Is(err, services.ErrTemplateNotFound) {
		web.RenderError(c, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load submission"))
		return
	}

	result, err := h.exports.ExportBrief(c.Request.Context(), brief, exporterFor(c))
	if err != nil {
		h.log.Error("failed to export submission", "brief_id", brief.ID, "error", err)
		web.RenderError(c, http.StatusBadGateway, "Failed to generate PDF")
		return
	}
	servePDF(c, result)
}
