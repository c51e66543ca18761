package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"brief-portal/internal/apiclient"
	"brief-portal/internal/models"
	"brief-portal/internal/pdf"
	"brief-portal/internal/services"
	"brief-portal/internal/session"

	"github.com/gin-gonic/gin"
)

// homeFor is the landing page of a role.
func homeFor(role string) (string, bool) {
	switch role {
	case models.RoleAdmin:
		return "/admin", true
	case models.RoleClient:
		return "/dashboard", true
	}
	return "", false
}

// errorMessage prefers the backend's own message over the fallback.
func errorMessage(err error, fallback string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// pageStatus maps a failed backend call to the status of the page that
// reports it.
func pageStatus(err error) int {
	if status := apiclient.StatusOf(err); status >= 400 {
		return status
	}
	return http.StatusBadGateway
}

func exporterFor(c *gin.Context) *pdf.Exporter {
	p := session.CurrentProfile(c)
	if p == nil {
		return nil
	}
	return &pdf.Exporter{Name: p.Name, Email: p.Email}
}

// servePDF delivers an export either inline or as a download. Inline views
// of archived exports go straight to storage.
func servePDF(c *gin.Context, result *services.ExportResult) {
	if c.Query("inline") != "" {
		if result.ArchiveURL != "" {
			c.Redirect(http.StatusFound, result.ArchiveURL)
			return
		}
		c.Header("Content-Disposition", `inline; filename="`+result.Filename+`"`)
		c.Data(http.StatusOK, "application/pdf", result.Data)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(result.Data)))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}

// splitLines reads a textarea of one entry per line.
func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
