package handlers

import (
	"net/http"

	"brief-portal/internal/logger"
	"brief-portal/internal/services"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
)

// ClientHandler serves the client area pages.
type ClientHandler struct {
	templates *services.TemplateService
	log       *logger.Logger
}

func NewClientHandler(templates *services.TemplateService, log *logger.Logger) *ClientHandler {
	return &ClientHandler{templates: templates, log: log.With("handler", "client")}
}

func (h *ClientHandler) Dashboard(c *gin.Context) {
	data := gin.H{"Title": "Dashboard", "TemplateCount": 0}
	templates, err := h.templates.GetTemplates(c.Request.Context())
	if err != nil {
		h.log.Warn("failed to count templates", "error", err)
	} else {
		data["TemplateCount"] = len(templates)
	}
	web.Render(c, http.StatusOK, "client_dashboard", data)
}

func (h *ClientHandler) Templates(c *gin.Context) {
	data := gin.H{"Title": "Templates"}
	templates, err := h.templates.GetTemplates(c.Request.Context())
	if err != nil {
		data["Error"] = errorMessage(err, "Failed to load templates")
		web.Render(c, pageStatus(err), "client_templates", data)
		return
	}
	data["Templates"] = templates
	web.Render(c, http.StatusOK, "client_templates", data)
}

func (h *ClientHandler) Profile(c *gin.Context) {
	web.Render(c, http.StatusOK, "profile", gin.H{"Title": "Profile"})
}
