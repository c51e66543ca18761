package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups every route area of the portal.
type Handlers struct {
	Auth      *AuthHandler
	Admin     *AdminHandler
	Templates *TemplateHandler
	Users     *UserHandler
	Client    *ClientHandler
	Briefs    *BriefHandler
	Logs      *LogsHandler
}

// RegisterRoutes mounts the portal pages. Access control is left to the
// guard middleware installed on the engine.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", h.Auth.Root)
	r.GET("/login", h.Auth.LoginPage)
	r.POST("/login", h.Auth.Login)
	r.GET("/register", h.Auth.RegisterPage)
	r.POST("/register", h.Auth.Register)
	r.POST("/logout", h.Auth.Logout)
	r.GET("/unauthorized", h.Auth.Unauthorized)

	admin := r.Group("/admin")
	{
		admin.GET("", h.Admin.Dashboard)

		admin.GET("/templates", h.Admin.Templates)
		admin.GET("/templates/new", h.Templates.New)
		admin.GET("/templates/:id/edit", h.Templates.Edit)
		admin.POST("/templates/:id/wizard", h.Templates.Action)

		admin.GET("/submissions", h.Admin.Submissions)
		admin.GET("/submissions/:templateId", h.Admin.SubmissionDetail)
		admin.GET("/submissions/:templateId/users/:userId", h.Admin.UserSubmission)
		admin.GET("/submissions/:templateId/users/:userId/pdf", h.Admin.SubmissionPDF)

		admin.GET("/users", h.Users.List)
		admin.GET("/users/new", h.Users.NewForm)
		admin.POST("/users", h.Users.Create)
		admin.GET("/users/:id/edit", h.Users.EditForm)
		admin.POST("/users/:id", h.Users.Update)
		admin.GET("/users/:id/delete", h.Users.ConfirmDelete)
		admin.POST("/users/:id/delete", h.Users.Delete)

		if h.Logs != nil {
			admin.GET("/logs", h.Logs.GetLogs)
			admin.GET("/logs/stats", h.Logs.GetLogStats)
		}
	}

	r.GET("/dashboard", h.Client.Dashboard)
	r.GET("/profile", h.Client.Profile)

	briefs := r.Group("/templates")
	{
		briefs.GET("", h.Client.Templates)
		briefs.GET("/:id", h.Briefs.Page)
		briefs.POST("/:id/refresh", h.Briefs.Refresh)
		briefs.GET("/:id/pdf", h.Briefs.PDF)
		briefs.POST("/:id/fields/:fieldId", h.Briefs.SaveField)
		briefs.POST("/:id/sections/:sectionId/upload", h.Briefs.Upload)
		briefs.POST("/:id/sections/:sectionId/generate", h.Briefs.Generate)
	}
}
