package handlers

import (
	"net/http"
	"strings"

	"brief-portal/internal/logger"
	"brief-portal/internal/models"
	"brief-portal/internal/services"
	"brief-portal/internal/session"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
)

const unsupportedRole = "Unsupported role"

type AuthHandler struct {
	auth     *services.AuthService
	sessions *session.Store
	log      *logger.Logger
}

func NewAuthHandler(auth *services.AuthService, sessions *session.Store, log *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, log: log.With("handler", "auth")}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	web.Render(c, http.StatusOK, "login", gin.H{"Title": "Sign in", "Email": ""})
}

// Login signs in against the backend and sends the user to the home page of
// their role. Roles the portal has no area for are refused.
func (h *AuthHandler) Login(c *gin.Context) {
	req := models.LoginRequest{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	form := gin.H{"Title": "Sign in", "Email": req.Email}
	if req.Email == "" || req.Password == "" {
		form["Error"] = "Email and password are required"
		web.Render(c, http.StatusUnprocessableEntity, "login", form)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("login failed", "email", req.Email, "error", err)
		form["Error"] = errorMessage(err, "Login failed")
		web.Render(c, pageStatus(err), "login", form)
		return
	}

	home, ok := homeFor(resp.Role)
	if !ok {
		form["Error"] = unsupportedRole
		web.Render(c, http.StatusForbidden, "login", form)
		return
	}
	if err := h.sessions.Begin(c, resp); err != nil {
		h.log.Error("failed to start session", "user_id", resp.ID, "error", err)
		form["Error"] = "Could not start your session, please try again"
		web.Render(c, http.StatusInternalServerError, "login", form)
		return
	}

	h.log.Info("user signed in", "user_id", resp.ID, "role", resp.Role)
	c.Redirect(http.StatusSeeOther, home)
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	web.Render(c, http.StatusOK, "register", gin.H{"Title": "Create account", "Name": "", "Email": ""})
}

// Register creates an account and signs it in.
func (h *AuthHandler) Register(c *gin.Context) {
	req := models.RegisterRequest{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	form := gin.H{"Title": "Create account", "Name": req.Name, "Email": req.Email}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		form["Error"] = "Name, email and password are required"
		web.Render(c, http.StatusUnprocessableEntity, "register", form)
		return
	}
	if confirm, ok := c.GetPostForm("confirmPassword"); ok && confirm != req.Password {
		form["Error"] = "Passwords do not match"
		web.Render(c, http.StatusUnprocessableEntity, "register", form)
		return
	}

	resp, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("registration failed", "email", req.Email, "error", err)
		form["Error"] = errorMessage(err, "Registration failed")
		web.Render(c, pageStatus(err), "register", form)
		return
	}

	home, ok := homeFor(resp.Role)
	if !ok {
		form["Error"] = unsupportedRole
		web.Render(c, http.StatusForbidden, "register", form)
		return
	}
	if err := h.sessions.Begin(c, resp); err != nil {
		h.log.Error("failed to start session", "user_id", resp.ID, "error", err)
		form["Error"] = "Could not start your session, please try again"
		web.Render(c, http.StatusInternalServerError, "register", form)
		return
	}
	web.Redirect(c, home, web.Success("Account created"))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.End(c)
	web.Redirect(c, "/login", web.Info("You have been signed out"))
}

func (h *AuthHandler) Unauthorized(c *gin.Context) {
	web.Render(c, http.StatusForbidden, "unauthorized", gin.H{"Title": "Unauthorized"})
}

// Root only runs when the guard let "/" through, which it never does for a
// signed-in user.
func (h *AuthHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
}
