package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"brief-portal/internal/logger"
	"brief-portal/internal/models"
	"brief-portal/internal/services"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
)

const usersPath = "/admin/users"

type UserHandler struct {
	users *services.UserService
	log   *logger.Logger
}

func NewUserHandler(users *services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log.With("handler", "users")}
}

// userForm is what the create and edit forms post.
type userForm struct {
	Name     string
	Email    string
	Role     string
	Password string
}

func readUserForm(c *gin.Context) userForm {
	return userForm{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Role:     strings.ToUpper(strings.TrimSpace(c.PostForm("role"))),
		Password: c.PostForm("password"),
	}
}

// validate checks a form; creating requires every field, editing only
// checks what was filled in.
func (f userForm) validate(creating bool) map[string]string {
	errs := map[string]string{}
	if creating {
		if f.Name == "" {
			errs["name"] = "Name is required"
		}
		if f.Email == "" {
			errs["email"] = "Email is required"
		}
		if f.Password == "" {
			errs["password"] = "Password is required"
		}
		if f.Role == "" {
			errs["role"] = "Role is required"
		}
	}
	if f.Email != "" && !strings.Contains(f.Email, "@") {
		errs["email"] = "Email is invalid"
	}
	if f.Role != "" && !models.ValidRole(f.Role) {
		errs["role"] = "Role must be ADMIN or CLIENT"
	}
	return errs
}

func (h *UserHandler) renderForm(c *gin.Context, status int, userID string, form userForm, errs map[string]string) {
	title, action := "Create User", usersPath
	if userID != "" {
		title, action = "Edit User", usersPath+"/"+url.PathEscape(userID)
	}
	web.Render(c, status, "user_form", gin.H{
		"Title":   title,
		"Form":    form,
		"Errors":  errs,
		"Action":  action,
		"Editing": userID != "",
		"Roles":   []string{models.RoleClient, models.RoleAdmin},
	})
}

func (h *UserHandler) List(c *gin.Context) {
	data := gin.H{"Title": "Users"}
	users, err := h.users.GetUsers(c.Request.Context())
	if err != nil {
		data["Error"] = errorMessage(err, "Failed to load users")
		web.Render(c, pageStatus(err), "users", data)
		return
	}
	data["Users"] = users
	web.Render(c, http.StatusOK, "users", data)
}

func (h *UserHandler) NewForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "", userForm{Role: models.RoleClient}, nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	form := readUserForm(c)
	if errs := form.validate(true); len(errs) > 0 {
		h.renderForm(c, http.StatusUnprocessableEntity, "", form, errs)
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), models.CreateUserRequest{
		Name:     form.Name,
		Email:    form.Email,
		Role:     form.Role,
		Password: form.Password,
	})
	if err != nil {
		h.log.Warn("failed to create user", "email", form.Email, "error", err)
		h.renderForm(c, pageStatus(err), "", form, map[string]string{"form": errorMessage(err, "Failed to create user")})
		return
	}
	h.log.Info("user created", "user_id", user.ID)
	web.Redirect(c, usersPath, web.Success("User created successfully"))
}

func (h *UserHandler) EditForm(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrUserNotFound) {
		web.RenderError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load user"))
		return
	}
	h.renderForm(c, http.StatusOK, user.ID, userForm{Name: user.Name, Email: user.Email, Role: user.Role}, nil)
}

// Update sends only the non-empty fields; a blank password keeps the
// current one.
func (h *UserHandler) Update(c *gin.Context) {
	userID := c.Param("id")
	form := readUserForm(c)
	if errs := form.validate(false); len(errs) > 0 {
		h.renderForm(c, http.StatusUnprocessableEntity, userID, form, errs)
		return
	}

	_, err := h.users.UpdateUser(c.Request.Context(), userID, models.UpdateUserRequest{
		Name:     form.Name,
		Email:    form.Email,
		Role:     form.Role,
		Password: form.Password,
	})
	if err != nil {
		h.log.Warn("failed to update user", "user_id", userID, "error", err)
		h.renderForm(c, pageStatus(err), userID, form, map[string]string{"form": errorMessage(err, "Failed to update user")})
		return
	}
	web.Redirect(c, usersPath, web.Success("User updated successfully"))
}

func (h *UserHandler) ConfirmDelete(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrUserNotFound) {
		web.RenderError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load user"))
		return
	}
	web.Render(c, http.StatusOK, "user_delete", gin.H{"Title": "Delete User", "User": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	userID := c.Param("id")
	if err := h.users.DeleteUser(c.Request.Context(), userID); err != nil {
		h.log.Warn("failed to delete user", "user_id", userID, "error", err)
		web.Redirect(c, usersPath, web.Failure(errorMessage(err, "Failed to delete user")))
		return
	}
	h.log.Info("user deleted", "user_id", userID)
	web.Redirect(c, usersPath, web.Success("User deleted successfully"))
}
