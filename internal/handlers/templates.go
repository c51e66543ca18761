package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"brief-portal/internal/builder"
	"brief-portal/internal/logger"
	"brief-portal/internal/services"
	"brief-portal/internal/session"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
)

// TemplateHandler drives the three step template wizard. Each form post
// applies one builder operation to the session's draft.
type TemplateHandler struct {
	templates *services.TemplateService
	drafts    *builder.DraftStore
	log       *logger.Logger
}

func NewTemplateHandler(templates *services.TemplateService, drafts *builder.DraftStore, log *logger.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, drafts: drafts, log: log.With("handler", "templates")}
}

func wizardURL(key string) string {
	if key == builder.NewDraftKey {
		return "/admin/templates/new"
	}
	return "/admin/templates/" + url.PathEscape(key) + "/edit"
}

// loadDraft returns the session's draft for key. An edit draft is seeded
// from the backend template the first time.
func (h *TemplateHandler) loadDraft(ctx context.Context, sessionID, key string) (builder.Draft, error) {
	d, ok, err := h.drafts.Load(ctx, sessionID, key)
	if err != nil {
		return builder.Draft{}, err
	}
	if ok {
		return d, nil
	}
	if key == builder.NewDraftKey {
		return builder.NewDraft(key), nil
	}
	t, err := h.templates.GetTemplate(ctx, key)
	if err != nil {
		return builder.Draft{}, err
	}
	return builder.FromTemplate(key, *t), nil
}

func (h *TemplateHandler) renderWizard(c *gin.Context, status int, d builder.Draft, errs builder.ValidationErrors) {
	title := "Create Template"
	if d.Key != builder.NewDraftKey {
		title = "Edit Template"
	}
	web.Render(c, status, "wizard", gin.H{
		"Title":   title,
		"Draft":   d,
		"Active":  d.Active(),
		"Errors":  errs,
		"Action":  "/admin/templates/" + url.PathEscape(d.Key) + "/wizard",
		"Editing": d.Key != builder.NewDraftKey,
		"Steps":   []string{"Basic Info", "Add Sections", "Review"},
	})
}

func (h *TemplateHandler) showDraft(c *gin.Context, key string) {
	d, err := h.loadDraft(c.Request.Context(), session.ID(c), key)
	if errors.Is(err, services.ErrTemplateNotFound) {
		web.RenderError(c, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		h.log.Warn("failed to load draft", "key", key, "error", err)
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load template"))
		return
	}
	h.renderWizard(c, http.StatusOK, d, nil)
}

func (h *TemplateHandler) New(c *gin.Context) {
	h.showDraft(c, builder.NewDraftKey)
}

func (h *TemplateHandler) Edit(c *gin.Context) {
	h.showDraft(c, c.Param("id"))
}

// Action applies the posted wizard action. Validation failures re-render the
// wizard with inline messages and never reach the backend.
func (h *TemplateHandler) Action(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := session.ID(c)
	key := c.Param("id")

	d, err := h.loadDraft(ctx, sessionID, key)
	if errors.Is(err, services.ErrTemplateNotFound) {
		web.RenderError(c, http.StatusNotFound, "Template not found")
		return
	}
	if err != nil {
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load template"))
		return
	}

	// basic info rides along with every post made from step one
	if _, ok := c.GetPostForm("templateName"); ok {
		d = d.SetBasicInfo(c.PostForm("templateName"), c.PostForm("title"))
	}

	action := c.PostForm("action")
	switch action {
	case "discard":
		if err := h.drafts.Delete(ctx, sessionID, key); err != nil {
			h.log.Warn("failed to delete draft", "key", key, "error", err)
		}
		web.Redirect(c, "/admin/templates", web.Flash{})
		return
	case "submit":
		h.submit(c, sessionID, d)
		return
	}

	var errs builder.ValidationErrors
	notice := web.Flash{}
	switch action {
	case "save":
	case "step":
		step, convErr := strconv.Atoi(c.PostForm("step"))
		if convErr != nil {
			err = builder.ErrInvalidStep
			break
		}
		d, errs, err = d.GoToStep(step)
	case "add-section":
		d, _ = d.AddSection(c.PostForm("name"))
		if key != builder.NewDraftKey {
			notice = web.Success("Section added!")
		}
	case "remove-section":
		d, err = d.RemoveSection(c.PostForm("section"))
	case "rename-section":
		d, err = d.RenameSection(c.PostForm("section"), c.PostForm("name"))
	case "select-section":
		d, err = d.SelectSection(c.PostForm("section"))
	case "add-group":
		d, _, err = d.AddGroup(c.PostForm("section"), c.PostForm("heading"))
		if err == nil && key != builder.NewDraftKey {
			notice = web.Success("Field group added!")
		}
	case "remove-group":
		d, err = d.RemoveGroup(c.PostForm("section"), c.PostForm("group"))
	case "rename-group":
		d, err = d.RenameGroup(c.PostForm("section"), c.PostForm("group"), c.PostForm("heading"))
	case "select-group":
		d, err = d.SelectGroup(c.PostForm("section"), c.PostForm("group"))
	case "add-field":
		d, _, err = d.AddField(c.PostForm("section"), c.PostForm("group"))
	case "remove-field":
		d, err = d.RemoveField(c.PostForm("section"), c.PostForm("group"), c.PostForm("field"))
	case "update-field":
		d, err = d.UpdateField(c.PostForm("section"), c.PostForm("group"), c.PostForm("field"), patchFromForm(c))
	default:
		err = errors.New("unknown wizard action")
	}

	if saveErr := h.drafts.Save(ctx, sessionID, d); saveErr != nil {
		h.log.Error("failed to save draft", "key", key, "error", saveErr)
		web.RenderError(c, http.StatusInternalServerError, "Failed to save your changes")
		return
	}
	if err != nil {
		web.Redirect(c, wizardURL(key), web.Failure(err.Error()))
		return
	}
	if len(errs) > 0 {
		h.renderWizard(c, http.StatusUnprocessableEntity, d, errs)
		return
	}
	web.Redirect(c, wizardURL(key), notice)
}

func patchFromForm(c *gin.Context) builder.FieldPatch {
	var patch builder.FieldPatch
	if v, ok := c.GetPostForm("inputName"); ok {
		patch.InputName = &v
	}
	if v, ok := c.GetPostForm("dataType"); ok {
		patch.DataType = &v
	}
	if v, ok := c.GetPostForm("fieldType"); ok {
		patch.FieldType = &v
	}
	if v, ok := c.GetPostForm("prompt"); ok {
		v = strings.TrimSpace(v)
		patch.Prompt = &v
	}
	if v, ok := c.GetPostForm("options"); ok {
		opts := splitLines(v)
		patch.Options = &opts
	}
	if v, ok := c.GetPostForm("helperText"); ok {
		lines := splitLines(v)
		patch.HelperText = &lines
	}
	return patch
}

// submit sends the whole draft to the backend: a create for a new draft, a
// full replace for an edit. The draft survives a failed submit.
func (h *TemplateHandler) submit(c *gin.Context, sessionID string, d builder.Draft) {
	ctx := c.Request.Context()
	if errs := d.Validate(); len(errs) > 0 {
		if err := h.drafts.Save(ctx, sessionID, d); err != nil {
			h.log.Warn("failed to save draft", "key", d.Key, "error", err)
		}
		h.renderWizard(c, http.StatusUnprocessableEntity, d, errs)
		return
	}

	payload := d.Template()
	var err error
	if d.Key == builder.NewDraftKey {
		_, err = h.templates.CreateBriefFromTemplate(ctx, payload)
	} else {
		payload.ID = d.Key
		_, err = h.templates.UpdateBriefFromTemplate(ctx, payload)
	}
	if err != nil {
		h.log.Warn("template submit failed", "key", d.Key, "error", err)
		if saveErr := h.drafts.Save(ctx, sessionID, d); saveErr != nil {
			h.log.Warn("failed to save draft", "key", d.Key, "error", saveErr)
		}
		failure := "Failed to create template"
		if d.Key != builder.NewDraftKey {
			failure = "Failed to update template"
		}
		web.Redirect(c, wizardURL(d.Key), web.Failure(failure).With(errorMessage(err, err.Error())))
		return
	}

	if err := h.drafts.Delete(ctx, sessionID, d.Key); err != nil {
		h.log.Warn("failed to delete draft", "key", d.Key, "error", err)
	}
	if d.Key == builder.NewDraftKey {
		h.log.Info("template created", "template_name", payload.TemplateName)
		web.Redirect(c, "/admin", web.Success("Template created successfully!").With(payload.TemplateName))
		return
	}
	h.log.Info("template updated", "template_id", d.Key)
	web.Redirect(c, "/admin/templates", web.Success("Template updated successfully!").With(payload.TemplateName))
}
