package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"brief-portal/internal/fillin"
	"brief-portal/internal/logger"
	"brief-portal/internal/models"
	"brief-portal/internal/pdf"
	"brief-portal/internal/services"
	"brief-portal/internal/session"
	"brief-portal/internal/web"

	"github.com/gin-gonic/gin"
)

const maxUploadMemory = 32 << 20

// BriefHandler serves the brief fill-in page and its actions.
type BriefHandler struct {
	fillin  *fillin.Service
	uploads *services.UploadService
	exports *services.ExportService
	log     *logger.Logger
}

func NewBriefHandler(fill *fillin.Service, uploads *services.UploadService, exports *services.ExportService, log *logger.Logger) *BriefHandler {
	return &BriefHandler{fillin: fill, uploads: uploads, exports: exports, log: log.With("handler", "briefs")}
}

type fillField struct {
	Field      models.BriefField
	Input      string
	Saving     bool
	Source     string
	Confidence string
}

type fillGroup struct {
	Heading string
	Fields  []fillField
}

type fillSection struct {
	ID       string
	Name     string
	Active   bool
	Groups   []fillGroup
	Uploaded []string
}

// fillView lays out an editor snapshot for the page: every section for the
// tabs, fields only for the active one.
func fillView(snap fillin.Snapshot) []fillSection {
	sections := make([]fillSection, 0, len(snap.Brief.Sections))
	for _, s := range snap.Brief.Sections {
		fs := fillSection{ID: s.ID, Name: s.SectionName, Active: s.ID == snap.ActiveSection, Uploaded: snap.UploadedKeys[s.ID]}
		if fs.Active {
			for _, g := range pdf.GroupByHeading(s.Fields) {
				fg := fillGroup{Heading: g.Heading}
				for _, f := range g.Fields {
					ff := fillField{
						Field:  f,
						Input:  fillin.FormatInput(f, snap.Values[f.ID]),
						Saving: snap.Saving[f.ID],
					}
					if f.Value != nil {
						ff.Source = f.Value.Source
						if f.Value.Source == models.SourceAI && f.Value.Confidence != nil {
							ff.Confidence = fmt.Sprintf("%.0f%%", *f.Value.Confidence*100)
						}
					}
					fg.Fields = append(fg.Fields, ff)
				}
				fs.Groups = append(fs.Groups, fg)
			}
		}
		sections = append(sections, fs)
	}
	return sections
}

func briefURL(briefID, sectionID string) string {
	u := "/templates/" + url.PathEscape(briefID)
	if sectionID != "" {
		u += "?section=" + url.QueryEscape(sectionID)
	}
	return u
}

// Page renders the fill-in editor, selecting ?section= when given.
func (h *BriefHandler) Page(c *gin.Context) {
	briefID := c.Param("id")
	editor, err := h.fillin.Open(c.Request.Context(), session.ID(c), briefID)
	if err != nil {
		h.log.Warn("failed to load brief", "brief_id", briefID, "error", err)
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load brief"))
		return
	}
	if section := c.Query("section"); section != "" {
		editor.SelectSection(section)
	}

	snap := editor.Snapshot()
	web.Render(c, http.StatusOK, "brief", gin.H{
		"Title":    snap.Brief.Title,
		"Brief":    snap.Brief,
		"Sections": fillView(snap),
		"Active":   snap.ActiveSection,
	})
}

func (h *BriefHandler) Refresh(c *gin.Context) {
	briefID := c.Param("id")
	editor, err := h.fillin.Refresh(c.Request.Context(), session.ID(c), briefID)
	if err != nil {
		web.Redirect(c, briefURL(briefID, ""), web.Failure("Failed to reload brief").With(errorMessage(err, err.Error())))
		return
	}
	web.Redirect(c, briefURL(briefID, editor.ActiveSection()), web.Flash{})
}

// SaveField persists one field. A rolled back save reports the backend's
// reason; a save overtaken by a newer one is silent.
func (h *BriefHandler) SaveField(c *gin.Context) {
	briefID, fieldID := c.Param("id"), c.Param("fieldId")
	sectionID := c.PostForm("section")

	outcome, err := h.fillin.SaveField(c.Request.Context(), session.ID(c), briefID, fieldID, c.PostForm("value"))
	switch {
	case errors.Is(err, fillin.ErrFieldNotFound):
		web.Redirect(c, briefURL(briefID, sectionID), web.Failure("Failed to update field").With("Field not found"))
	case err != nil:
		web.Redirect(c, briefURL(briefID, sectionID), web.Failure("Failed to update field").With(errorMessage(err, err.Error())))
	case outcome == fillin.Saved:
		web.Redirect(c, briefURL(briefID, sectionID), web.Success("Field updated successfully").With(c.PostForm("label")))
	default:
		web.Redirect(c, briefURL(briefID, sectionID), web.Flash{})
	}
}

// Upload stages the posted files and runs them through the upload protocol
// for the section, one at a time.
func (h *BriefHandler) Upload(c *gin.Context) {
	briefID, sectionID := c.Param("id"), c.Param("sectionId")
	back := briefURL(briefID, sectionID)

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		web.Redirect(c, back, web.Failure("Failed to upload files").With("Invalid upload"))
		return
	}
	headers := c.Request.MultipartForm.File["files"]
	if len(headers) == 0 {
		web.Redirect(c, back, web.Failure("No files selected"))
		return
	}

	staged := make([]services.StagedFile, 0, len(headers))
	for _, header := range headers {
		file, err := h.uploads.StageFile(header)
		if err != nil {
			for _, f := range staged {
				h.uploads.Discard(f)
			}
			h.log.Error("failed to stage upload", "brief_id", briefID, "file", header.Filename, "error", err)
			web.Redirect(c, back, web.Failure("Failed to upload files").With(err.Error()))
			return
		}
		staged = append(staged, *file)
	}

	keys, err := h.fillin.Upload(c.Request.Context(), session.ID(c), briefID, sectionID, staged)
	if err != nil {
		detail := errorMessage(err, err.Error())
		if len(keys) > 0 {
			detail = fmt.Sprintf("%s (%d of %d file(s) uploaded)", detail, len(keys), len(staged))
		}
		web.Redirect(c, back, web.Failure("Failed to upload files").With(detail))
		return
	}
	web.Redirect(c, back, web.Success(fmt.Sprintf("All %d file(s) uploaded successfully!", len(keys))))
}

func (h *BriefHandler) Generate(c *gin.Context) {
	briefID, sectionID := c.Param("id"), c.Param("sectionId")
	back := briefURL(briefID, sectionID)

	result, err := h.fillin.Generate(c.Request.Context(), session.ID(c), briefID, sectionID)
	if errors.Is(err, fillin.ErrNoDocuments) {
		web.Redirect(c, back, web.Failure("No documents uploaded").With("Please upload documents first before generating with AI"))
		return
	}
	if err != nil {
		web.Redirect(c, back, web.Failure("Failed to generate with AI").With(errorMessage(err, err.Error())))
		return
	}
	web.Redirect(c, back, web.Success("AI generation completed!").With(
		fmt.Sprintf("Generated values for %d fields", result.SaveResults.Updated)))
}

// PDF exports the brief as stored by the backend, inline with ?inline=1.
func (h *BriefHandler) PDF(c *gin.Context) {
	briefID := c.Param("id")
	editor, err := h.fillin.Refresh(c.Request.Context(), session.ID(c), briefID)
	if err != nil {
		web.RenderError(c, pageStatus(err), errorMessage(err, "Failed to load brief"))
		return
	}

	result, err := h.exports.ExportBrief(c.Request.Context(), editor.Snapshot().Brief, exporterFor(c))
	if err != nil {
		h.log.Error("failed to export brief", "brief_id", briefID, "error", err)
		web.Redirect(c, briefURL(briefID, editor.ActiveSection()), web.Failure("Failed to generate PDF"))
		return
	}
	servePDF(c, result)
}
