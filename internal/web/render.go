// Package web renders the portal pages. Every page is parsed together with
// the shared layout so pages can be rendered by name through gin.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"brief-portal/internal/fillin"
	"brief-portal/internal/models"
	"brief-portal/internal/pdf"
	"brief-portal/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer implements gin's render.HTMLRender over the embedded page set.
type Renderer struct {
	pages map[string]*template.Template
}

var missingPage = template.Must(template.New("layout").Parse(`<p>page not found</p>`))

func funcs() template.FuncMap {
	return template.FuncMap{
		"formatValue": pdf.FormatFieldValue,
		"statusClass": pdf.StatusClass,
		"statusLabel": pdf.StatusLabel,
		"inputValue":  fillin.FormatInput,
		"htmlDate":    fillin.HTMLDate,
		"groupFields": pdf.GroupByHeading,
		"join":        strings.Join,
		"lower":       strings.ToLower,
		"add":         func(a, b int) int { return a + b },
		"isAdmin":     func(p *models.Profile) bool { return p != nil && p.Role == models.RoleAdmin },
		"initial": func(s string) string {
			s = strings.TrimSpace(s)
			if s == "" {
				return "?"
			}
			return strings.ToUpper(string([]rune(s)[:1]))
		},
		"lines": func(items []string) string { return strings.Join(items, "\n") },
		"dataTypes": func() []string {
			return []string{models.DataTypeString, models.DataTypeDate, models.DataTypeArray, models.DataTypeObject}
		},
		"fieldTypes": func() []string {
			return []string{models.FieldTypeInput, models.FieldTypeDropdown, models.FieldTypeTextarea}
		},
		"stepButton": func(action string, step int, label string) map[string]interface{} {
			return map[string]interface{}{"Action": action, "Step": step, "Label": label}
		},
	}
}

// NewRenderer parses every page under templates/ against the layout.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs()).ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list page templates: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		page, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout: %w", err)
		}
		if _, err := page.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data any) render.Render {
	t, ok := r.pages[name]
	if !ok {
		t = missingPage
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

// Has reports whether a page of that name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render writes a page with the shared layout data filled in: the signed-in
// profile and any pending flash message.
func Render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Profile"] = session.CurrentProfile(c)
	data["Path"] = c.Request.URL.Path
	if _, ok := data["Flash"]; !ok {
		if f, ok := TakeFlash(c); ok {
			data["Flash"] = f
		}
	}
	c.HTML(status, page, data)
}

// RenderError shows the error page with a banner message.
func RenderError(c *gin.Context, status int, message string) {
	Render(c, status, "error", gin.H{"Title": http.StatusText(status), "Error": message})
}
