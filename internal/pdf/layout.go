// Package pdf lays a brief out as a printable HTML document. Conversion to
// PDF bytes happens elsewhere; everything here is pure.
package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"brief-portal/internal/models"
)

const (
	NotProvided  = "Not provided"
	otherHeading = "Other"
	dateLayout   = "January 2, 2006"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Exporter identifies who generated the document.
type Exporter struct {
	Name  string
	Email string
}

// Document is a laid out brief ready to be converted.
type Document struct {
	Filename   string
	HTML       string
	FooterHTML string
}

type fieldView struct {
	Label string
	Value string
	Empty bool
	Long  bool
}

type groupView struct {
	Heading string
	Fields  []fieldView
}

type sectionView struct {
	Name   string
	Groups []groupView
}

type documentView struct {
	Title        string
	TemplateName string
	Status       string
	StatusClass  string
	CreatedAt    string
	UpdatedAt    string
	CreatedBy    string
	Exporter     *Exporter
	Sections     []sectionView
}

// Layout builds the document for a brief. now stamps the footer.
func Layout(brief models.Brief, exporter *Exporter, now time.Time) (*Document, error) {
	view := documentView{
		Title:        brief.Title,
		TemplateName: brief.TemplateName,
		Status:       StatusLabel(brief.Status),
		StatusClass:  StatusClass(brief.Status),
		CreatedAt:    formatDate(brief.CreatedAt),
		UpdatedAt:    formatDate(brief.UpdatedAt),
		CreatedBy:    brief.CreatedBy.Name,
		Exporter:     exporter,
	}

	sections := make([]models.BriefSection, len(brief.Sections))
	copy(sections, brief.Sections)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].OrderIndex < sections[j].OrderIndex })

	for _, section := range sections {
		sv := sectionView{Name: section.SectionName}
		for _, group := range GroupByHeading(section.Fields) {
			gv := groupView{Heading: group.Heading}
			for _, field := range group.Fields {
				value := FormatFieldValue(field)
				gv.Fields = append(gv.Fields, fieldView{
					Label: field.Label,
					Value: value,
					Empty: value == NotProvided,
					Long:  field.IsLong(),
				})
			}
			sv.Groups = append(sv.Groups, gv)
		}
		view.Sections = append(view.Sections, sv)
	}

	var body bytes.Buffer
	if err := documentTemplate.Execute(&body, view); err != nil {
		return nil, fmt.Errorf("failed to render brief document: %w", err)
	}
	var footer bytes.Buffer
	if err := footerTemplate.Execute(&footer, now.Format("1/2/2006")); err != nil {
		return nil, fmt.Errorf("failed to render brief footer: %w", err)
	}

	return &Document{
		Filename:   Filename(brief.Title),
		HTML:       body.String(),
		FooterHTML: footer.String(),
	}, nil
}

// Filename derives the download name from the brief title.
func Filename(title string) string {
	return unsafeFilenameChars.ReplaceAllString(title, "_") + "_Brief.pdf"
}

// FieldGroup is a run of fields sharing a heading.
type FieldGroup struct {
	Heading string
	Fields  []models.BriefField
}

// GroupByHeading groups fields by heading in order of first appearance.
// Fields without a heading land in "Other".
func GroupByHeading(fields []models.BriefField) []FieldGroup {
	var groups []FieldGroup
	index := map[string]int{}
	for _, f := range fields {
		heading := f.FieldHeading
		if heading == "" {
			heading = otherHeading
		}
		i, ok := index[heading]
		if !ok {
			i = len(groups)
			index[heading] = i
			groups = append(groups, FieldGroup{Heading: heading})
		}
		groups[i].Fields = append(groups[i].Fields, f)
	}
	return groups
}

// FormatFieldValue renders a field's current value as display text.
func FormatFieldValue(field models.BriefField) string {
	if field.Value == nil || isBlank(field.Value.Value) {
		return NotProvided
	}
	val := field.Value.Value

	if field.DataType == models.DataTypeArray {
		if items, ok := val.([]interface{}); ok {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, scalar(item))
			}
			return strings.Join(parts, "\n• ")
		}
	}

	if field.DataType == models.DataTypeObject {
		if obj, ok := val.(map[string]interface{}); ok {
			keys := make([]string, 0, len(obj))
			for k := range obj {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, k+": "+scalar(obj[k]))
			}
			return strings.Join(parts, ", ")
		}
	}

	return scalar(val)
}

// StatusClass picks the badge colour for a brief status.
func StatusClass(status string) string {
	switch status {
	case models.BriefStatusApproved:
		return "approved"
	case models.BriefStatusInProgress:
		return "in-progress"
	default:
		return "draft"
	}
}

func StatusLabel(status string) string {
	return strings.Replace(status, "_", " ", 1)
}

func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

func scalar(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
