// Package builder holds the template wizard state: a three level tree of
// sections, field groups and fields. Every node carries a stable id and
// every operation returns a new Draft, leaving the receiver untouched.
package builder

import (
	"errors"
	"strings"

	"brief-portal/internal/models"

	"github.com/google/uuid"
)

const (
	StepBasicInfo = 1
	StepSections  = 2
	StepReview    = 3
)

// NewDraftKey is the draft key used while creating a template.
const NewDraftKey = "new"

var (
	ErrSectionNotFound = errors.New("section not found")
	ErrGroupNotFound   = errors.New("field group not found")
	ErrFieldNotFound   = errors.New("field not found")
	ErrInvalidStep     = errors.New("invalid wizard step")
)

type Field struct {
	ID         string      `json:"id"`
	InputName  string      `json:"inputName"`
	DataType   string      `json:"dataType"`
	FieldType  string      `json:"fieldType"`
	Prompt     string      `json:"prompt,omitempty"`
	Options    []string    `json:"options,omitempty"`
	HelperText []string    `json:"helperText,omitempty"`
	InputValue interface{} `json:"inputValue"`
}

type Group struct {
	ID      string  `json:"id"`
	Heading string  `json:"heading"`
	Fields  []Field `json:"fields"`
}

type Section struct {
	ID string `json:"id"`
	// RemoteID is the backend id of a section loaded for editing.
	RemoteID string  `json:"remoteId,omitempty"`
	Name     string  `json:"name"`
	Groups   []Group `json:"groups"`
}

type Draft struct {
	Key           string    `json:"key"`
	TemplateID    string    `json:"templateId,omitempty"`
	TemplateName  string    `json:"templateName"`
	Title         string    `json:"title"`
	Sections      []Section `json:"sections"`
	ActiveSection int       `json:"activeSection"`
	ActiveGroup   int       `json:"activeGroup"`
	Step          int       `json:"step"`
}

// FieldPatch carries the attributes to change; nil means unchanged.
type FieldPatch struct {
	InputName  *string
	DataType   *string
	FieldType  *string
	Prompt     *string
	Options    *[]string
	HelperText *[]string
}

func NewDraft(key string) Draft {
	return Draft{Key: key, Step: StepBasicInfo, Sections: []Section{}}
}

func newID() string {
	return uuid.New().String()
}

// Clamp keeps an active index inside [0, length-1], or 0 for an empty list.
func Clamp(active, length int) int {
	if active > length-1 {
		active = length - 1
	}
	if active < 0 {
		active = 0
	}
	return active
}

func (d Draft) clone() Draft {
	out := d
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		s.Groups = cloneGroups(s.Groups)
		out.Sections[i] = s
	}
	return out
}

func cloneGroups(groups []Group) []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		fields := make([]Field, len(g.Fields))
		for j, f := range g.Fields {
			f.Options = cloneStrings(f.Options)
			f.HelperText = cloneStrings(f.HelperText)
			fields[j] = f
		}
		g.Fields = fields
		out[i] = g
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func (d Draft) sectionIndex(id string) int {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (s Section) groupIndex(id string) int {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

func (g Group) fieldIndex(id string) int {
	for i := range g.Fields {
		if g.Fields[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Draft) locateGroup(sectionID, groupID string) (int, int, error) {
	si := d.sectionIndex(sectionID)
	if si < 0 {
		return -1, -1, ErrSectionNotFound
	}
	gi := d.Sections[si].groupIndex(groupID)
	if gi < 0 {
		return si, -1, ErrGroupNotFound
	}
	return si, gi, nil
}

// Active returns the selected section, or nil when there are none.
func (d Draft) Active() *Section {
	if len(d.Sections) == 0 {
		return nil
	}
	return &d.Sections[Clamp(d.ActiveSection, len(d.Sections))]
}

func (d Draft) SetBasicInfo(templateName, title string) Draft {
	out := d.clone()
	out.TemplateName = templateName
	out.Title = title
	return out
}

// AddSection appends an empty section and selects it.
func (d Draft) AddSection(name string) (Draft, string) {
	out := d.clone()
	id := newID()
	out.Sections = append(out.Sections, Section{ID: id, Name: name, Groups: []Group{}})
	out.ActiveSection = len(out.Sections) - 1
	out.ActiveGroup = 0
	return out, id
}

func (d Draft) RemoveSection(id string) (Draft, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, ErrSectionNotFound
	}
	out := d.clone()
	out.Sections = append(out.Sections[:i], out.Sections[i+1:]...)
	out.ActiveSection = Clamp(d.ActiveSection, len(out.Sections))
	if active := out.Active(); active != nil {
		out.ActiveGroup = Clamp(out.ActiveGroup, len(active.Groups))
	} else {
		out.ActiveGroup = 0
	}
	return out, nil
}

func (d Draft) RenameSection(id, name string) (Draft, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, ErrSectionNotFound
	}
	out := d.clone()
	out.Sections[i].Name = name
	return out, nil
}

func (d Draft) SelectSection(id string) (Draft, error) {
	i := d.sectionIndex(id)
	if i < 0 {
		return d, ErrSectionNotFound
	}
	out := d.clone()
	if out.ActiveSection != i {
		out.ActiveGroup = 0
	}
	out.ActiveSection = i
	return out, nil
}

// AddGroup appends an empty field group to a section and selects it.
func (d Draft) AddGroup(sectionID, heading string) (Draft, string, error) {
	si := d.sectionIndex(sectionID)
	if si < 0 {
		return d, "", ErrSectionNotFound
	}
	out := d.clone()
	id := newID()
	out.Sections[si].Groups = append(out.Sections[si].Groups, Group{ID: id, Heading: heading, Fields: []Field{}})
	out.ActiveSection = si
	out.ActiveGroup = len(out.Sections[si].Groups) - 1
	return out, id, nil
}

func (d Draft) RemoveGroup(sectionID, groupID string) (Draft, error) {
	si, gi, err := d.locateGroup(sectionID, groupID)
	if err != nil {
		return d, err
	}
	out := d.clone()
	groups := out.Sections[si].Groups
	out.Sections[si].Groups = append(groups[:gi], groups[gi+1:]...)
	if si == Clamp(out.ActiveSection, len(out.Sections)) {
		out.ActiveGroup = Clamp(d.ActiveGroup, len(out.Sections[si].Groups))
	}
	return out, nil
}

func (d Draft) RenameGroup(sectionID, groupID, heading string) (Draft, error) {
	si, gi, err := d.locateGroup(sectionID, groupID)
	if err != nil {
		return d, err
	}
	out := d.clone()
	out.Sections[si].Groups[gi].Heading = heading
	return out, nil
}

func (d Draft) SelectGroup(sectionID, groupID string) (Draft, error) {
	si, gi, err := d.locateGroup(sectionID, groupID)
	if err != nil {
		return d, err
	}
	out := d.clone()
	out.ActiveSection = si
	out.ActiveGroup = gi
	return out, nil
}

// AddField appends a blank String input to a group.
func (d Draft) AddField(sectionID, groupID string) (Draft, string, error) {
	si, gi, err := d.locateGroup(sectionID, groupID)
	if err != nil {
		return d, "", err
	}
	out := d.clone()
	id := newID()
	g := &out.Sections[si].Groups[gi]
	g.Fields = append(g.Fields, Field{
		ID:        id,
		DataType:  models.DataTypeString,
		FieldType: models.FieldTypeInput,
	})
	return out, id, nil
}

func (d Draft) RemoveField(sectionID, groupID, fieldID string) (Draft, error) {
	si, gi, err := d.locateGroup(sectionID, groupID)
	if err != nil {
		return d, err
	}
	fi := d.Sections[si].Groups[gi].fieldIndex(fieldID)
	if fi < 0 {
		return d, ErrFieldNotFound
	}
	out := d.clone()
	g := &out.Sections[si].Groups[gi]
	g.Fields = append(g.Fields[:fi], g.Fields[fi+1:]...)
	return out, nil
}

func (d Draft) UpdateField(sectionID, groupID, fieldID string, patch FieldPatch) (Draft, error) {
	si, gi, err := d.locateGroup(sectionID, groupID)
	if err != nil {
		return d, err
	}
	fi := d.Sections[si].Groups[gi].fieldIndex(fieldID)
	if fi < 0 {
		return d, ErrFieldNotFound
	}
	out := d.clone()
	f := &out.Sections[si].Groups[gi].Fields[fi]
	if patch.InputName != nil {
		f.InputName = *patch.InputName
	}
	if patch.DataType != nil && models.ValidDataType(*patch.DataType) {
		f.DataType = *patch.DataType
	}
	if patch.FieldType != nil && models.ValidFieldType(*patch.FieldType) {
		f.FieldType = *patch.FieldType
	}
	if patch.Prompt != nil {
		f.Prompt = *patch.Prompt
	}
	if patch.Options != nil {
		f.Options = cloneStrings(*patch.Options)
	}
	if patch.HelperText != nil {
		f.HelperText = cloneStrings(*patch.HelperText)
	}
	return out, nil
}

// ValidationErrors maps a form field to its message.
type ValidationErrors map[string]string

func (d Draft) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(d.TemplateName) == "" {
		errs["templateName"] = "Template name is required"
	}
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Title is required"
	}
	return errs
}

// GoToStep moves the wizard. Going past basic info requires valid basic
// info; the returned errors are non-empty when the move was refused.
func (d Draft) GoToStep(step int) (Draft, ValidationErrors, error) {
	if step < StepBasicInfo || step > StepReview {
		return d, nil, ErrInvalidStep
	}
	if step > StepBasicInfo {
		if errs := d.Validate(); len(errs) > 0 {
			out := d.clone()
			out.Step = StepBasicInfo
			return out, errs, nil
		}
	}
	out := d.clone()
	out.Step = step
	return out, nil, nil
}

// Template exports the draft as the backend payload, without node ids.
func (d Draft) Template() models.Template {
	t := models.Template{
		ID:           d.TemplateID,
		TemplateName: strings.TrimSpace(d.TemplateName),
		Title:        strings.TrimSpace(d.Title),
		Sections:     make([]models.Section, 0, len(d.Sections)),
	}
	for _, s := range d.Sections {
		ms := models.Section{
			ID:          s.RemoteID,
			SectionName: strings.TrimSpace(s.Name),
			InputFields: make([]models.FieldGroup, 0, len(s.Groups)),
		}
		for _, g := range s.Groups {
			mg := models.FieldGroup{
				FieldsHeading: strings.TrimSpace(g.Heading),
				Fields:        make([]models.InputField, 0, len(g.Fields)),
			}
			for _, f := range g.Fields {
				mg.Fields = append(mg.Fields, models.InputField{
					InputName:  strings.TrimSpace(f.InputName),
					DataType:   f.DataType,
					FieldType:  f.FieldType,
					Prompt:     f.Prompt,
					Options:    cloneStrings(f.Options),
					HelperText: cloneStrings(f.HelperText),
					InputValue: f.InputValue,
				})
			}
			ms.InputFields = append(ms.InputFields, mg)
		}
		t.Sections = append(t.Sections, ms)
	}
	return t
}

// FromTemplate loads a backend template for editing, assigning fresh node
// ids.
func FromTemplate(key string, t models.Template) Draft {
	d := NewDraft(key)
	d.TemplateID = t.ID
	d.TemplateName = t.TemplateName
	d.Title = t.Title
	for _, s := range t.Sections {
		ds := Section{ID: newID(), RemoteID: s.ID, Name: s.SectionName, Groups: make([]Group, 0, len(s.InputFields))}
		for _, g := range s.InputFields {
			dg := Group{ID: newID(), Heading: g.FieldsHeading, Fields: make([]Field, 0, len(g.Fields))}
			for _, f := range g.Fields {
				dg.Fields = append(dg.Fields, Field{
					ID:         newID(),
					InputName:  f.InputName,
					DataType:   f.DataType,
					FieldType:  f.FieldType,
					Prompt:     f.Prompt,
					Options:    cloneStrings(f.Options),
					HelperText: cloneStrings(f.HelperText),
					InputValue: f.InputValue,
				})
			}
			ds.Groups = append(ds.Groups, dg)
		}
		d.Sections = append(d.Sections, ds)
	}
	return d
}
