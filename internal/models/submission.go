package models

import "time"

// TemplateSubmission pairs a template with the users who submitted a brief
// against it.
type TemplateSubmission struct {
	ID           string      `json:"id"`
	TemplateName string      `json:"templateName"`
	Title        string      `json:"title"`
	Sections     []Section   `json:"sections"`
	Submissions  []Submitter `json:"submissions"`
}

type Submitter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserSubmission is one user's brief for a template. Fields carry their
// value history, latest first.
type UserSubmission struct {
	ID           string                  `json:"id"`
	Title        string                  `json:"title"`
	TemplateName string                  `json:"templateName"`
	Status       string                  `json:"status"`
	Sections     []UserSubmissionSection `json:"sections"`
}

type UserSubmissionSection struct {
	ID          string                `json:"id"`
	SectionName string                `json:"sectionName"`
	OrderIndex  int                   `json:"orderIndex"`
	Fields      []UserSubmissionField `json:"fields"`
}

type UserSubmissionField struct {
	ID           string       `json:"id"`
	FieldKey     string       `json:"fieldKey"`
	Label        string       `json:"label"`
	FieldHeading string       `json:"fieldHeading"`
	DataType     string       `json:"dataType"`
	FieldType    string       `json:"fieldType"`
	Options      FieldOptions `json:"options"`
	Prompt       *string      `json:"prompt"`
	Values       []FieldValue `json:"values"`
}

// AsBrief converts the submission into a brief whose field values are the
// latest entry of each history.
func (s UserSubmission) AsBrief(owner Submitter, now time.Time) Brief {
	brief := Brief{
		ID:           s.ID,
		Title:        s.Title,
		TemplateName: s.TemplateName,
		Status:       s.Status,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    UserRef{ID: owner.ID, Name: owner.Name, Email: owner.Email, Role: RoleClient},
		Sections:     make([]BriefSection, 0, len(s.Sections)),
	}
	for _, section := range s.Sections {
		bs := BriefSection{
			ID:          section.ID,
			BriefID:     s.ID,
			SectionName: section.SectionName,
			OrderIndex:  section.OrderIndex,
			Fields:      make([]BriefField, 0, len(section.Fields)),
		}
		for _, f := range section.Fields {
			field := BriefField{
				ID:           f.ID,
				FieldKey:     f.FieldKey,
				Label:        f.Label,
				FieldHeading: f.FieldHeading,
				DataType:     f.DataType,
				FieldType:    f.FieldType,
				Options:      f.Options,
				Prompt:       f.Prompt,
			}
			if len(f.Values) > 0 {
				latest := f.Values[0]
				field.Value = &latest
			}
			bs.Fields = append(bs.Fields, field)
		}
		brief.Sections = append(brief.Sections, bs)
	}
	return brief
}

// DashboardStats summarises the template preview list for the admin
// dashboard.
type DashboardStats struct {
	TotalTemplates                int
	TotalSubmissions              int
	TemplatesWithSubmissions      int
	AverageSubmissionsPerTemplate float64
	RecentSubmissions             []RecentSubmission
}

type RecentSubmission struct {
	TemplateName string
	UserName     string
	UserEmail    string
}

// Extraction batch returned by the AI generation endpoint.
type GenerateRequest struct {
	SectionID string   `json:"sectionId"`
	S3Keys    []string `json:"s3Keys"`
}

type GenerateResponse struct {
	Data GenerateResult `json:"data"`
}

type GenerateResult struct {
	ExtractedData map[string]interface{} `json:"extractedData"`
	SaveResults   SaveResults            `json:"saveResults"`
}

type SaveResults struct {
	Updated int `json:"updated"`
}

type SignedURLRequest struct {
	Key         string `json:"key"`
	ExpiresIn   int    `json:"expiresIn"`
	ContentType string `json:"contentType"`
}

type SignedURLResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type UploadConfirmRequest struct {
	BriefID   string `json:"briefId"`
	SectionID string `json:"sectionId,omitempty"`
	FileName  string `json:"fileName"`
	FileType  string `json:"fileType"`
	S3Key     string `json:"s3Key"`
}
