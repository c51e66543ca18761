package models

import "time"

const (
	BriefStatusDraft      = "DRAFT"
	BriefStatusInProgress = "IN_PROGRESS"
	BriefStatusCompleted  = "COMPLETED"
	BriefStatusApproved   = "APPROVED"
)

const (
	SourceAI     = "AI"
	SourceManual = "MANUAL"
)

type Brief struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	TemplateName string          `json:"templateName"`
	Status       string          `json:"status"`
	CreatedByID  string          `json:"createdById"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	CreatedBy    UserRef         `json:"createdBy"`
	Sections     []BriefSection  `json:"sections"`
	Documents    []BriefDocument `json:"documents,omitempty"`
}

type BriefSection struct {
	ID          string       `json:"id"`
	BriefID     string       `json:"briefId"`
	SectionName string       `json:"sectionName"`
	OrderIndex  int          `json:"orderIndex"`
	Fields      []BriefField `json:"fields"`
}

type BriefField struct {
	ID           string       `json:"id"`
	FieldKey     string       `json:"fieldKey"`
	Label        string       `json:"label"`
	FieldHeading string       `json:"fieldHeading"`
	DataType     string       `json:"dataType"`
	FieldType    string       `json:"fieldType"`
	Options      FieldOptions `json:"options"`
	Prompt       *string      `json:"prompt"`
	Value        *FieldValue  `json:"value"`
}

type FieldOptions struct {
	DefaultValue    interface{} `json:"defaultValue,omitempty"`
	DropdownOptions []string    `json:"dropdownOptions,omitempty"`
	HelperText      []string    `json:"helperText,omitempty"`
}

// FieldValue is the currently known value of a field with its provenance.
// Confidence is only meaningful when Source is AI.
type FieldValue struct {
	ID          string      `json:"id"`
	FieldID     string      `json:"fieldId"`
	Value       interface{} `json:"value"`
	Source      string      `json:"source"`
	Confidence  *float64    `json:"confidence,omitempty"`
	ModelUsed   string      `json:"modelUsed,omitempty"`
	UpdatedByID string      `json:"updatedById,omitempty"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	UpdatedBy   *UserRef    `json:"updatedBy,omitempty"`
}

type BriefDocument struct {
	ID           string    `json:"id"`
	BriefID      string    `json:"briefId"`
	SectionID    string    `json:"sectionId"`
	FileName     string    `json:"fileName"`
	FileType     string    `json:"fileType"`
	S3Key        string    `json:"s3Key"`
	UploadedByID string    `json:"uploadedById"`
	UploadedAt   time.Time `json:"uploadedAt"`
	UploadedBy   UserRef   `json:"uploadedBy"`
}

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type BriefResponse struct {
	Message string `json:"message"`
	Data    Brief  `json:"data"`
}

// Section returns the section with the given id.
func (b *Brief) Section(id string) (*BriefSection, bool) {
	for i := range b.Sections {
		if b.Sections[i].ID == id {
			return &b.Sections[i], true
		}
	}
	return nil, false
}

// Field looks a field up across all sections.
func (b *Brief) Field(id string) (*BriefField, bool) {
	for i := range b.Sections {
		for j := range b.Sections[i].Fields {
			if b.Sections[i].Fields[j].ID == id {
				return &b.Sections[i].Fields[j], true
			}
		}
	}
	return nil, false
}

// FieldValues flattens every section into fieldId -> value, skipping fields
// without a recorded value.
func (b *Brief) FieldValues() map[string]interface{} {
	values := make(map[string]interface{})
	for _, section := range b.Sections {
		for _, field := range section.Fields {
			if field.Value != nil && field.Value.Value != nil {
				values[field.ID] = field.Value.Value
			}
		}
	}
	return values
}

// IsLong reports whether a field renders as a full-width block.
func (f BriefField) IsLong() bool {
	return f.FieldType == FieldTypeTextarea || f.DataType == DataTypeArray
}
