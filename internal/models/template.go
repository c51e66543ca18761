package models

// Data types a field value can take.
const (
	DataTypeString = "String"
	DataTypeDate   = "Date"
	DataTypeArray  = "Array"
	DataTypeObject = "Object"
)

// Form controls a field renders as.
const (
	FieldTypeInput    = "input"
	FieldTypeDropdown = "dropdown"
	FieldTypeTextarea = "textarea"
)

// Template is the reusable schema a brief is instantiated from.
type Template struct {
	ID           string    `json:"id,omitempty"`
	TemplateName string    `json:"templateName"`
	Title        string    `json:"title"`
	Sections     []Section `json:"sections"`
}

// Section is the builder-side section: an ordered list of field groups.
type Section struct {
	ID          string       `json:"id,omitempty"`
	SectionName string       `json:"sectionName"`
	InputFields []FieldGroup `json:"inputFields"`
}

// FieldGroup is a named cluster of fields within a section.
type FieldGroup struct {
	FieldsHeading string       `json:"fieldsHeading"`
	Fields        []InputField `json:"fields"`
}

type InputField struct {
	InputName  string      `json:"inputName"`
	DataType   string      `json:"dataType"`
	FieldType  string      `json:"fieldType"`
	Prompt     string      `json:"prompt,omitempty"`
	Options    []string    `json:"options,omitempty"`
	HelperText []string    `json:"helperText,omitempty"`
	InputValue interface{} `json:"inputValue"`
}

func ValidDataType(s string) bool {
	switch s {
	case DataTypeString, DataTypeDate, DataTypeArray, DataTypeObject:
		return true
	}
	return false
}

func ValidFieldType(s string) bool {
	switch s {
	case FieldTypeInput, FieldTypeDropdown, FieldTypeTextarea:
		return true
	}
	return false
}
