package fillin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"brief-portal/internal/models"
)

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dashDate  = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// ParseInput turns submitted form text into the value sent to the backend
// for the field's data type.
func ParseInput(field models.BriefField, raw string) interface{} {
	switch field.DataType {
	case models.DataTypeArray:
		items := []interface{}{}
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "•"))
			if line != "" {
				items = append(items, line)
			}
		}
		return items
	case models.DataTypeObject:
		var obj interface{}
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			return obj
		}
		return raw
	default:
		return raw
	}
}

// FormatInput renders a value back into the text a form control shows.
func FormatInput(field models.BriefField, value interface{}) string {
	if value == nil {
		value = field.Options.DefaultValue
	}
	if value == nil {
		return ""
	}
	switch field.DataType {
	case models.DataTypeArray:
		if items, ok := value.([]interface{}); ok {
			lines := make([]string, 0, len(items))
			for _, item := range items {
				lines = append(lines, fmt.Sprint(item))
			}
			return strings.Join(lines, "\n")
		}
	case models.DataTypeObject:
		if s, ok := value.(string); ok {
			return s
		}
		data, err := json.MarshalIndent(value, "", "  ")
		if err == nil {
			return string(data)
		}
	case models.DataTypeDate:
		if field.FieldType == models.FieldTypeInput || field.FieldType == "" {
			return HTMLDate(value)
		}
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// HTMLDate converts the date spellings the backend and AI extraction
// produce into YYYY-MM-DD. Unrecognised input yields "".
func HTMLDate(value interface{}) string {
	if value == nil {
		return ""
	}
	s := strings.TrimSpace(fmt.Sprint(value))
	if s == "" {
		return ""
	}
	if isoDate.MatchString(s) {
		return s
	}
	if m := dashDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[2]), pad2(m[1]))
	}
	if m := slashDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s-%s-%s", m[3], pad2(m[1]), pad2(m[2]))
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "January 2, 2006", "Jan 2, 2006", "2 January 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
