package extract

import "slices"

// Field names double as JSON keys in fields_json and confidences_json.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldCompany     Field = "company"
	FieldDesignation Field = "designation"
	FieldSkills      Field = "skills"
)

// ScalarFields lists the single-valued fields in canonical order.
var ScalarFields = []Field{FieldName, FieldEmail, FieldPhone, FieldCompany, FieldDesignation}

// Fields is the extracted field map. Empty means absent; empty values never serialize.
type Fields struct {
	Name        string   `json:"name,omitempty" mapstructure:"name"`
	Email       string   `json:"email,omitempty" mapstructure:"email"`
	Phone       string   `json:"phone,omitempty" mapstructure:"phone"`
	Company     string   `json:"company,omitempty" mapstructure:"company"`
	Designation string   `json:"designation,omitempty" mapstructure:"designation"`
	Skills      []string `json:"skills,omitempty" mapstructure:"skills"`
}

func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldCompany:
		return f.Company
	case FieldDesignation:
		return f.Designation
	}
	return ""
}

func (f *Fields) Set(field Field, v string) {
	switch field {
	case FieldName:
		f.Name = v
	case FieldEmail:
		f.Email = v
	case FieldPhone:
		f.Phone = v
	case FieldCompany:
		f.Company = v
	case FieldDesignation:
		f.Designation = v
	}
}

// Has reports whether field carries a value.
func (f Fields) Has(field Field) bool {
	if field == FieldSkills {
		return len(f.Skills) > 0
	}
	return f.Get(field) != ""
}

func (f Fields) IsEmpty() bool {
	if len(f.Skills) > 0 {
		return false
	}
	for _, k := range ScalarFields {
		if f.Get(k) != "" {
			return false
		}
	}
	return true
}

func (f Fields) Clone() Fields {
	out := f
	out.Skills = slices.Clone(f.Skills)
	return out
}
