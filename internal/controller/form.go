package controller

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prismaasset360/web/internal/auth"
	"github.com/prismaasset360/web/internal/models/common"
	"github.com/prismaasset360/web/internal/service"
)

// FieldKind is the input control of a form field.
type FieldKind int

const (
	// FieldText is a single-line text input.
	FieldText FieldKind = iota
	// FieldTextArea is a multi-line text input.
	FieldTextArea
	// FieldNumber is a decimal number.
	FieldNumber
	// FieldInteger is a whole number that can't be negative, e.g. a count of days.
	FieldInteger
	// FieldDate is a date (yyyy-mm-dd).
	FieldDate
	// FieldEmail is an email address.
	FieldEmail
	// FieldPassword is never filled back in.
	FieldPassword
	// FieldSelect picks one of the field's options.
	FieldSelect
	// FieldCheckbox is a boolean.
	FieldCheckbox
)

// InputType returns the type attribute of the HTML input rendering the field.
func (k FieldKind) InputType() string {
	switch k {
	case FieldNumber, FieldInteger:
		return "number"
	case FieldDate:
		return "date"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	case FieldCheckbox:
		return "checkbox"
	default:
		return "text"
	}
}

// IsSelect reports whether the field renders as a select.
func (k FieldKind) IsSelect() bool {
	return k == FieldSelect
}

// IsTextArea reports whether the field renders as a textarea.
func (k FieldKind) IsTextArea() bool {
	return k == FieldTextArea
}

// IsCheckbox reports whether the field renders as a checkbox.
func (k FieldKind) IsCheckbox() bool {
	return k == FieldCheckbox
}

// A Field is an input of an entity form. The record key it's submitted under is Name.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Required bool
	// Source is where the options of a select come from. Choices are used instead for fixed options.
	Source  *service.OptionSource
	Choices []common.Option
	// ReadPaths are the record paths the current value is read from, first non-empty wins. Defaults to Name.
	ReadPaths []string
	// Roles that see the field. Nil means everyone who may submit the form. Hidden fields are neither rendered nor
	// read on submit.
	Roles []common.Role
	// CreateOnly fields are shown on creation only (initial passwords and the like).
	CreateOnly bool
}

// VisibleTo reports whether the field is part of the form for the role.
func (f *Field) VisibleTo(role common.Role, isNew bool) bool {
	if f.CreateOnly && !isNew {
		return false
	}

	return f.Roles == nil || auth.HasRole(role, f.Roles)
}

// valueOf reads the current value of the field from a record.
func (f *Field) valueOf(rec common.Record) string {
	paths := f.ReadPaths
	if len(paths) == 0 {
		paths = []string{f.Name}
	}

	for _, path := range paths {
		if v := rec.String(path); v != "" {
			if f.Kind == FieldDate && len(v) > 10 {
				// Timestamps go into date inputs as their date part.
				return v[:10]
			}
			return v
		}
	}

	return ""
}

// FormField is a field as a form renders it.
type FormField struct {
	*Field
	Value   string
	Checked bool
	Options []common.Option
}

// visibleFields returns the fields of the form for the role.
func visibleFields(fields []Field, role common.Role, isNew bool) []*Field {
	ret := make([]*Field, 0, len(fields))
	for i := range fields {
		if fields[i].VisibleTo(role, isNew) {
			ret = append(ret, &fields[i])
		}
	}

	return ret
}

// optionSources returns the option sources of the select fields, keyed by field name.
func optionSources(fields []*Field) map[string]service.OptionSource {
	sources := make(map[string]service.OptionSource)
	for _, f := range fields {
		if f.Kind == FieldSelect && f.Source != nil {
			sources[f.Name] = *f.Source
		}
	}

	return sources
}

// formFieldsFromRecord fills the fields with the values of a record (empty for a new entity).
func formFieldsFromRecord(fields []*Field, rec common.Record, options map[string][]common.Option) []FormField {
	ret := make([]FormField, 0, len(fields))
	for _, f := range fields {
		ff := FormField{Field: f, Options: f.Choices}
		if opts, ok := options[f.Name]; ok {
			ff.Options = opts
		}

		value := f.valueOf(rec)
		switch f.Kind {
		case FieldCheckbox:
			ff.Checked = value == "true"
		case FieldPassword:
		default:
			ff.Value = value
		}

		ret = append(ret, ff)
	}

	return ret
}

// bindForm reads the submitted fields into a record and validates them. The returned form fields carry the
// submitted values for re-rendering the form. Empty optional fields are left out of the record unless clearBlanks is
// set, as on edit, where a field posted blank is sent as null (or "" for free text) so the backend clears it. Blank
// passwords are always left out.
func bindForm(c *gin.Context, fields []*Field, options map[string][]common.Option, clearBlanks bool) (common.Record, []FormField, ParameterErrorList) {
	pel := ParameterErrorList{}
	rec := common.Record{}
	formFields := make([]FormField, 0, len(fields))

	for _, f := range fields {
		ff := FormField{Field: f, Options: f.Choices}
		if opts, ok := options[f.Name]; ok {
			ff.Options = opts
		}

		if f.Kind == FieldCheckbox {
			ff.Checked = c.PostForm(f.Name) != ""
			rec[f.Name] = ff.Checked
			formFields = append(formFields, ff)
			continue
		}

		raw, posted := c.GetPostForm(f.Name)
		if f.Kind != FieldPassword {
			ff.Value = raw
		}
		formFields = append(formFields, ff)

		if strings.TrimSpace(raw) == "" {
			if f.Required {
				pel = append(pel, fmt.Sprintf("El campo «%v» es obligatorio.", f.Label))
			} else if clearBlanks && posted {
				clearField(rec, f)
			}
			continue
		}

		switch f.Kind {
		case FieldNumber:
			rec[f.Name] = pel.AppendIfNotNumber(raw, fmt.Sprintf("El campo «%v» debe ser un número.", f.Label))
		case FieldInteger:
			rec[f.Name] = pel.AppendIfNotPositiveInt(raw, fmt.Sprintf("El campo «%v» debe ser un número entero positivo.", f.Label))
		case FieldDate:
			rec[f.Name] = pel.AppendIfNotDate(raw, fmt.Sprintf("El campo «%v» debe ser una fecha.", f.Label))
		case FieldEmail:
			rec[f.Name] = pel.AppendIfNotEmail(raw, fmt.Sprintf("El campo «%v» debe ser un correo electrónico.", f.Label))
		case FieldSelect:
			value := strings.TrimSpace(raw)
			if len(ff.Options) > 0 && !hasOption(ff.Options, value) {
				pel = append(pel, fmt.Sprintf("El valor de «%v» no es válido.", f.Label))
			}
			if f.Source != nil {
				// References to other entities: numeric IDs go out as JSON numbers.
				rec[f.Name] = common.ID(value)
			} else {
				rec[f.Name] = value
			}
		case FieldPassword:
			rec[f.Name] = raw
		default:
			rec[f.Name] = strings.TrimSpace(raw)
		}
	}

	return rec, formFields, pel
}

func clearField(rec common.Record, f *Field) {
	switch f.Kind {
	case FieldPassword:
	case FieldText, FieldTextArea, FieldEmail:
		rec[f.Name] = ""
	default:
		rec[f.Name] = nil
	}
}

func hasOption(options []common.Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}

	return false
}
