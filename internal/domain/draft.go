package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ModuleDraft is the editable form of a module.
type ModuleDraft struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
	Hours       string `form:"hours"`
}

// DraftFromModule fills a draft with the current values of m.
func DraftFromModule(m Module) ModuleDraft {
	return ModuleDraft{Title: m.Title, Description: m.Description, Hours: m.Hours.String()}
}

// Normalize trims surrounding whitespace from every field.
func (d ModuleDraft) Normalize() ModuleDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Hours = strings.TrimSpace(d.Hours)
	return d
}

// Duration parses the hours field. An empty field means one hour.
func (d ModuleDraft) Duration() Duration {
	if d.Hours == "" {
		return Hours(1)
	}
	return ParseDuration(d.Hours)
}

// Fields converts the draft into an update for the module with id.
func (d ModuleDraft) Fields(id string) ModuleFields {
	return ModuleFields{ID: id, Title: d.Title, Description: d.Description, Hours: d.Duration()}
}

// SubmoduleDraft is the editable form of a submodule.
type SubmoduleDraft struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
}

// DraftFromSubmodule fills a draft with the current values of s.
func DraftFromSubmodule(s Submodule) SubmoduleDraft {
	return SubmoduleDraft{Title: s.Title, Description: s.Description}
}

// Normalize trims surrounding whitespace from every field.
func (d SubmoduleDraft) Normalize() SubmoduleDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	return d
}

// Fields converts the draft into a submodule update.
func (d SubmoduleDraft) Fields() SubmoduleFields {
	return SubmoduleFields{Title: d.Title, Description: d.Description}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name so messages match what the user sees.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate runs the struct's validate tags. Failed presence checks come back as
// a *ValidationError naming the empty fields.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return &ValidationError{Fields: fields}
	}
	return err
}
