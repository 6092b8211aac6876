package form

import (
	"errors"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Draft is an in-progress user record from the create/edit form, id-less
// until submission completes.
type Draft struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email_shape"`
	Avatar    string `json:"avatar" validate:"omitempty,absolute_url"`
}

const (
	msgRequired      = "required"
	msgInvalidFormat = "invalid format"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report field names by their json tag so errors line up with the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// local@domain.tld: non-whitespace segments around exactly one '@',
	// with a '.' somewhere in the domain.
	_ = v.RegisterValidation("email_shape", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.ContainsAny(s, " \t") {
			return false
		}
		local, domain, ok := strings.Cut(s, "@")
		if !ok || local == "" || domain == "" {
			return false
		}
		if strings.Contains(domain, "@") {
			return false
		}
		return strings.Contains(domain, ".")
	})

	_ = v.RegisterValidation("absolute_url", func(fl validator.FieldLevel) bool {
		u, err := url.Parse(fl.Field().String())
		return err == nil && u.IsAbs() && u.Host != ""
	})

	return v
}

// Trim returns the draft with all fields whitespace-trimmed; this is what
// validation and submission operate on.
func (d Draft) Trim() Draft {
	return Draft{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Email:     strings.TrimSpace(d.Email),
		Avatar:    strings.TrimSpace(d.Avatar),
	}
}

// Validate checks the trimmed draft and returns per-field messages keyed by
// json field name. An empty map means the draft is submittable.
func Validate(d Draft) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(d.Trim())
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not a field-level failure; report it on the form as a whole.
		errs["form"] = msgInvalidFormat
		return errs
	}

	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errs[fe.Field()] = msgRequired
		default:
			errs[fe.Field()] = msgInvalidFormat
		}
	}
	return errs
}
