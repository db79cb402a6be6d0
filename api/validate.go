package api

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var resourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("resourceid", func(fl validator.FieldLevel) bool {
		return resourceIDPattern.MatchString(fl.Field().String())
	})
}

// ValidationError lists every problem found in a resource or translation set.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks required fields, enum membership, the id charset and
// the hasVideo/videoUrl pairing.
func (r Resource) Validate() error {
	var problems []string
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate resource: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}
	if !r.HasVideo && r.VideoURL != "" {
		problems = append(problems, "videoUrl is set but hasVideo is false")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "required_if":
		return fe.Field() + " is required when hasVideo is true"
	case "oneof":
		return fmt.Sprintf("%s %q must be one of: %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "resourceid":
		return fmt.Sprintf("%s %q may only contain letters, digits, '-' and '_'", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s fails %s", fe.Field(), fe.Tag())
	}
}

// Validate requires a title and a description in every language of langs.
func (s TranslationSet) Validate(langs []string) error {
	var problems []string
	for _, lang := range langs {
		e, ok := s[lang]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: translation missing", lang))
			continue
		}
		if strings.TrimSpace(e.Title) == "" {
			problems = append(problems, fmt.Sprintf("%s: title is required", lang))
		}
		if strings.TrimSpace(e.Description) == "" {
			problems = append(problems, fmt.Sprintf("%s: description is required", lang))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Validate checks the resource and its translations for langs.
func (in ResourceInput) Validate(langs []string) error {
	var problems []string
	for _, err := range []error{in.Resource.Validate(), in.Translations.Validate(langs)} {
		var ve *ValidationError
		switch {
		case err == nil:
		case errors.As(err, &ve):
			problems = append(problems, ve.Problems...)
		default:
			return err
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
