package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/patterntool/patterntool/pkg/linefilter"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key (e.g., "quorum.percent")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

var (
	vOnce    sync.Once
	validate *validator.Validate
)

// validatorInstance returns the shared validator, reporting fields by their
// config key instead of the Go field name.
func validatorInstance() *validator.Validate {
	vOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("mapstructure")
			if tag == "" || tag == "-" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = v.RegisterValidation("strategy", func(fl validator.FieldLevel) bool {
			_, err := linefilter.ParseStrategy(fl.Field().String())
			return err == nil
		})

		validate = v
	})
	return validate
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() ValidationErrors {
	err := validatorInstance().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Field: "config", Value: nil, Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   configKey(fe.Namespace()),
			Value:   fe.Value(),
			Message: message(fe),
		})
	}
	return out
}

// ValidatePaths checks that the input, pattern and output files resolved
// against baseDir are three different files. Names are compared after
// cleaning, and files that exist are compared with os.SameFile, so
// "./input.txt", an absolute name or a link to the input is caught too.
func (c *Config) ValidatePaths(baseDir string) ValidationErrors {
	paths := c.Paths(baseDir)
	checks := []struct {
		field    string
		value    string
		path     string
		other    string
		otherKey string
	}{
		{"files.pattern", c.Files.Pattern, paths.Pattern, paths.Input, "files.input"},
		{"files.output", c.Files.Output, paths.Output, paths.Input, "files.input"},
		{"files.output", c.Files.Output, paths.Output, paths.Pattern, "files.pattern"},
	}

	var errs ValidationErrors
	for _, ck := range checks {
		if sameFile(ck.path, ck.other) {
			errs = append(errs, ValidationError{
				Field:   ck.field,
				Value:   ck.value,
				Message: "must differ from " + ck.otherKey,
			})
		}
	}
	return errs
}

func sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// configKey turns "Config.files.output" into "files.output".
func configKey(namespace string) string {
	if _, key, ok := strings.Cut(namespace, "."); ok {
		return key
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "strategy":
		return "must be one of: single, quorum, multi, per-pattern, any"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "nefield":
		return "must differ from files." + strings.ToLower(fe.Param())
	default:
		return "failed " + fe.Tag() + " check"
	}
}
