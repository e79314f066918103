package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"restops/pkg/enums"
)

// ValidationError reports every invalid parameter at once, worded the way
// Ansible's own argument spec reports them.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required arguments: "+strings.Join(e.Missing, ", "))
	}
	parts = append(parts, e.Invalid...)
	return strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// validatorInstance returns the shared validator, configured to report yaml
// key names and to understand the "enum=<kind>" tag.
func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		if err := v.RegisterValidation("enum", validateEnum); err != nil {
			panic(err)
		}

		validate = v
	})
	return validate
}

// validateEnum accepts empty strings and any member name or value of the
// registered set named by the tag parameter.
func validateEnum(fl validator.FieldLevel) bool {
	set, ok := enums.Lookup(fl.Param())
	if !ok {
		return false
	}
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	_, err := set.Parse(field.String())
	return err == nil
}

// Validate checks params against its `validate` struct tags.
func Validate(params any) error {
	if params == nil {
		return fmt.Errorf("params is nil")
	}

	err := validatorInstance().Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		name := fe.Field()
		switch fe.Tag() {
		case "required", "required_if", "required_with", "required_without":
			out.Missing = append(out.Missing, name)
		case "enum":
			allowed := ""
			if set, ok := enums.Lookup(fe.Param()); ok {
				allowed = strings.Join(set.Values(), ", ")
			}
			out.Invalid = append(out.Invalid,
				fmt.Sprintf("value of %s must be one of: %s, got: %v", name, allowed, fe.Value()))
		case "oneof":
			out.Invalid = append(out.Invalid,
				fmt.Sprintf("value of %s must be one of: %s, got: %v",
					name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value()))
		default:
			out.Invalid = append(out.Invalid,
				fmt.Sprintf("argument %s failed validation %q", name, fe.Tag()))
		}
	}
	sort.Strings(out.Missing)

	return out
}
