package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxNameLength bounds node names in scenarios
	MaxNameLength = 64

	namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)
)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("nodename", func(fl validator.FieldLevel) bool {
		return ValidateNodeName(fl.Field().String()) == nil
	})
}

// Struct validates v using its `validate` struct tags. Besides the
// built-in tags, "nodename" checks a scenario node name.
func Struct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateNodeName validates a human-readable node name
func ValidateNodeName(name string) error {
	if name == "" {
		return errors.New("node name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("node name '%s' exceeds maximum length of %d characters", name, MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("node name '%s' contains invalid characters (alphanumeric and _.:- allowed)", name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	errs := make([]error, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "min":
			errs = append(errs, fmt.Errorf("%s: must be at least %s", field, param))
		case "max":
			errs = append(errs, fmt.Errorf("%s: must not exceed %s", field, param))
		case "len":
			errs = append(errs, fmt.Errorf("%s: must have exactly %s elements", field, param))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: must be one of [%s]", field, param))
		case "nodename":
			errs = append(errs, fmt.Errorf("%s: invalid node name %q", field, e.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.Join(errs...)
}
