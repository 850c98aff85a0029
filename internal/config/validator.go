// Package config provides configuration management for the observability engine.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error with a user-friendly message.
type ValidationError struct {
	Field   string      // Field path (e.g., "backends.alertmanager.endpoint")
	Tag     string      // Validation tag that failed (e.g., "url", "oneof")
	Value   interface{} // Actual value that failed validation
	Message string      // User-friendly error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  - %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// validate is the package-level validator instance.
var validate = validator.New()

// Validate validates the configuration and returns user-friendly error messages.
func Validate(cfg *Config) error {
	var validationErrors ValidationErrors

	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, &ValidationError{
					Field:   formatFieldName(fe.Namespace()),
					Tag:     fe.Tag(),
					Value:   fe.Value(),
					Message: translateError(fe),
				})
			}
		}
	}

	// Run custom business logic validations
	if errs := validateBackendAuth(cfg); len(errs) > 0 {
		validationErrors = append(validationErrors, errs...)
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateBackendAuth checks that each backend uses a coherent auth scheme:
// basic auth requires both username and password, and basic auth cannot be
// combined with a bearer token.
func validateBackendAuth(cfg *Config) ValidationErrors {
	var errors ValidationErrors

	backends := []struct {
		name string
		cfg  *BackendConfig
	}{
		{"backends.alertmanager", &cfg.Backends.Alertmanager},
		{"backends.prometheus", &cfg.Backends.Prometheus},
		{"backends.loki", &cfg.Backends.Loki},
	}

	for _, b := range backends {
		hasUser := b.cfg.Username != ""
		hasPass := b.cfg.Password != ""

		if hasUser != hasPass {
			errors = append(errors, &ValidationError{
				Field:   b.name,
				Tag:     "basic_auth_pair",
				Value:   b.cfg.Username,
				Message: "basic auth requires both username and password",
			})
		}

		if hasUser && b.cfg.BearerToken != "" {
			errors = append(errors, &ValidationError{
				Field:   b.name,
				Tag:     "auth_conflict",
				Value:   b.cfg.Username,
				Message: "basic auth and bearer token cannot both be set",
			})
		}
	}

	return errors
}

// formatFieldName converts the validator field namespace to a user-friendly
// format. Example: "Config.Backends.Alertmanager.Endpoint" ->
// "backends.alertmanager.endpoint"
func formatFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // Remove "Config"
	}

	for i, part := range parts {
		parts[i] = strings.ToLower(part)
	}

	return strings.Join(parts, ".")
}

// translateError converts a validator.FieldError to a user-friendly message.
func translateError(fe validator.FieldError) string {
	field := formatFieldName(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "url":
		return fmt.Sprintf("invalid URL format: %v", fe.Value())
	case "gte":
		return fmt.Sprintf("value must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("value must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("value must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("validation failed on '%s' tag for field '%s'", fe.Tag(), field)
	}
}
