package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/modu-ai/settingsgen/pkg/models"
)

// projectNamePattern matches names usable as a hostname label.
var projectNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*$`)

// Template tokens that must not survive into rendered settings files.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),   // ${VAR}
	regexp.MustCompile(`\{\{[^}]*\}\}`), // {{VAR}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML key so messages match the file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			return strings.ToLower(fld.Name)
		case "":
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("projectname", func(fl validator.FieldLevel) bool {
		return projectNamePattern.MatchString(fl.Field().String())
	})
	return v
}

// @MX:ANCHOR: [AUTO] Validate is the single gate every loaded or wizard-built configuration passes through.
// Validate checks the configuration for correctness and returns a
// *ValidationErrors listing every problem found.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateStruct(cfg)...)
	errs = append(errs, validateEnums(cfg)...)
	errs = append(errs, validateDynamicTokens(cfg)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validateStruct runs the struct tag rules.
func validateStruct(cfg *Config) []ValidationError {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "config", Message: err.Error(), Wrapped: ErrInvalidConfig}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: tagMessage(fe),
			Value:   valueOrNil(fe.Value()),
			Wrapped: ErrInvalidConfig,
		})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field is empty; set it in .ddev/config.yaml"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "projectname":
		return "may contain only letters, digits and hyphens, and must not start with a hyphen"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte", "lte":
		return "must be between 0 and 65535"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func valueOrNil(v any) any {
	if s, ok := v.(string); ok && s == "" {
		return nil
	}
	return v
}

// validateEnums checks the typed enum fields.
func validateEnums(cfg *Config) []ValidationError {
	var errs []ValidationError

	if cfg.Type != "" && !cfg.Type.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "type",
			Message: "must be one of: " + joinEnum(models.AppTypes()),
			Value:   string(cfg.Type),
			Wrapped: ErrInvalidAppType,
		})
	}
	if !cfg.Database.Type.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "database.type",
			Message: "must be one of: " + joinEnum(models.DatabaseTypes()),
			Value:   string(cfg.Database.Type),
			Wrapped: ErrInvalidDatabaseType,
		})
	}
	if cfg.XHProfMode != "" && !cfg.XHProfMode.IsValid() {
		errs = append(errs, ValidationError{
			Field:   "xhprof_mode",
			Message: "must be one of: prepend, xhgui, global",
			Value:   string(cfg.XHProfMode),
			Wrapped: ErrInvalidXHProfMode,
		})
	}
	return errs
}

func joinEnum[T ~string](values []T) string {
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = string(v)
	}
	return strings.Join(strs, ", ")
}

// validateDynamicTokens checks string fields that are rendered into
// settings files for unexpanded template tokens.
func validateDynamicTokens(cfg *Config) []ValidationError {
	var errs []ValidationError

	errs = append(errs, checkStringField("name", cfg.Name)...)
	errs = append(errs, checkStringField("docroot", cfg.Docroot)...)
	errs = append(errs, checkStringField("hash_salt", cfg.HashSalt)...)
	errs = append(errs, checkStringField("database.host", cfg.Database.Host)...)
	errs = append(errs, checkStringField("database.name", cfg.Database.Name)...)
	errs = append(errs, checkStringField("database.username", cfg.Database.Username)...)
	errs = append(errs, checkStringField("database.password", cfg.Database.Password)...)
	errs = append(errs, checkStringField("database.prefix", cfg.Database.Prefix)...)

	return errs
}

// checkStringField checks a single string field for dynamic token patterns.
func checkStringField(field, value string) []ValidationError {
	if value == "" {
		return nil
	}
	for _, pattern := range dynamicTokenPatterns {
		if match := pattern.FindString(value); match != "" {
			return []ValidationError{
				{
					Field:   field,
					Message: fmt.Sprintf("contains unexpanded dynamic token: %s", match),
					Value:   value,
					Wrapped: ErrDynamicToken,
				},
			}
		}
	}
	return nil
}
