package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors are the
// koanf keys, so messages match what users write in gdpplot.yaml.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := Validator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, FieldMessage(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// FieldMessage turns a validation failure into a sentence naming the config key.
func FieldMessage(fe validator.FieldError) string {
	key := fe.Namespace()
	if i := strings.Index(key, "."); i >= 0 {
		key = key[i+1:]
	}

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", key)
	case "len":
		return fmt.Sprintf("%s must be a single character, got %q", key, fe.Value())
	case "nefield":
		return fmt.Sprintf("%s must differ from the quote character", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", key, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", key, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q validation", key, fe.Tag())
	}
}

