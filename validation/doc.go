// Package validation validates configuration structs and CLI input.
//
// Struct tag validation uses go-playground/validator:
//
//	type ClientConfig struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,http_url"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors before failing once:
//
//	v := validation.New()
//	v.Required("method", method).OneOf("method", method, methods)
//	err := v.Err()
//
// Both return *Error, which lists every failing field.
package validation
