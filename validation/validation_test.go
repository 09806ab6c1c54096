package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "John")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorPattern(t *testing.T) {
	v := New()
	v.Pattern("param", "page=2", `^[^=]+=`)
	if v.HasErrors() {
		t.Errorf("expected match, got %v", v.Errors())
	}

	v2 := New()
	v2.Pattern("param", "page", `^[^=]+=`)
	if !v2.HasErrors() {
		t.Error("expected error for value without '='")
	}

	v3 := New()
	v3.Pattern("param", "", `^[^=]+=`)
	if v3.HasErrors() {
		t.Error("empty values are skipped")
	}
}

func TestValidatorOneOf(t *testing.T) {
	methods := []string{"GET", "POST"}

	v := New()
	v.OneOf("method", "get", methods)
	if v.HasErrors() {
		t.Error("expected case-insensitive match")
	}

	v2 := New()
	v2.OneOf("method", "TRACE", methods)
	if !v2.HasErrors() {
		t.Fatal("expected error for value outside the set")
	}
	if msg := v2.Errors()[0].Message; msg != "must be one of: GET, POST" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "x", "never")
	v.Custom(false, "y", "is broken")
	if len(v.Errors()) != 1 || v.Errors()[0].Field != "y" {
		t.Errorf("unexpected errors %v", v.Errors())
	}
}

func TestValidatorErr(t *testing.T) {
	if err := New().Required("name", "ok").Err(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	err := New().
		Required("name", "").
		Required("path", "").
		Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if got, want := err.Error(), "validation failed: name: is required; path: is required"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("expected wrapped error to be recognised")
	}
}

type clientConfig struct {
	BaseURL string            `mapstructure:"base_url" validate:"omitempty,http_url"`
	Timeout time.Duration     `mapstructure:"timeout" validate:"gte=0"`
	Headers map[string]string `json:"headers"`
	Name    string            `validate:"required"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(clientConfig{BaseURL: "http://localhost:8000", Timeout: time.Second, Name: "x"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := Validate(clientConfig{Name: "x"}); err != nil {
		t.Errorf("empty base URL is allowed, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	tests := []struct {
		name      string
		cfg       clientConfig
		wantField string
		wantMsg   string
	}{
		{"relative url", clientConfig{BaseURL: "localhost:8000", Name: "x"}, "base_url", "must be an absolute http(s) URL"},
		{"ftp url", clientConfig{BaseURL: "ftp://example.com", Name: "x"}, "base_url", "must be an absolute http(s) URL"},
		{"negative timeout", clientConfig{Timeout: -time.Second, Name: "x"}, "timeout", "must be greater than or equal to 0"},
		{"missing name", clientConfig{}, "name", "is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			var ve *Error
			if !errors.As(err, &ve) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			msg, ok := ve.Field(tt.wantField)
			if !ok {
				t.Fatalf("expected error for %q, got %v", tt.wantField, ve.Fields)
			}
			if msg != tt.wantMsg {
				t.Errorf("message = %q, want %q", msg, tt.wantMsg)
			}
			if !strings.HasPrefix(err.Error(), "validation failed: ") {
				t.Errorf("unexpected Error() %q", err.Error())
			}
		})
	}
}

func TestStructValidateNonStruct(t *testing.T) {
	err := Validate("not a struct")
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if IsValidationError(err) {
		t.Error("invalid input must not be reported as a field error")
	}
}

func TestToSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"BaseURL": "base_u_r_l",
		"Name":    "name",
		"timeout": "timeout",
	} {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
