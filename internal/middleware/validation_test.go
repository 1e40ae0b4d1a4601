package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type inquiryRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	ColorCode string `json:"color_code" validate:"required,hexcolor"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includeEmail bool, includeColor bool) bool {
			reqMap := make(map[string]interface{})

			if includeName {
				reqMap["first_name"] = "Ada"
			}
			if includeEmail {
				reqMap["email"] = "ada@example.com"
			}
			if includeColor {
				reqMap["color_code"] = "#f5f5f0"
			}

			allFieldsPresent := includeName && includeEmail && includeColor

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var payload inquiryRequest
			err := DecodeAndValidate(req, &payload)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestFormatValidationErrors(t *testing.T) {
	body := map[string]interface{}{
		"first_name": "Ada",
		"email":      "not-an-email",
		"color_code": "teal",
	}

	reqBody, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))

	var payload inquiryRequest
	err := DecodeAndValidate(req, &payload)
	if err == nil {
		t.Fatal("invalid payload passed validation")
	}

	formatted := FormatValidationErrors(err)
	if len(formatted) != 2 {
		t.Fatalf("formatted errors = %d, want 2", len(formatted))
	}

	byField := make(map[string]string, len(formatted))
	for _, fe := range formatted {
		byField[fe.Field] = fe.Message
	}
	if byField["Email"] != "Invalid email format" {
		t.Errorf("email message = %q", byField["Email"])
	}
	if byField["ColorCode"] != "Invalid hex color code" {
		t.Errorf("color message = %q", byField["ColorCode"])
	}
}

func TestDecodeAndValidateRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte("{not json")))

	var payload inquiryRequest
	if err := DecodeAndValidate(req, &payload); err == nil {
		t.Error("malformed JSON passed decoding")
	}

	// decode errors carry no field information
	if formatted := FormatValidationErrors(json.Unmarshal([]byte("{"), &payload)); len(formatted) != 0 {
		t.Errorf("formatted = %v, want none for a decode error", formatted)
	}
}
