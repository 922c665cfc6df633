// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/admatch/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil || v1 != v2 {
		t.Error("GetValidator() should return the same non-nil instance")
	}
}

func TestValidateStruct_DecisionRequest(t *testing.T) {
	valid := func() models.DecisionRequest {
		return models.DecisionRequest{
			CallerID: "partner-a",
			Text:     "best laptop for coding",
			Language: "pt-BR",
			Formats:  []models.Format{models.FormatCard},
		}
	}

	tests := []struct {
		name      string
		modify    func(*models.DecisionRequest)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*models.DecisionRequest) {}, "", ""},
		{"missing text", func(r *models.DecisionRequest) { r.Text = "" }, "text", "text is required"},
		{"text too long", func(r *models.DecisionRequest) { r.Text = strings.Repeat("a", 4001) },
			"text", "text must be at most 4000 characters"},
		{"bad language", func(r *models.DecisionRequest) { r.Language = "en us" },
			"language", "language must be a language code"},
		{"unknown format", func(r *models.DecisionRequest) { r.Formats = []models.Format{"card", "video"} },
			"formats[1]", "formats[1] must be one of: text card banner carousel"},
		{"too many formats", func(r *models.DecisionRequest) {
			r.Formats = []models.Format{"text", "card", "banner", "carousel", "text"}
		}, "formats", "formats must be at most 4 items"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.modify(&req)
			verr := ValidateStruct(&req)

			if tt.wantField == "" {
				if verr != nil {
					t.Errorf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			got := verr[0]
			if got.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", got.Field, tt.wantField)
			}
			if !strings.HasPrefix(got.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want prefix %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestLangTag(t *testing.T) {
	type langOnly struct {
		Lang string `json:"lang" validate:"langtag"`
	}

	tests := []struct {
		lang string
		want bool
	}{
		{"", true},
		{"en", true},
		{"pt-BR", true},
		{"zh_Hant", true},
		{"es-419", true},
		{"1en", false},
		{"en-", false},
		{"-en", false},
		{"en--us", false},
		{"en us", false},
		{"日本", false},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := ValidateStruct(&langOnly{Lang: tt.lang}) == nil
			if got != tt.want {
				t.Errorf("langtag(%q) = %v, want %v", tt.lang, got, tt.want)
			}
		})
	}
}

func TestErrorsDetails(t *testing.T) {
	single := ValidateStruct(&models.OpportunityRequest{})
	if single.Error() != "text is required" {
		t.Errorf("Error() = %q, want text is required", single.Error())
	}
	if d := single.Details(); d["field"] != "text" || d["tag"] != "required" {
		t.Errorf("Details() = %v", d)
	}

	multi := ValidateStruct(&models.DecisionRequest{Language: "??", Formats: []models.Format{"video"}})
	fields, ok := multi.Details()["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("Details()[fields] = %v, want 3 entries", multi.Details()["fields"])
	}
	if !strings.Contains(multi.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", multi.Error())
	}

	var empty Errors
	if empty.Error() != "validation failed" || empty.Details() != nil {
		t.Error("empty Errors mismatch")
	}
}
