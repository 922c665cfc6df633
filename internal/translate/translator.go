// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package translate

import (
	"context"
	"strings"
)

// Translator converts text to English. Implementations never fail; they
// return the input text when translation is not possible.
type Translator interface {
	ToEnglish(ctx context.Context, text, language string) string
}

// Identity returns text unchanged.
type Identity struct{}

// ToEnglish implements Translator.
func (Identity) ToEnglish(_ context.Context, text, _ string) string {
	return text
}

// IsEnglish reports whether language is empty or an English tag
// ("en", "en-US", "EN_gb").
func IsEnglish(language string) bool {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" || lang == "en" {
		return true
	}
	return strings.HasPrefix(lang, "en-") || strings.HasPrefix(lang, "en_")
}
