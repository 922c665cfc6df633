// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

// Package validation validates API request structs with
// go-playground/validator v10.
//
// A single validator instance is shared by all handlers; it caches struct
// metadata and is safe for concurrent use. Errors name fields by their
// JSON tags and are converted into the API's VALIDATION_ERROR shape:
//
//	type DecisionRequest struct {
//	    Text     string `json:"text" validate:"required,max=4000"`
//	    Language string `json:"language" validate:"omitempty,max=16,langtag"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    msg := verr.Error() // "text is required"
//	    details := verr.Details()
//	}
//
// Custom tags:
//   - langtag: language codes such as "en", "pt-BR" or "zh_Hant"
package validation
