// AdMatch - Conversational Sponsored Placement Decisioning
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admatch

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule, named by its JSON path.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string { return e.Message }

// Errors is every rule a request failed, in struct order.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e))
	for i := range e {
		msgs[i] = e[i].Message
	}
	return strings.Join(msgs, "; ")
}

// Details is the error details object of a VALIDATION_ERROR response:
// {"field","tag"} for a single failure, {"fields":[...]} otherwise.
func (e Errors) Details() map[string]interface{} {
	switch len(e) {
	case 0:
		return nil
	case 1:
		return map[string]interface{}{"field": e[0].Field, "tag": e[0].Tag}
	}
	fields := make([]map[string]interface{}, len(e))
	for i, fe := range e {
		fields[i] = map[string]interface{}{"field": fe.Field, "tag": fe.Tag, "message": fe.Message}
	}
	return map[string]interface{}{"fields": fields}
}

// GetValidator returns the shared validator. Errors name fields by their
// json tag, and the "langtag" rule is registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		// Only fails on an empty tag or nil func.
		_ = validate.RegisterValidation("langtag", validateLangTag)
	})
	return validate
}

func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// validateLangTag accepts codes like "en", "pt-BR", "es-419" or "zh_Hant".
// Subtags are ASCII letters or digits joined by "-" or "_"; the first
// character is a letter.
func validateLangTag(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	atSep := true
	for i, r := range s {
		switch {
		case r == '-' || r == '_':
			if atSep {
				return false
			}
			atSep = true
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))):
			atSep = false
		default:
			return false
		}
	}
	return !atSep
}

// ValidateStruct returns nil when s passes, otherwise Errors.
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondErrorDetails(w, r, http.StatusBadRequest, ErrCodeValidation, verr.Error(), verr.Details(), nil)
//	}
func ValidateStruct(s interface{}) Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "unknown", Tag: "unknown", Message: err.Error()}}
	}

	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		path := fieldPath(fe)
		out[i] = FieldError{Field: path, Tag: fe.Tag(), Param: fe.Param(), Message: message(fe, path)}
	}
	return out
}

// fieldPath strips the struct name: "DecisionRequest.formats[1]" is
// "formats[1]".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError, field string) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "langtag":
		return field + " must be a language code such as en or pt-BR"
	case "uuid":
		return field + " must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unitOf(fe.Kind()))
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unitOf(fe.Kind()))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

func unitOf(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	}
	return ""
}
