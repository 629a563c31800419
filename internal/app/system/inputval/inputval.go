// Package inputval validates request input structs using `validate` and
// `label` struct tags.
//
//	type createInput struct {
//	    Title string `validate:"required,min=3,max=50" label:"Title"`
//	    Court string `validate:"required,oneof=beach indoor grass" label:"Court type"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    // res.First() is a user-facing sentence
//	}
//
// Supported rules: required, min, max (string length in runes, numeric
// value, or slice length), oneof (space separated), dive (apply the
// following rules to each slice element). On a numeric pointer, required
// only asks that the value be present, so zero is accepted.
package inputval

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Result collects every FieldError for one input.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "" when valid.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every error message in field order.
func (r Result) All() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Message
	}
	return out
}

// Add appends a custom error, for checks that tags cannot express.
func (r *Result) Add(field, rule, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Rule: rule, Message: message})
}

// Validate checks v (a struct or pointer to struct) against its tags.
func Validate(v any) Result {
	var res Result
	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return res
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag := f.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}
		label := f.Tag.Get("label")
		if label == "" {
			label = f.Name
		}
		jsonName := strings.Split(f.Tag.Get("json"), ",")[0]
		if jsonName == "" {
			jsonName = f.Name
		}
		checkField(&res, jsonName, label, rv.Field(i), strings.Split(tag, ","))
	}
	return res
}

func checkField(res *Result, field, label string, fv reflect.Value, rules []string) {
	// Optional pointers are only checked when set.
	present := false
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			if hasRule(rules, "required") {
				res.Add(field, "required", label+" is required.")
			}
			return
		}
		fv = fv.Elem()
		present = isNumber(fv)
	}

	for i, rule := range rules {
		name, arg, _ := strings.Cut(rule, "=")
		switch name {
		case "required":
			if !present && isZero(fv) {
				res.Add(field, "required", label+" is required.")
				return
			}
		case "min", "max":
			if msg, ok := checkBound(name, arg, label, fv); !ok {
				res.Add(field, name, msg)
				return
			}
		case "oneof":
			if fv.Kind() == reflect.String && fv.String() != "" && !inList(fv.String(), strings.Fields(arg)) {
				res.Add(field, "oneof", fmt.Sprintf("%s must be one of: %s.", label, strings.Join(strings.Fields(arg), ", ")))
				return
			}
		case "dive":
			if fv.Kind() == reflect.Slice {
				for j := 0; j < fv.Len(); j++ {
					checkField(res, fmt.Sprintf("%s[%d]", field, j), label, fv.Index(j), rules[i+1:])
				}
			}
			return
		}
	}
}

func checkBound(name, arg, label string, fv reflect.Value) (string, bool) {
	n, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return "", true
	}
	var got float64
	var unit string
	switch fv.Kind() {
	case reflect.String:
		got = float64(utf8.RuneCountInString(strings.TrimSpace(fv.String())))
		unit = " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		got = float64(fv.Len())
		unit = " items"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		got = float64(fv.Int())
	case reflect.Float32, reflect.Float64:
		got = fv.Float()
	default:
		return "", true
	}

	if name == "min" && got < n {
		if unit == "" {
			return fmt.Sprintf("%s must be at least %s.", label, arg), false
		}
		return fmt.Sprintf("%s must be at least %s%s.", label, arg, unit), false
	}
	if name == "max" && got > n {
		if unit == "" {
			return fmt.Sprintf("%s must be at most %s.", label, arg), false
		}
		return fmt.Sprintf("%s must be at most %s%s.", label, arg, unit), false
	}
	return "", true
}

func isZero(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.String:
		return strings.TrimSpace(fv.String()) == ""
	case reflect.Slice, reflect.Map:
		return fv.Len() == 0
	}
	return fv.IsZero()
}

func isNumber(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func inList(v string, list []string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// IsValidObjectID reports whether s (trimmed) is a 24-char hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
