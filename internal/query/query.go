package query

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/handiism/settings-manager/internal/model"
)

// Compile parses a JSONPath selector.
func Compile(selector string) (jp.Expr, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}
	return x, nil
}

// Select evaluates selector against root, a value decoded from JSON
// (maps, slices and scalars). It returns every match; no match is not an
// error.
func Select(root any, selector string) ([]any, error) {
	x, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return x.Get(root), nil
}

// SelectJSON parses data and evaluates selector against it.
func SelectJSON(data []byte, selector string) ([]any, error) {
	root, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return Select(root, selector)
}

// SelectDocument evaluates selector against a whole settings document.
//
// Example:
//
//	types, err := SelectDocument(doc, "$.ui.*.*.type")
//	values, err := SelectDocument(doc, "$..[?(@.auto == true)].default")
func SelectDocument(doc *model.Document, selector string) ([]any, error) {
	data, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return SelectJSON(data, selector)
}

// Format renders a match as indented JSON with sorted keys.
func Format(v any) string {
	return oj.JSON(v, &oj.Options{Indent: 4, Sort: true})
}
