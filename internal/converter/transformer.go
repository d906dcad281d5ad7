// =============================================================================
// EDI 834 Generator - Transformation Engine
// =============================================================================
//
// This module rewrites input column values before validation, according to
// the transformation_rules in config.yaml. Common use cases include:
//   - Upper-casing names and state codes
//   - Zero-padding member and group ids
//   - Mapping a sender's relationship labels ("Employee") to X12 codes ("18")
//   - Supplying a value when a column is blank
//
// Rows are never changed in place. Every transformed row is a fresh copy.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ginjaninja78/edi834-generator/internal/config"
	"github.com/ginjaninja78/edi834-generator/internal/normalize"
	"github.com/ginjaninja78/edi834-generator/internal/types"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer handles field value transformations.
type Transformer struct {
	rules   []config.TransformationRule
	regexps map[string]*regexp.Regexp
}

// NewTransformer compiles the rules' regular expressions up front.
func NewTransformer(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{
		rules:   rules,
		regexps: make(map[string]*regexp.Regexp),
	}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if action.Type != "regex_replace" {
				continue
			}
			if _, ok := t.regexps[action.Find]; ok {
				continue
			}
			re, err := regexp.Compile(action.Find)
			if err != nil {
				return nil, fmt.Errorf("field %s: invalid regex pattern: %w", rule.Field, err)
			}
			t.regexps[action.Find] = re
		}
	}

	return t, nil
}

// Empty reports whether the transformer has no rules.
func (t *Transformer) Empty() bool {
	return t == nil || len(t.rules) == 0
}

// TransformRows returns transformed copies of rows.
func (t *Transformer) TransformRows(rows []types.Row) ([]types.Row, error) {
	if t.Empty() {
		return rows, nil
	}

	out := make([]types.Row, len(rows))
	for i, row := range rows {
		transformed, err := t.TransformRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out[i] = transformed
	}
	return out, nil
}

// TransformRow applies every rule to a copy of row.
func (t *Transformer) TransformRow(row types.Row) (types.Row, error) {
	out := row.Clone()

	for _, rule := range t.rules {
		value := out[rule.Field]
		for _, action := range rule.Actions {
			var err error
			value, err = t.apply(value, action)
			if err != nil {
				return nil, fmt.Errorf("transformation '%s' on %s failed: %w", action.Type, rule.Field, err)
			}
		}
		out[rule.Field] = value
	}

	return out, nil
}

// apply applies a single transformation action.
//
// EXAMPLES:
//   prepend_string "A"       : "123456"  -> "A123456"
//   pad_zeros_to_length "8"  : "1234"    -> "00001234"
//   lookup {Employee: "18"}  : "Employee" -> "18"
func (t *Transformer) apply(value string, action config.TransformationAction) (string, error) {
	switch action.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "pad_zeros_to_length":
		length, err := strconv.Atoi(action.Value)
		if err != nil {
			return "", fmt.Errorf("invalid length %q: %w", action.Value, err)
		}
		if value == "" {
			return value, nil
		}
		return normalize.PadLeft(value, length, '0'), nil

	case "replace":
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		re, ok := t.regexps[action.Find]
		if !ok {
			return "", fmt.Errorf("regex not compiled: %s", action.Find)
		}
		return re.ReplaceAllString(value, action.Value), nil

	case "lookup":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "default":
		return normalize.Clean(value, action.Value), nil

	default:
		return value, fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}
