// Package interchange converts rule books to and from their JSON file
// format and guards the inbound path with shape validation.
package interchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nhle/rulebook/internal/model"
)

// Mode selects how strictly inbound documents are checked.
type Mode int

const (
	// Lenient is used for whole-file import: only a "rules" array is
	// required.
	Lenient Mode = iota

	// Strict is used by the raw document editor: "meta" must be present
	// and every rule needs a non-empty id and title and a points array.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "lenient"
}

// Serialize renders doc as two-space indented JSON with a trailing newline.
// Output is deterministic for a given document.
func Serialize(doc model.RuleBook) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalize(doc)); err != nil {
		return nil, fmt.Errorf("encoding rule book: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse decodes data into a rule book after shape validation. It returns a
// *ParseError for malformed JSON and a *ShapeError for anything that fails
// the checks of the given mode.
func Parse(data []byte, mode Mode) (model.RuleBook, error) {
	if err := Validate(data, mode); err != nil {
		return model.RuleBook{}, err
	}

	var doc model.RuleBook
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.RuleBook{}, decodeErr(err)
	}
	return normalize(doc), nil
}

// Validate runs the syntax and shape checks of Parse without decoding.
func Validate(data []byte, mode Mode) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Err: err}
	}

	root, ok := raw.(map[string]any)
	if !ok {
		return shapeErr(CheckRoot, "", -1, "", "Invalid format: top-level value must be an object")
	}

	if mode == Strict {
		if _, ok := root["meta"].(map[string]any); !ok {
			return shapeErr(CheckMeta, "meta", -1, "", "Missing 'meta' object")
		}
	}

	rules, ok := root["rules"].([]any)
	if !ok {
		return shapeErr(CheckRules, "rules", -1, "", "Invalid format: missing 'rules' array")
	}

	if mode == Lenient {
		return nil
	}

	for i, item := range rules {
		rule, ok := item.(map[string]any)
		if !ok {
			return shapeErr(CheckRule, fmt.Sprintf("rules[%d]", i), i, "", "Rule at index %d is not an object", i)
		}
		if !nonEmptyString(rule["id"]) {
			return shapeErr(CheckID, fmt.Sprintf("rules[%d].id", i), i, "", "Rule at index %d missing id or title", i)
		}
		title, _ := rule["title"].(string)
		if title == "" {
			return shapeErr(CheckTitle, fmt.Sprintf("rules[%d].title", i), i, "", "Rule at index %d missing id or title", i)
		}
		if _, ok := rule["points"].([]any); !ok {
			return shapeErr(CheckPoints, fmt.Sprintf("rules[%d].points", i), i, title, "Rule '%s' missing points array", title)
		}
	}

	return nil
}

// ExportFilename returns the dated file name used for exports, for example
// "ultimate-rule-book-2025-11-29.json".
func ExportFilename(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "rule-book"
	}
	return fmt.Sprintf("%s-%s.json", prefix, now.Format("2006-01-02"))
}

// WriteFile serializes doc to path.
func WriteFile(path string, doc model.RuleBook) error {
	data, err := Serialize(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and parses the document at path.
func ReadFile(path string, mode Mode) (model.RuleBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.RuleBook{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, mode)
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// decodeErr maps a typed decoding failure that slipped past the shape
// checks, such as a string where a boolean belongs, to a ShapeError naming
// the field.
func decodeErr(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return shapeErr(CheckType, typeErr.Field, -1, "",
			"Field '%s' must be %s, got %s", typeErr.Field, typeErr.Type.String(), typeErr.Value)
	}
	return shapeErr(CheckType, "", -1, "", "Invalid document: %v", err)
}

// normalize replaces nil rule and point slices with empty ones so they
// serialize as [] rather than null.
func normalize(doc model.RuleBook) model.RuleBook {
	rules := make([]model.Rule, len(doc.Rules))
	for i, r := range doc.Rules {
		if r.Points == nil {
			r.Points = []model.Point{}
		}
		rules[i] = r
	}
	doc.Rules = rules
	return doc
}
