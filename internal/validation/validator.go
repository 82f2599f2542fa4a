// Package validation performs structural checks on board entities before
// they are accepted into the store. It never resolves cross-entity
// references (that is the dependency resolver's job) and never mutates
// its input.
package validation

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/response"
)

// Violation describes a single failed structural check.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// Err converts a violation list into an AppError, or nil when the list is
// empty.
func Err(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	details := make([]string, len(violations))
	for i, v := range violations {
		details[i] = v.String()
	}
	return response.NewAppError(response.ErrCodeValidation,
		"entity failed validation", strings.Join(details, "; "))
}

// ValidateBoard checks board-level structure: identity, name, and column
// ID uniqueness.
func ValidateBoard(b *domain.Board) []Violation {
	var out []Violation
	if b.ID == "" {
		out = append(out, Violation{Field: "id", Reason: "required"})
	}
	if b.Name == "" {
		out = append(out, Violation{Field: "name", Reason: "required"})
	}
	seen := make(map[string]bool, len(b.Columns))
	for i := range b.Columns {
		col := &b.Columns[i]
		for _, v := range ValidateColumn(col) {
			v.Field = fmt.Sprintf("columns[%d].%s", i, v.Field)
			out = append(out, v)
		}
		if col.ID != "" && seen[col.ID] {
			out = append(out, Violation{
				Field:  fmt.Sprintf("columns[%d].id", i),
				Reason: "duplicate column id " + col.ID,
			})
		}
		seen[col.ID] = true
	}
	return out
}

// ValidateColumn checks a single column record.
func ValidateColumn(col *domain.Column) []Violation {
	var out []Violation
	if col.ID == "" {
		out = append(out, Violation{Field: "id", Reason: "required"})
	}
	if col.Name == "" {
		out = append(out, Violation{Field: "name", Reason: "required"})
	}
	if col.WIPLimit < 0 {
		out = append(out, Violation{Field: "wipLimit", Reason: "must not be negative"})
	}
	return out
}

// ValidateCard checks a single card record. Column membership is checked
// against the board by the service; here only the card's own shape matters.
func ValidateCard(card *domain.Card) []Violation {
	var out []Violation
	if card.ID == "" {
		out = append(out, Violation{Field: "id", Reason: "required"})
	}
	if card.Title == "" {
		out = append(out, Violation{Field: "title", Reason: "required"})
	}
	if card.ColumnID == "" {
		out = append(out, Violation{Field: "columnId", Reason: "required"})
	}
	if card.Position < 0 {
		out = append(out, Violation{Field: "position", Reason: "must not be negative"})
	}
	if card.CreatedAt.IsZero() {
		out = append(out, Violation{Field: "created_at", Reason: "required"})
	}
	if card.UpdatedAt.IsZero() {
		out = append(out, Violation{Field: "updated_at", Reason: "required"})
	}
	for i, s := range card.Subtasks {
		if s == "" {
			out = append(out, Violation{
				Field:  fmt.Sprintf("subtasks[%d]", i),
				Reason: "must not be empty",
			})
		}
	}
	for i, tag := range card.Tags {
		if tag == "" {
			out = append(out, Violation{
				Field:  fmt.Sprintf("tags[%d]", i),
				Reason: "must not be empty",
			})
		}
	}
	return out
}

// EnsureCardFirst refuses card-level operations against legacy-layout
// boards with a distinct FORMAT_MISMATCH error instead of attempting a
// lossy migration.
func EnsureCardFirst(b *domain.Board) error {
	if b.Layout() == domain.LayoutLegacy {
		return response.NewAppError(response.ErrCodeFormatMismatch,
			"board uses the legacy nested-column layout",
			"card operations require the card-first layout; migrate the board file first")
	}
	return nil
}

// CheckCardFields validates a decoded JSON object against the card schema
// before it is bound to a typed record: wrong primitive types, non-string
// array elements, and malformed timestamps are reported per field.
func CheckCardFields(raw map[string]any) []Violation {
	var out []Violation

	stringFields := []string{"id", "title", "content", "columnId", "assignee"}
	for _, f := range stringFields {
		if v, ok := raw[f]; ok {
			if _, isString := v.(string); !isString {
				out = append(out, Violation{Field: f, Reason: "must be a string"})
			}
		}
	}

	if v, ok := raw["collapsed"]; ok {
		if _, isBool := v.(bool); !isBool {
			out = append(out, Violation{Field: "collapsed", Reason: "must be a boolean"})
		}
	}

	if v, ok := raw["position"]; ok {
		if _, isNum := v.(float64); !isNum {
			out = append(out, Violation{Field: "position", Reason: "must be a number"})
		}
	}

	arrayFields := []string{"subtasks", "tags", "dependsOn"}
	for _, f := range arrayFields {
		v, ok := raw[f]
		if !ok {
			continue
		}
		items, isArray := v.([]any)
		if !isArray {
			out = append(out, Violation{Field: f, Reason: "must be an array of strings"})
			continue
		}
		for i, item := range items {
			if _, isString := item.(string); !isString {
				out = append(out, Violation{
					Field:  fmt.Sprintf("%s[%d]", f, i),
					Reason: "must be a string",
				})
			}
		}
	}

	timeFields := []string{"dueDate", "created_at", "updated_at", "completed_at"}
	for _, f := range timeFields {
		v, ok := raw[f]
		if !ok || v == nil {
			continue
		}
		s, isString := v.(string)
		if !isString {
			out = append(out, Violation{Field: f, Reason: "must be an RFC 3339 timestamp"})
			continue
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			out = append(out, Violation{Field: f, Reason: "malformed timestamp"})
		}
	}

	return out
}
