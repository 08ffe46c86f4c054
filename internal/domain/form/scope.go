package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bookingops/console/internal/domain/shared"
)

// Scope reads fields of one level of a form: the root or a sub-form row
type Scope struct {
	form *Form
	refs []Ref
}

// Refs returns the field references of the scope in order
func (s Scope) Refs() []Ref {
	return s.refs
}

// Lookup finds a field by alias
func (s Scope) Lookup(alias string) (Ref, bool) {
	for _, ref := range s.refs {
		if s.form.nodes[ref].Alias == alias {
			return ref, true
		}
	}
	return -1, false
}

// Field returns the field with the alias, or nil
func (s Scope) Field(alias string) *Field {
	ref, ok := s.Lookup(alias)
	if !ok {
		return nil
	}
	return s.form.Field(ref)
}

// Text returns the trimmed text value of a field
func (s Scope) Text(alias string) string {
	if f := s.Field(alias); f != nil {
		return strings.TrimSpace(f.Value.Text)
	}
	return ""
}

// List returns the list value of a field
func (s Scope) List(alias string) []string {
	if f := s.Field(alias); f != nil {
		return f.Value.List
	}
	return nil
}

// Bool returns the checkbox value of a field
func (s Scope) Bool(alias string) bool {
	if f := s.Field(alias); f != nil {
		return f.Value.Bool
	}
	return false
}

// Decimal parses a numeric field. An empty field reads as zero.
func (s Scope) Decimal(alias string) (decimal.Decimal, error) {
	text := s.Text(alias)
	if text == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("field %s: %w", alias, err)
	}
	return d, nil
}

// Int parses an integer field. An empty field reads as zero.
func (s Scope) Int(alias string) (int, error) {
	text := s.Text(alias)
	if text == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	// "3.0" is a whole number; "2.9" is rejected, never truncated
	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() {
		return 0, shared.Errorf(shared.CodeInvalidInput, "%s must be a whole number, got %q", alias, text)
	}
	return int(d.IntPart()), nil
}

// Time parses a date field using one of the layouts. An empty field reads as nil.
func (s Scope) Time(alias string, layouts ...string) (*time.Time, error) {
	text := s.Text(alias)
	if text == "" {
		return nil, nil
	}
	if len(layouts) == 0 {
		layouts = []string{time.RFC3339}
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("field %s: %w", alias, lastErr)
}

// Rows returns the rows of a sub-form field
func (s Scope) Rows(alias string) []Scope {
	f := s.Field(alias)
	if f == nil {
		return nil
	}
	rows := make([]Scope, 0, len(f.Rows))
	for _, row := range f.Rows {
		rows = append(rows, Scope{form: s.form, refs: row})
	}
	return rows
}
