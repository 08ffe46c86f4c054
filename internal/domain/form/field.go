// Package form models editable forms as an arena of field descriptors.
//
// A Form owns every field node in a flat slice. Root fields and sub-form rows
// reference nodes by index, so edits never clone nested structures. All edits
// go through Apply with a Change command.
package form

import (
	"encoding/json"
	"errors"
	"strconv"
)

// FieldType is the kind of input control a field renders as
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeNumber   FieldType = "number"
	TypeDropdown FieldType = "dropdown"
	TypeCheckbox FieldType = "checkbox"
	TypeLink     FieldType = "link"
	TypeDateTime FieldType = "datetimepicker"
	TypeDate     FieldType = "date"
	TypeSubForm  FieldType = "subForm"
	TypeImage    FieldType = "image"
)

// Choice is one selectable option of a dropdown
type Choice struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Value holds a field value. Which member is meaningful depends on the field:
// checkboxes use Bool, multi-select dropdowns and images use List, every other
// type uses Text.
type Value struct {
	Text string   `json:"text,omitempty"`
	List []string `json:"list,omitempty"`
	Bool bool     `json:"bool,omitempty"`
}

// Text returns a text value
func Text(s string) Value { return Value{Text: s} }

// List returns a list value
func List(items ...string) Value { return Value{List: items} }

// Bool returns a checkbox value
func Bool(b bool) Value { return Value{Bool: b} }

// Int returns a numeric text value
func Int(n int) Value { return Value{Text: strconv.Itoa(n)} }

// ParseValue decodes a loosely typed JSON value sent by a client.
// Strings, numbers, booleans, string arrays and null are accepted.
func ParseValue(raw json.RawMessage) (Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Value{}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Text(s), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return List(list...), nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return Bool(b), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return Text(n.String()), nil
	}
	return Value{}, errors.New("unsupported field value")
}

// Spec declares a field. Specs build forms and act as sub-form row templates.
type Spec struct {
	Label       string    `json:"label"`
	Alias       string    `json:"alias"`
	Type        FieldType `json:"type"`
	Value       Value     `json:"value"`
	Required    bool      `json:"required,omitempty"`
	Disabled    bool      `json:"disabled,omitempty"`
	Hidden      bool      `json:"hidden,omitempty"`
	MultiSelect bool      `json:"multiSelect,omitempty"`
	Choices     []Choice  `json:"choices,omitempty"`
	Rows        [][]Spec  `json:"rows,omitempty"`
	Template    []Spec    `json:"template,omitempty"`
}

// Ref addresses a field node inside a form arena
type Ref int

// Field is a field node stored in the arena
type Field struct {
	Label       string    `json:"label"`
	Alias       string    `json:"alias"`
	Type        FieldType `json:"type"`
	Value       Value     `json:"value"`
	Required    bool      `json:"required,omitempty"`
	Disabled    bool      `json:"disabled,omitempty"`
	Hidden      bool      `json:"hidden,omitempty"`
	MultiSelect bool      `json:"multiSelect,omitempty"`
	Choices     []Choice  `json:"choices,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	Rows        [][]Ref   `json:"rows,omitempty"`
	Template    []Spec    `json:"template,omitempty"`
}

// IsList reports whether the field stores its value in Value.List
func (f *Field) IsList() bool {
	return f.Type == TypeImage || (f.Type == TypeDropdown && f.MultiSelect)
}

// IsEmpty reports whether the field carries no value
func (f *Field) IsEmpty() bool {
	switch {
	case f.Type == TypeCheckbox:
		return false
	case f.Type == TypeSubForm:
		return len(f.Rows) == 0
	case f.IsList():
		return len(f.Value.List) == 0
	default:
		return f.Value.Text == ""
	}
}

// ChoiceName returns the display name of the selected choice, or the raw value
func (f *Field) ChoiceName() string {
	for _, c := range f.Choices {
		if c.ID == f.Value.Text {
			return c.Name
		}
	}
	return f.Value.Text
}
