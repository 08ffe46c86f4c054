package form

import (
	"encoding/json"
	"fmt"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/google/uuid"
)

// Errors returned by Apply
var (
	ErrIndexOutOfRange = shared.NewDomainError(shared.CodeInvalidInput, "field index out of range")
	ErrRowOutOfRange   = shared.NewDomainError(shared.CodeInvalidInput, "sub-form row out of range")
	ErrMissingSubIndex = shared.NewDomainError(shared.CodeInvalidInput, "sub-index is required for this change")
	ErrNotSubForm      = shared.NewDomainError(shared.CodeInvalidInput, "field is not a sub-form")
	ErrNotSettable     = shared.NewDomainError(shared.CodeInvalidInput, "sub-form fields cannot be set directly")
	ErrDisabled        = shared.NewDomainError(shared.CodeInvalidInput, "field is disabled")
	ErrUnknownGroup    = shared.NewDomainError(shared.CodeInvalidInput, "unknown sub-form group")
)

// Form is an arena of field nodes with an ordered list of root fields
type Form struct {
	nodes []Field
	root  []Ref
}

// New builds a form from field specs
func New(specs ...Spec) *Form {
	f := &Form{}
	f.root = f.insertRow(specs)
	return f
}

func (f *Form) insertRow(specs []Spec) []Ref {
	row := make([]Ref, 0, len(specs))
	for _, s := range specs {
		row = append(row, f.insert(s))
	}
	return row
}

func (f *Form) insert(s Spec) Ref {
	ref := Ref(len(f.nodes))
	f.nodes = append(f.nodes, Field{
		Label:       s.Label,
		Alias:       s.Alias,
		Type:        s.Type,
		Value:       s.Value,
		Required:    s.Required,
		Disabled:    s.Disabled,
		Hidden:      s.Hidden,
		MultiSelect: s.MultiSelect,
		Choices:     s.Choices,
	})
	if s.Type != TypeSubForm {
		return ref
	}
	rows := make([][]Ref, 0, len(s.Rows))
	for _, r := range s.Rows {
		rows = append(rows, f.insertRow(r))
	}
	// f.nodes may have grown; address the node by index again.
	f.nodes[ref].GroupID = uuid.NewString()
	f.nodes[ref].Template = s.Template
	f.nodes[ref].Rows = rows
	return ref
}

// Root returns the root field references in display order
func (f *Form) Root() []Ref {
	return f.root
}

// Field returns the node for ref. The pointer stays valid until the next
// row insertion.
func (f *Form) Field(ref Ref) *Field {
	return &f.nodes[ref]
}

// Scope returns a reader over the root fields
func (f *Form) Scope() Scope {
	return Scope{form: f, refs: f.root}
}

// Lookup finds a root field by alias
func (f *Form) Lookup(alias string) (Ref, bool) {
	return f.Scope().Lookup(alias)
}

// Rows returns the rows of the root sub-form with the given alias
func (f *Form) Rows(alias string) []Scope {
	return f.Scope().Rows(alias)
}

// Group finds a reachable sub-form by group id
func (f *Form) Group(id string) (Ref, bool) {
	found := Ref(-1)
	f.walk(f.root, func(ref Ref, _ bool) bool {
		if f.nodes[ref].GroupID == id {
			found = ref
			return false
		}
		return true
	})
	return found, found >= 0
}

// walk visits reachable fields depth-first. hidden reports whether the field or
// any enclosing sub-form is hidden. Returning false stops the walk.
func (f *Form) walk(refs []Ref, visit func(ref Ref, hidden bool) bool) bool {
	var rec func(refs []Ref, parentHidden bool) bool
	rec = func(refs []Ref, parentHidden bool) bool {
		for _, ref := range refs {
			n := &f.nodes[ref]
			hidden := parentHidden || n.Hidden
			if !visit(ref, hidden) {
				return false
			}
			for _, row := range n.Rows {
				if !rec(row, hidden) {
					return false
				}
			}
		}
		return true
	}
	return rec(refs, false)
}

// Apply executes a change command and returns the field it touched
func (f *Form) Apply(c Change) (Ref, error) {
	if c.GroupID == "" {
		if c.Index < 0 || c.Index >= len(f.root) {
			return -1, ErrIndexOutOfRange
		}
		ref := f.root[c.Index]
		switch c.Action {
		case ActionAddRow:
			return ref, f.addRow(ref)
		case ActionRemoveRow:
			if c.SubIndex == nil {
				return ref, ErrMissingSubIndex
			}
			return ref, f.removeRow(ref, *c.SubIndex)
		default:
			return ref, f.set(ref, c.Value)
		}
	}

	group, ok := f.Group(c.GroupID)
	if !ok {
		return -1, ErrUnknownGroup
	}
	switch c.Action {
	case ActionAddRow:
		return group, f.addRow(group)
	case ActionRemoveRow:
		if c.SubIndex == nil {
			return group, ErrMissingSubIndex
		}
		return group, f.removeRow(group, *c.SubIndex)
	default:
		ref, err := f.Target(c)
		if err != nil {
			return group, err
		}
		return ref, f.set(ref, c.Value)
	}
}

// Target resolves the field a set change would write without writing it
func (f *Form) Target(c Change) (Ref, error) {
	if c.GroupID == "" {
		if c.Index < 0 || c.Index >= len(f.root) {
			return -1, ErrIndexOutOfRange
		}
		return f.root[c.Index], nil
	}
	group, ok := f.Group(c.GroupID)
	if !ok {
		return -1, ErrUnknownGroup
	}
	if c.SubIndex == nil {
		return group, ErrMissingSubIndex
	}
	rows := f.nodes[group].Rows
	if *c.SubIndex < 0 || *c.SubIndex >= len(rows) {
		return group, ErrRowOutOfRange
	}
	row := rows[*c.SubIndex]
	if c.Index < 0 || c.Index >= len(row) {
		return group, ErrIndexOutOfRange
	}
	return row[c.Index], nil
}

func (f *Form) set(ref Ref, v Value) error {
	n := &f.nodes[ref]
	if n.Disabled {
		return ErrDisabled
	}
	switch {
	case n.Type == TypeSubForm:
		return ErrNotSettable
	case n.Type == TypeCheckbox:
		n.Value = Value{Bool: v.Bool || v.Text == "true"}
	case n.IsList():
		list := v.List
		if list == nil && v.Text != "" {
			list = []string{v.Text}
		}
		n.Value = Value{List: list}
	default:
		n.Value = Value{Text: v.Text}
	}
	return nil
}

// AddRow appends a row built from the sub-form template and returns its index
func (f *Form) AddRow(ref Ref) (int, error) {
	if err := f.addRow(ref); err != nil {
		return -1, err
	}
	return len(f.nodes[ref].Rows) - 1, nil
}

func (f *Form) addRow(ref Ref) error {
	n := &f.nodes[ref]
	if n.Type != TypeSubForm {
		return ErrNotSubForm
	}
	if n.Disabled {
		return ErrDisabled
	}
	template := n.Template
	row := f.insertRow(template)
	f.nodes[ref].Rows = append(f.nodes[ref].Rows, row)
	return nil
}

func (f *Form) removeRow(ref Ref, index int) error {
	n := &f.nodes[ref]
	if n.Type != TypeSubForm {
		return ErrNotSubForm
	}
	if n.Disabled {
		return ErrDisabled
	}
	if index < 0 || index >= len(n.Rows) {
		return ErrRowOutOfRange
	}
	n.Rows = append(n.Rows[:index:index], n.Rows[index+1:]...)
	return nil
}

// SetDisabled toggles the disabled flag on every reachable field
func (f *Form) SetDisabled(disabled bool) {
	f.walk(f.root, func(ref Ref, _ bool) bool {
		f.nodes[ref].Disabled = disabled
		return true
	})
}

// Missing returns the paths of required, visible fields that have no value
func (f *Form) Missing() []string {
	var missing []string
	var rec func(refs []Ref, prefix string, parentHidden bool)
	rec = func(refs []Ref, prefix string, parentHidden bool) {
		for _, ref := range refs {
			n := &f.nodes[ref]
			if parentHidden || n.Hidden {
				continue
			}
			path := prefix + n.Alias
			if n.Required && n.IsEmpty() {
				missing = append(missing, path)
			}
			for i, row := range n.Rows {
				rec(row, fmt.Sprintf("%s[%d].", path, i), false)
			}
		}
	}
	rec(f.root, "", false)
	return missing
}

// Descriptor is the render-ready view of a field
type Descriptor struct {
	Index       int            `json:"index"`
	Label       string         `json:"label"`
	Alias       string         `json:"alias"`
	Type        FieldType      `json:"type"`
	Value       any            `json:"value"`
	Required    bool           `json:"required"`
	Disabled    bool           `json:"disabled"`
	Hidden      bool           `json:"hidden"`
	MultiSelect bool           `json:"multiSelect,omitempty"`
	Choices     []Choice       `json:"choices,omitempty"`
	GroupID     string         `json:"groupId,omitempty"`
	Rows        [][]Descriptor `json:"rows,omitempty"`
}

// Descriptors exports the reachable fields as a tree
func (f *Form) Descriptors() []Descriptor {
	return f.describe(f.root)
}

func (f *Form) describe(refs []Ref) []Descriptor {
	out := make([]Descriptor, 0, len(refs))
	for i, ref := range refs {
		n := &f.nodes[ref]
		d := Descriptor{
			Index:       i,
			Label:       n.Label,
			Alias:       n.Alias,
			Type:        n.Type,
			Required:    n.Required,
			Disabled:    n.Disabled,
			Hidden:      n.Hidden,
			MultiSelect: n.MultiSelect,
			Choices:     n.Choices,
			GroupID:     n.GroupID,
		}
		switch {
		case n.Type == TypeSubForm:
			d.Value = nil
			for _, row := range n.Rows {
				d.Rows = append(d.Rows, f.describe(row))
			}
		case n.Type == TypeCheckbox:
			d.Value = n.Value.Bool
		case n.IsList():
			list := n.Value.List
			if list == nil {
				list = []string{}
			}
			d.Value = list
		default:
			d.Value = n.Value.Text
		}
		out = append(out, d)
	}
	return out
}

type snapshot struct {
	Nodes []Field `json:"nodes"`
	Root  []Ref   `json:"root"`
}

// MarshalJSON encodes the arena so drafts can be persisted
func (f *Form) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshot{Nodes: f.nodes, Root: f.root})
}

// UnmarshalJSON restores an arena encoded by MarshalJSON
func (f *Form) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	f.nodes = s.Nodes
	f.root = s.Root
	return nil
}

// validate checks that every ref is in range and that no node has two
// parents, so the reachable nodes form a tree
func (s *snapshot) validate() error {
	seen := make([]bool, len(s.Nodes))
	claim := func(ref Ref, where string) error {
		if int(ref) < 0 || int(ref) >= len(s.Nodes) {
			return fmt.Errorf("form snapshot: %s ref %d out of range", where, ref)
		}
		if seen[ref] {
			return fmt.Errorf("form snapshot: %s ref %d is shared", where, ref)
		}
		seen[ref] = true
		return nil
	}
	for _, ref := range s.Root {
		if err := claim(ref, "root"); err != nil {
			return err
		}
	}
	for i := range s.Nodes {
		for _, row := range s.Nodes[i].Rows {
			for _, ref := range row {
				if err := claim(ref, s.Nodes[i].Alias); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
