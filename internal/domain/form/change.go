package form

import (
	"strings"

	"github.com/bookingops/console/internal/domain/shared"
)

// Action is the command carried by a Change
type Action int

const (
	// ActionSet writes the change value into a field
	ActionSet Action = iota
	// ActionAddRow appends a row to a sub-form
	ActionAddRow
	// ActionRemoveRow removes a row from a sub-form
	ActionRemoveRow
)

// String returns the wire tag of the action
func (a Action) String() string {
	switch a {
	case ActionAddRow:
		return "addSub"
	case ActionRemoveRow:
		return "delSub"
	default:
		return "set"
	}
}

// ParseAction maps an action tag to an Action. An empty tag means set.
func ParseAction(tag string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "set":
		return ActionSet, nil
	case "addsub", "add_row", "add":
		return ActionAddRow, nil
	case "delsub", "remove_row", "remove":
		return ActionRemoveRow, nil
	default:
		return ActionSet, shared.Errorf(shared.CodeInvalidInput, "unknown form action %q", tag)
	}
}

// Change is a single edit reported by a form.
//
// Without a GroupID, Index addresses a root field. With a GroupID, the change
// targets the sub-form carrying that id: SubIndex selects the row and Index the
// field within it.
type Change struct {
	Value    Value
	Index    int
	Action   Action
	SubIndex *int
	GroupID  string
}

// At returns a pointer to i, for building changes with a sub-index
func At(i int) *int {
	return &i
}

// SetRoot builds a change that writes a root field
func SetRoot(index int, v Value) Change {
	return Change{Index: index, Value: v}
}

// SetInGroup builds a change that writes a field of a sub-form row
func SetInGroup(groupID string, row, index int, v Value) Change {
	return Change{GroupID: groupID, SubIndex: At(row), Index: index, Value: v}
}
