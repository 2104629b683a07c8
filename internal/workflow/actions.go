package workflow

import (
	"encoding/json"
	"strings"
)

// Action is an affordance the UI may offer on a request.
type Action string

const (
	ActionAccept          Action = "accept"
	ActionReject          Action = "reject"
	ActionAssign          Action = "assign"
	ActionReturn          Action = "return"
	ActionForward         Action = "forward"
	ActionApprove         Action = "approve"
	ActionEditAndResubmit Action = "editAndResubmit"
)

// allActions fixes the bit position and the listing order of every action.
var allActions = [...]Action{
	ActionAccept,
	ActionReject,
	ActionAssign,
	ActionReturn,
	ActionForward,
	ActionApprove,
	ActionEditAndResubmit,
}

// ParseAction accepts the action code case-insensitively.
func ParseAction(code string) (Action, bool) {
	for _, a := range allActions {
		if strings.EqualFold(string(a), code) {
			return a, true
		}
	}
	return "", false
}

// RequiresReason reports whether the backend expects a reason with the action.
func (a Action) RequiresReason() bool {
	switch a {
	case ActionReject, ActionAssign, ActionReturn, ActionForward:
		return true
	}
	return false
}

func (a Action) bit() ActionSet {
	for i, known := range allActions {
		if known == a {
			return 1 << uint(i)
		}
	}
	return 0
}

// ActionSet is an immutable set of actions.
type ActionSet uint8

func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= a.bit()
	}
	return s
}

func (s ActionSet) Has(a Action) bool {
	b := a.bit()
	return b != 0 && s&b == b
}

func (s ActionSet) Without(a Action) ActionSet {
	return s &^ a.bit()
}

func (s ActionSet) IsEmpty() bool { return s == 0 }

func (s ActionSet) Len() int {
	n := 0
	for _, a := range allActions {
		if s.Has(a) {
			n++
		}
	}
	return n
}

// List returns the members in canonical order.
func (s ActionSet) List() []Action {
	list := make([]Action, 0, len(allActions))
	for _, a := range allActions {
		if s.Has(a) {
			list = append(list, a)
		}
	}
	return list
}

func (s ActionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}
