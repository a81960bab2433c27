package domain

import (
	"fmt"
	"strings"
)

// Action is the lifecycle operation selected for a run.
type Action string

const (
	ActionCreate  Action = "create"
	ActionPackage Action = "package"
	ActionDeploy  Action = "deploy"
)

// Actions lists the supported actions in help order.
var Actions = []Action{ActionCreate, ActionPackage, ActionDeploy}

// ParseAction parses an action name case-insensitively.
// An empty string selects ActionCreate.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case "", ActionCreate:
		return ActionCreate, nil
	case ActionPackage:
		return ActionPackage, nil
	case ActionDeploy:
		return ActionDeploy, nil
	}
	return "", fmt.Errorf("%w: unknown action %q (expected create, package or deploy)", ErrInvalidArgument, s)
}

func (a Action) String() string { return string(a) }
