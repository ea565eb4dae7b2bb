package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type ActionType string

const (
	ActionAddTask      ActionType = "ADD_TASK"
	ActionDeleteTask   ActionType = "DELETE_TASK"
	ActionCompleteTask ActionType = "COMPLETE_TASK"
	ActionUpdateTask   ActionType = "UPDATE_TASK"
	ActionAddEvent     ActionType = "ADD_EVENT"
	ActionDeleteEvent  ActionType = "DELETE_EVENT"
	ActionUpdateEvent  ActionType = "UPDATE_EVENT"
	ActionListTasks    ActionType = "LIST_TASKS"
	ActionListEvents   ActionType = "LIST_EVENTS"
)

// TaskParams carries the new task for ADD_TASK and the new status for
// UPDATE_TASK.
type TaskParams struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Date        string      `json:"date,omitempty"`
	Status      task.Status `json:"status,omitempty"`
}

// EventParams carries the new event for ADD_EVENT and the target date for
// UPDATE_EVENT.
type EventParams struct {
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Date        time.Time     `json:"date"`
	Type        calendar.Type `json:"type,omitempty"`
}

// Action is one intent extracted from a chat message. Only the fields the
// type needs are set.
type Action struct {
	Type     ActionType   `json:"type"`
	Task     *TaskParams  `json:"task,omitempty"`
	Event    *EventParams `json:"event,omitempty"`
	Fragment string       `json:"fragment,omitempty"`
}

func (a Action) String() string {
	switch a.Type {
	case ActionAddTask:
		if a.Task != nil {
			return fmt.Sprintf("%s %q on %s (%s)", a.Type, a.Task.Title, a.Task.Date, a.Task.Status)
		}
	case ActionAddEvent:
		if a.Event != nil {
			return fmt.Sprintf("%s %q on %s (%s)", a.Type, a.Event.Title, a.Event.Date.Format(task.DateLayout), a.Event.Type)
		}
	case ActionUpdateTask:
		if a.Task != nil {
			return fmt.Sprintf("%s %q -> %s", a.Type, a.Fragment, a.Task.Status)
		}
	case ActionUpdateEvent:
		if a.Event != nil {
			return fmt.Sprintf("%s %q -> %s", a.Type, a.Fragment, a.Event.Date.Format(task.DateLayout))
		}
	case ActionListTasks, ActionListEvents:
		return string(a.Type)
	}
	if a.Fragment != "" {
		return fmt.Sprintf("%s %q", a.Type, a.Fragment)
	}
	return string(a.Type)
}

// Validate checks an action submitted from outside the extractor, e.g. by
// the execute endpoint or an MCP tool.
func (a Action) Validate() error {
	invalid := func(msg string) error {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("%s: %s", a.Type, msg), nil)
	}
	switch a.Type {
	case ActionAddTask:
		if a.Task == nil || strings.TrimSpace(a.Task.Title) == "" {
			return invalid("task title is required")
		}
		if a.Task.Date != "" {
			if _, err := time.Parse(task.DateLayout, a.Task.Date); err != nil {
				return invalid(fmt.Sprintf("invalid date %q", a.Task.Date))
			}
		}
		if a.Task.Status != "" && !a.Task.Status.Valid() {
			return invalid(fmt.Sprintf("invalid status %q", a.Task.Status))
		}
	case ActionAddEvent:
		if a.Event == nil || strings.TrimSpace(a.Event.Title) == "" {
			return invalid("event title is required")
		}
		if a.Event.Type != "" && !a.Event.Type.Valid() {
			return invalid(fmt.Sprintf("invalid event type %q", a.Event.Type))
		}
	case ActionCompleteTask, ActionDeleteTask, ActionDeleteEvent:
		if strings.TrimSpace(a.Fragment) == "" {
			return invalid("fragment is required")
		}
	case ActionUpdateTask:
		if strings.TrimSpace(a.Fragment) == "" {
			return invalid("fragment is required")
		}
		if a.Task == nil || !a.Task.Status.Valid() {
			return invalid("a valid status is required")
		}
	case ActionUpdateEvent:
		if strings.TrimSpace(a.Fragment) == "" {
			return invalid("fragment is required")
		}
		if a.Event == nil || a.Event.Date.IsZero() {
			return invalid("date is required")
		}
	case ActionListTasks, ActionListEvents:
	default:
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("unknown action type %q", a.Type), nil)
	}
	return nil
}
