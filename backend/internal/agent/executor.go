package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/pkg/panicerr"
)

const (
	taskDateLayout  = "January 2, 2006"
	eventDateLayout = "Monday, January 2, 2006"
)

// Executor applies actions to the task and event repositories and
// describes each outcome in one line.
type Executor struct {
	tasks  task.Repository
	events calendar.Repository
	policy MatchPolicy
	now    func() time.Time
	bus    *eventbus.Bus
}

type ExecutorOption func(*Executor)

func WithExecutorClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) {
		e.now = now
	}
}

// WithEventBus publishes task and event changes made by the executor.
func WithEventBus(bus *eventbus.Bus) ExecutorOption {
	return func(e *Executor) {
		e.bus = bus
	}
}

func NewExecutor(tasks task.Repository, events calendar.Repository, opts ...ExecutorOption) *Executor {
	e := &Executor{
		tasks:  tasks,
		events: events,
		now:    time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Execute runs the actions in order and returns one result per action. A
// failing or panicking action yields a warning line and the batch goes on.
func (e *Executor) Execute(ctx context.Context, actions []Action) []string {
	results := make([]string, len(actions))
	for i, a := range actions {
		var result string
		err := panicerr.Safe(func() error {
			var err error
			result, err = e.execute(ctx, a)
			return err
		})()
		if err != nil {
			slog.WarnContext(ctx, "agent action failed", "action", a.String(), "error", err)
			result = failure(a, err)
		}
		results[i] = result
	}
	return results
}

func (e *Executor) execute(ctx context.Context, a Action) (string, error) {
	if err := a.Validate(); err != nil {
		return "", err
	}
	switch a.Type {
	case ActionAddTask:
		return e.addTask(ctx, a.Task)
	case ActionAddEvent:
		return e.addEvent(ctx, a.Event)
	case ActionCompleteTask:
		return e.completeTask(ctx, a.Fragment)
	case ActionDeleteTask:
		return e.deleteTask(ctx, a.Fragment)
	case ActionUpdateTask:
		return e.updateTask(ctx, a.Fragment, a.Task.Status)
	case ActionDeleteEvent:
		return e.deleteEvent(ctx, a.Fragment)
	case ActionUpdateEvent:
		return e.moveEvent(ctx, a.Fragment, a.Event.Date)
	case ActionListTasks:
		return e.listTasks(ctx)
	case ActionListEvents:
		return e.listEvents(ctx)
	}
	return "", fmt.Errorf("unknown action type %q", a.Type)
}

func (e *Executor) today() time.Time {
	return midnight(e.now())
}

func (e *Executor) publish(ctx context.Context, typ eventbus.EventType, id, payload string) {
	if e.bus == nil {
		return
	}
	e.bus.PublishNew(typ, sessionid.FromContext(ctx), id, payload, map[string]string{"source": "agent"})
}

func (e *Executor) addTask(ctx context.Context, p *TaskParams) (string, error) {
	date := e.today()
	if p.Date != "" {
		d, err := time.ParseInLocation(task.DateLayout, p.Date, date.Location())
		if err != nil {
			return "", err
		}
		date = d
	}
	status := p.Status
	if status == "" {
		status = task.StatusPending
	}
	t := task.New(p.Title, p.Description, status, date, e.now())
	if err := e.tasks.Create(ctx, t); err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeTaskCreated, t.ID, t.Title)
	return fmt.Sprintf("✅ Added task %q for %s.", t.Title, date.Format(taskDateLayout)), nil
}

func (e *Executor) addEvent(ctx context.Context, p *EventParams) (string, error) {
	date := p.Date
	if date.IsZero() {
		date = e.today().AddDate(0, 0, 1)
	}
	typ := p.Type
	if typ == "" {
		typ = Classify(p.Title)
	}
	ev := calendar.New(p.Title, p.Description, typ, date, e.now())
	if err := e.events.Create(ctx, ev); err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeEventCreated, ev.ID, ev.Title)
	return fmt.Sprintf("📅 Added event %q to your calendar on %s.", ev.Title, date.Format(eventDateLayout)), nil
}

func (e *Executor) findTask(ctx context.Context, fragment string, skipCompleted bool) (*task.Task, error) {
	tasks, err := e.tasks.List(ctx, task.ListFilter{})
	if err != nil {
		return nil, err
	}
	t, _ := e.policy.Task(fragment, tasks, skipCompleted)
	return t, nil
}

func (e *Executor) findEvent(ctx context.Context, fragment string) (*calendar.Event, error) {
	events, err := e.events.List(ctx, calendar.ListFilter{})
	if err != nil {
		return nil, err
	}
	ev, _ := e.policy.Event(fragment, events)
	return ev, nil
}

func (e *Executor) completeTask(ctx context.Context, fragment string) (string, error) {
	t, err := e.findTask(ctx, fragment, true)
	if err != nil || t == nil {
		return notFound("a task", fragment), err
	}
	if _, err := task.Complete(ctx, e.tasks, t.ID, e.now()); err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeTaskUpdated, t.ID, t.Title)
	return fmt.Sprintf("✅ Marked task %q as complete.", t.Title), nil
}

func (e *Executor) deleteTask(ctx context.Context, fragment string) (string, error) {
	t, err := e.findTask(ctx, fragment, false)
	if err != nil || t == nil {
		return notFound("a task", fragment), err
	}
	if err := e.tasks.Delete(ctx, t.ID); err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeTaskDeleted, t.ID, t.Title)
	return fmt.Sprintf("🗑️ Deleted task %q from your task list.", t.Title), nil
}

func (e *Executor) updateTask(ctx context.Context, fragment string, status task.Status) (string, error) {
	t, err := e.findTask(ctx, fragment, false)
	if err != nil || t == nil {
		return notFound("a task", fragment), err
	}
	t.Status = status
	t.UpdatedAt = e.now()
	if err := e.tasks.Update(ctx, t); err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeTaskUpdated, t.ID, t.Title)
	return fmt.Sprintf("✏️ Updated task %q to %s.", t.Title, status), nil
}

func (e *Executor) deleteEvent(ctx context.Context, fragment string) (string, error) {
	ev, err := e.findEvent(ctx, fragment)
	if err != nil || ev == nil {
		return notFound("an event", fragment), err
	}
	if err := e.events.Delete(ctx, ev.ID); err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeEventDeleted, ev.ID, ev.Title)
	return fmt.Sprintf("🗑️ Deleted event %q from your calendar.", ev.Title), nil
}

func (e *Executor) moveEvent(ctx context.Context, fragment string, date time.Time) (string, error) {
	ev, err := e.findEvent(ctx, fragment)
	if err != nil || ev == nil {
		return notFound("an event", fragment), err
	}
	updated, err := e.events.Patch(ctx, ev.ID, &calendar.Patch{Date: &date})
	if err != nil {
		return "", err
	}
	e.publish(ctx, eventbus.TypeEventUpdated, updated.ID, updated.Title)
	return fmt.Sprintf("✏️ Moved event %q to %s.", updated.Title, date.Format(eventDateLayout)), nil
}

func (e *Executor) listTasks(ctx context.Context) (string, error) {
	tasks, err := e.tasks.List(ctx, task.ListFilter{})
	if err != nil {
		return "", err
	}
	if len(tasks) == 0 {
		return "📋 You have no tasks.", nil
	}
	today := e.today()
	buckets := task.Bucket(tasks, today)
	todays := make([]string, 0, len(buckets.Today))
	for _, t := range buckets.Today {
		todays = append(todays, fmt.Sprintf("- %s (%s)", t.Title, t.Status))
	}
	upcoming := datedLines(buckets.Upcoming, today.Location())
	overdue := datedLines(buckets.Overdue, today.Location())
	if len(todays)+len(upcoming)+len(overdue) == 0 {
		return "📋 You have no open tasks.", nil
	}
	var b strings.Builder
	b.WriteString("📋 Your tasks:")
	writeSection(&b, "Today", todays)
	writeSection(&b, "Upcoming", upcoming)
	writeSection(&b, "Overdue", overdue)
	return b.String(), nil
}

func (e *Executor) listEvents(ctx context.Context) (string, error) {
	today := e.today()
	events, err := e.events.List(ctx, calendar.ListFilter{From: today})
	if err != nil {
		return "", err
	}
	tomorrow := today.AddDate(0, 0, 1)
	var todays, upcoming []string
	for _, ev := range events {
		if ev.Date.Before(tomorrow) {
			todays = append(todays, fmt.Sprintf("- %s (%s)", ev.Title, ev.Type))
			continue
		}
		upcoming = append(upcoming, fmt.Sprintf("- %s (%s, %s)", ev.Title, ev.Date.Format(eventDateLayout), ev.Type))
	}
	if len(todays)+len(upcoming) == 0 {
		return "📅 You have no upcoming events.", nil
	}
	var b strings.Builder
	b.WriteString("📅 Your calendar:")
	writeSection(&b, "Today", todays)
	writeSection(&b, "Upcoming", upcoming)
	return b.String(), nil
}

func datedLines(tasks []*task.Task, loc *time.Location) []string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		day, _ := t.Day(loc)
		lines = append(lines, fmt.Sprintf("- %s (%s, %s)", t.Title, day.Format(taskDateLayout), t.Status))
	}
	return lines
}

func writeSection(b *strings.Builder, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString(":")
	for _, l := range lines {
		b.WriteString("\n")
		b.WriteString(l)
	}
}

func notFound(kind, fragment string) string {
	return fmt.Sprintf("❌ Couldn't find %s matching %q.", kind, fragment)
}

func failure(a Action, err error) string {
	verb := map[ActionType]string{
		ActionAddTask:      "add task",
		ActionAddEvent:     "add event",
		ActionCompleteTask: "complete task",
		ActionDeleteTask:   "delete task",
		ActionUpdateTask:   "update task",
		ActionDeleteEvent:  "delete event",
		ActionUpdateEvent:  "move event",
		ActionListTasks:    "list tasks",
		ActionListEvents:   "list events",
	}[a.Type]
	if verb == "" {
		verb = "run action"
	}
	return fmt.Sprintf("⚠️ Failed to %s: %v", verb, err)
}
