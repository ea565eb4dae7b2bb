package task

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

// New builds a pending or urgent task with a fresh ID.
func New(title, description string, status Status, date time.Time, now time.Time) *Task {
	t := &Task{
		ID:          ulid.Make().String(),
		Title:       title,
		Description: description,
		Status:      status,
		Date:        date.Format(DateLayout),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	t.Normalize()
	return t
}

func Validate(t *Task) error {
	if t.Title == "" {
		return cerr.NewError(cerr.InvalidArgument, "title is required", nil)
	}
	if !t.Status.Valid() {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid status %q", t.Status), nil)
	}
	if !t.ViewType.Valid() {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid view type %q", t.ViewType), nil)
	}
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", t.Date), err)
	}
	return nil
}

// Complete marks the task as completed.
func Complete(ctx context.Context, repo Repository, id string, now time.Time) (*Task, error) {
	t, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = StatusCompleted
	t.UpdatedAt = now
	if err := repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Buckets groups tasks the way the dashboard task list shows them.
type Buckets struct {
	Today    []*Task `json:"today"`
	Upcoming []*Task `json:"upcoming"`
	Overdue  []*Task `json:"overdue"`
}

// Bucket sorts tasks into today, upcoming and overdue relative to the
// calendar day of today. Completed past tasks and tasks with an unreadable
// date are left out.
func Bucket(tasks []*Task, today time.Time) Buckets {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	var b Buckets
	for _, t := range tasks {
		day, err := t.Day(today.Location())
		if err != nil {
			continue
		}
		switch {
		case day.Equal(today):
			b.Today = append(b.Today, t)
		case day.After(today):
			b.Upcoming = append(b.Upcoming, t)
		case !t.IsCompleted():
			b.Overdue = append(b.Overdue, t)
		}
	}
	return b
}
