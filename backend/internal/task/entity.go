package task

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusUrgent    Status = "urgent"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusUrgent:
		return true
	}
	return false
}

// ViewType is the dashboard audience a task belongs to.
type ViewType string

const (
	ViewFarmer  ViewType = "farmer"
	ViewAdvisor ViewType = "advisor"
)

func (v ViewType) Valid() bool {
	return v == "" || v == ViewFarmer || v == ViewAdvisor
}

// DateLayout is the calendar-date format of Task.Date.
const DateLayout = "2006-01-02"

type Task struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Status      Status    `yaml:"status" json:"status"`
	Date        string    `yaml:"date" json:"date"`
	ViewType    ViewType  `yaml:"view_type,omitempty" json:"viewType,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updatedAt"`
}

// Day parses Date as a calendar day in loc.
func (t *Task) Day(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, t.Date, loc)
}

func (t *Task) VisibleTo(v ViewType) bool {
	return v == "" || t.ViewType == "" || t.ViewType == v
}

func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// Normalize trims text fields and fills defaults for a new or edited task.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Status == "" {
		t.Status = StatusPending
	}
}
