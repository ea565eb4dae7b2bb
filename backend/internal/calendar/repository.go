package calendar

import (
	"context"
	"time"
)

// ListFilter bounds are inclusive; zero values are open.
type ListFilter struct {
	From time.Time
	To   time.Time
	Type Type
}

func (f ListFilter) Match(e *Event) bool {
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return f.Type == "" || e.Type == f.Type
}

// Repository lists events by date, then creation order.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	Get(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter ListFilter) ([]*Event, error)
	Update(ctx context.Context, e *Event) error
	Patch(ctx context.Context, id string, patch *Patch) (*Event, error)
	Delete(ctx context.Context, id string) error
}

type RepositoryProvider func(ctx context.Context) (Repository, error)
