package notification

import "context"

type ListFilter struct {
	Type  Type
	Query string
	View  ViewType
}

func (f ListFilter) Match(n *Notification) bool {
	if f.Type != "" && n.Type != f.Type {
		return false
	}
	return n.VisibleTo(f.View) && n.Contains(f.Query)
}

// Repository lists notifications newest first.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	Get(ctx context.Context, id string) (*Notification, error)
	List(ctx context.Context, filter ListFilter) ([]*Notification, error)
	Update(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, id string) error
}

type RepositoryProvider func(ctx context.Context) (Repository, error)
