package task

import "context"

type ListFilter struct {
	Status   Status
	ViewType ViewType
}

// Repository lists tasks in creation order.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, filter ListFilter) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

// RepositoryProvider resolves the repository of the session bound to ctx.
type RepositoryProvider func(ctx context.Context) (Repository, error)
