package repositoryimpl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

const eventsPrefix = "events"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", eventsPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, e *calendar.Event) error {
	exists, err := r.storage.Exists(ctx, path(e.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("event", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "event already exists", nil)
	}
	return r.write(ctx, e)
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*calendar.Event, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("event", err)
	}
	var e calendar.Event
	if err := yaml.Unmarshal(data, &e); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal event: %w", err))
	}
	return &e, nil
}

func (r *YAMLRepository) List(ctx context.Context, filter calendar.ListFilter) ([]*calendar.Event, error) {
	paths, err := r.storage.List(ctx, eventsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("events", err)
	}

	all := make([]*calendar.Event, 0, len(paths))
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var e calendar.Event
		if err := yaml.Unmarshal(data, &e); err != nil {
			continue
		}
		if !filter.Match(&e) {
			continue
		}
		all = append(all, &e)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.Before(all[j].Date)
		}
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (r *YAMLRepository) Update(ctx context.Context, e *calendar.Event) error {
	exists, err := r.storage.Exists(ctx, path(e.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("event", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "event not found", nil)
	}
	return r.write(ctx, e)
}

func (r *YAMLRepository) Patch(ctx context.Context, id string, patch *calendar.Patch) (*calendar.Event, error) {
	e, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(e)
	e.UpdatedAt = time.Now()
	if err := calendar.Validate(e); err != nil {
		return nil, err
	}
	if err := r.write(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *YAMLRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageDeleteError("event", err)
	}
	return nil
}

func (r *YAMLRepository) write(ctx context.Context, e *calendar.Event) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal event: %w", err))
	}
	if err := r.storage.Write(ctx, path(e.ID), data); err != nil {
		return cerr.WrapStorageWriteError("event", err)
	}
	return nil
}
