package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/fieldguild/backend/internal/chat"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
	"github.com/kazz187/fieldguild/backend/pkg/storage"
)

const messagesPrefix = "chat_messages"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", messagesPrefix, id)
}

func (r *YAMLRepository) Append(ctx context.Context, m *chat.Message) error {
	exists, err := r.storage.Exists(ctx, path(m.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("chat_message", err)
	}
	if exists {
		return cerr.NewError(cerr.AlreadyExists, "chat message already exists", nil)
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal chat message: %w", err))
	}
	if err := r.storage.Write(ctx, path(m.ID), data); err != nil {
		return cerr.WrapStorageWriteError("chat_message", err)
	}
	return nil
}

func (r *YAMLRepository) List(ctx context.Context, limit int) ([]*chat.Message, error) {
	paths, err := r.storage.List(ctx, messagesPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("chat_messages", err)
	}

	all := make([]*chat.Message, 0, len(paths))
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var m chat.Message
		if err := yaml.Unmarshal(data, &m); err != nil {
			continue
		}
		all = append(all, &m)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (r *YAMLRepository) Clear(ctx context.Context) error {
	paths, err := r.storage.List(ctx, messagesPrefix)
	if err != nil {
		return cerr.WrapStorageReadError("chat_messages", err)
	}
	for _, p := range paths {
		if err := r.storage.Delete(ctx, p); err != nil {
			return cerr.WrapStorageDeleteError("chat_message", err)
		}
	}
	return nil
}
