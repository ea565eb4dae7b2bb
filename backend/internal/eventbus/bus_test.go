package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFansOut(t *testing.T) {
	b := New()
	id1, ch1 := b.Subscribe(1)
	_, ch2 := b.Subscribe(1)
	defer b.Unsubscribe(id1)

	b.PublishNew(TypeTaskCreated, "default", "task-1", "", nil)

	e1 := <-ch1
	e2 := <-ch2
	assert.Equal(t, TypeTaskCreated, e1.Type)
	assert.Equal(t, "task-1", e2.ResourceID)
	assert.Equal(t, "default", e1.SessionID)
	assert.NotEmpty(t, e1.ID)
}

func TestPublishDropsWhenFull(t *testing.T) {
	b := New()
	_, ch := b.Subscribe(1)

	b.PublishNew(TypeTaskCreated, "s", "1", "", nil)
	b.PublishNew(TypeTaskCreated, "s", "2", "", nil)

	e := <-ch
	assert.Equal(t, "1", e.ResourceID)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected event %v", extra)
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)

	_, ok := <-ch
	require.False(t, ok)
	// Publishing after unsubscribe must not panic.
	b.PublishNew(TypeTaskDeleted, "s", "1", "", nil)
}
