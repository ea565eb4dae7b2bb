package agent

import (
	"sort"
	"strings"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/task"
)

// candidate is the part of a task or event the match policy looks at.
type candidate struct {
	id        string
	title     string
	createdAt time.Time
}

// MatchPolicy resolves a fragment to one item: exact ID, then exact
// case-insensitive title, then case-insensitive substring of the title.
// Within a tier the most recently created item wins, then the greatest ID.
type MatchPolicy struct{}

func (MatchPolicy) pick(fragment string, items []candidate) (int, bool) {
	frag := strings.TrimSpace(fragment)
	if frag == "" || len(items) == 0 {
		return 0, false
	}
	lower := strings.ToLower(frag)
	tiers := []func(c candidate) bool{
		func(c candidate) bool { return c.id == frag },
		func(c candidate) bool { return strings.ToLower(c.title) == lower },
		func(c candidate) bool { return strings.Contains(strings.ToLower(c.title), lower) },
	}
	for _, match := range tiers {
		var hits []int
		for i, c := range items {
			if match(c) {
				hits = append(hits, i)
			}
		}
		if len(hits) == 0 {
			continue
		}
		sort.Slice(hits, func(a, b int) bool {
			ca, cb := items[hits[a]], items[hits[b]]
			if !ca.createdAt.Equal(cb.createdAt) {
				return ca.createdAt.After(cb.createdAt)
			}
			return ca.id > cb.id
		})
		return hits[0], true
	}
	return 0, false
}

// Task finds the task fragment refers to. Completed tasks are skipped when
// skipCompleted is set.
func (p MatchPolicy) Task(fragment string, tasks []*task.Task, skipCompleted bool) (*task.Task, bool) {
	var pool []*task.Task
	for _, t := range tasks {
		if skipCompleted && t.IsCompleted() {
			continue
		}
		pool = append(pool, t)
	}
	items := make([]candidate, len(pool))
	for i, t := range pool {
		items[i] = candidate{id: t.ID, title: t.Title, createdAt: t.CreatedAt}
	}
	i, ok := p.pick(fragment, items)
	if !ok {
		return nil, false
	}
	return pool[i], true
}

func (p MatchPolicy) Event(fragment string, events []*calendar.Event) (*calendar.Event, bool) {
	items := make([]candidate, len(events))
	for i, e := range events {
		items[i] = candidate{id: e.ID, title: e.Title, createdAt: e.CreatedAt}
	}
	i, ok := p.pick(fragment, items)
	if !ok {
		return nil, false
	}
	return events[i], true
}
