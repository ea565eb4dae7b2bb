package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

func New(title, description string, typ Type, date time.Time, now time.Time) *Event {
	if typ == "" {
		typ = TypeOther
	}
	return &Event{
		ID:          ulid.Make().String(),
		Date:        date,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Type:        typ,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func Validate(e *Event) error {
	if e.Title == "" {
		return cerr.NewError(cerr.InvalidArgument, "title is required", nil)
	}
	if e.Date.IsZero() {
		return cerr.NewError(cerr.InvalidArgument, "date is required", nil)
	}
	if !e.Type.Valid() {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid event type %q", e.Type), nil)
	}
	if !e.Status.Valid() {
		return cerr.NewError(cerr.InvalidArgument, fmt.Sprintf("invalid event status %q", e.Status), nil)
	}
	return nil
}
