package calendar

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Samples returns the seed events of a fresh session, dated in loc.
func Samples(now time.Time, loc *time.Location) []*Event {
	day := func(d int) time.Time { return time.Date(2025, time.April, d, 0, 0, 0, 0, loc) }
	seed := []Event{
		{Date: day(10), Title: "Plant Corn", Description: "North and East fields", Type: TypePlanting},
		{Date: day(12), Title: "Tractor Maintenance", Type: TypeMaintenance},
		{Date: day(15), Title: "Irrigation - South Field", Type: TypeIrrigation},
		{Date: day(18), Title: "Apply Fertilizer", Description: "All fields", Type: TypeFertilizing},
	}
	out := make([]*Event, 0, len(seed))
	for i := range seed {
		e := seed[i]
		created := now.Add(time.Duration(i) * time.Millisecond)
		e.ID = ulid.MustNew(ulid.Timestamp(created), ulid.DefaultEntropy()).String()
		e.CreatedAt = created
		e.UpdatedAt = created
		out = append(out, &e)
	}
	return out
}
