package task

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type sample struct {
	title, description string
	status             Status
	date               string
	view               ViewType
}

var samples = []sample{
	{"Check Corn Field Irrigation", "Ensure irrigation system is working properly in the north corn field", StatusPending, "2025-04-09", ViewFarmer},
	{"Apply Fertilizer to Wheat Field", "Use the nitrogen-rich fertilizer on the eastern wheat field", StatusUrgent, "2025-04-09", ViewFarmer},
	{"Repair Tractor", "Schedule maintenance for the John Deere tractor", StatusCompleted, "2025-04-08", ViewFarmer},
	{"Order New Seeds", "Place order for next season's soybean seeds", StatusPending, "2025-04-10", ViewFarmer},
	{"Review Farm Reports", "Analyze monthly performance reports for all client farms", StatusUrgent, "2025-04-14", ViewAdvisor},
	{"Prepare Client Presentations", "Create slides for quarterly review meetings", StatusPending, "2025-04-15", ViewAdvisor},
	{"Schedule Farm Visits", "Arrange site visits to three client farms", StatusPending, "2025-04-16", ViewAdvisor},
	{"Attend Agricultural Conference", "Participate in the annual agricultural technology conference", StatusPending, "2025-04-20", ViewAdvisor},
}

// Samples returns the seed tasks of a fresh session.
func Samples(now time.Time) []*Task {
	out := make([]*Task, 0, len(samples))
	for i, s := range samples {
		created := now.Add(time.Duration(i) * time.Millisecond)
		out = append(out, &Task{
			ID:          ulid.MustNew(ulid.Timestamp(created), ulid.DefaultEntropy()).String(),
			Title:       s.title,
			Description: s.description,
			Status:      s.status,
			Date:        s.date,
			ViewType:    s.view,
			CreatedAt:   created,
			UpdatedAt:   created,
		})
	}
	return out
}
