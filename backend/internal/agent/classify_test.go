package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kazz187/fieldguild/backend/internal/agent"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/task"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want calendar.Type
	}{
		{"Plant corn in the north field", calendar.TypePlanting},
		{"Sow the winter wheat", calendar.TypePlanting},
		{"Schedule irrigation for next Tuesday", calendar.TypeIrrigation},
		{"Water the orchard", calendar.TypeIrrigation},
		{"Apply nutrients to the beds", calendar.TypeFertilizing},
		{"Harvest the tomatoes", calendar.TypeHarvesting},
		{"Tractor maintenance", calendar.TypeMaintenance},
		{"Inspect the fences", calendar.TypeMaintenance},
		{"Spray fungicide on the vines", calendar.TypeSpraying},
		{"Vaccinate the cattle", calendar.TypeLivestock},
		{"Farm visit with the advisor", calendar.TypeVisit},
		{"Meeting with the co-op board", calendar.TypeMeeting},
		{"Regional agriculture conference", calendar.TypeConference},
		{"Quarterly yield review", calendar.TypeReview},
		{"Drone training workshop", calendar.TypeTraining},
		{"Cover crop demonstration", calendar.TypeDemonstration},
		{"Send the soil report", calendar.TypeReporting},
		{"Fertilizer delivery", calendar.TypeFertilizing},
		{"Diesel delivery", calendar.TypeDelivery},
		{"Farmers market stall", calendar.TypeMarket},
		{"Count inventory in the barn", calendar.TypeInventory},
		{"Birthday party", calendar.TypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, agent.Classify(tt.text))
		})
	}
}

func TestClassifyMatchesWordStarts(t *testing.T) {
	// "replant" does not start with "plant", "implementation" has no keyword.
	assert.Equal(t, calendar.TypeOther, agent.Classify("replant nothing, implementation notes"))
}

func TestTaskStatusFor(t *testing.T) {
	assert.Equal(t, task.StatusUrgent, agent.TaskStatusFor("Add an URGENT task"))
	assert.Equal(t, task.StatusUrgent, agent.TaskStatusFor("this is urgently needed"))
	assert.Equal(t, task.StatusPending, agent.TaskStatusFor("Add a task"))
}
