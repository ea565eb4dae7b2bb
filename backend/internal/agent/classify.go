package agent

import (
	"regexp"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/task"
)

type typeKeywords struct {
	typ     calendar.Type
	pattern *regexp.Regexp
}

// typeTable is checked in order; the first match wins. Keywords match at
// word starts, so "irrigat" covers irrigate and irrigation.
var typeTable = []typeKeywords{
	{calendar.TypePlanting, regexp.MustCompile(`(?i)\b(?:plant|seed|sow)`)},
	{calendar.TypeIrrigation, regexp.MustCompile(`(?i)\b(?:irrigat|water)`)},
	{calendar.TypeFertilizing, regexp.MustCompile(`(?i)\b(?:fertili[sz]|feed|nutrient)`)},
	{calendar.TypeHarvesting, regexp.MustCompile(`(?i)\b(?:harvest|collect|gather|pick)`)},
	{calendar.TypeMaintenance, regexp.MustCompile(`(?i)\b(?:maintenance|maintain|repair|check|inspect|fix|service)`)},
	{calendar.TypeSpraying, regexp.MustCompile(`(?i)\b(?:spray|pesticide|herbicide|fungicide)`)},
	{calendar.TypeLivestock, regexp.MustCompile(`(?i)\b(?:livestock|cattle|cow|sheep|goat|pig|poultry|herd|vet)`)},
	{calendar.TypeVisit, regexp.MustCompile(`(?i)\bvisit`)},
	{calendar.TypeMeeting, regexp.MustCompile(`(?i)\b(?:meeting|meet\b|call\s+with)`)},
	{calendar.TypeConference, regexp.MustCompile(`(?i)\b(?:conference|summit|expo)`)},
	{calendar.TypeReview, regexp.MustCompile(`(?i)\breview`)},
	{calendar.TypeTraining, regexp.MustCompile(`(?i)\b(?:training|workshop|course)`)},
	{calendar.TypeDemonstration, regexp.MustCompile(`(?i)\bdemo`)},
	{calendar.TypeReporting, regexp.MustCompile(`(?i)\breport`)},
	{calendar.TypeDelivery, regexp.MustCompile(`(?i)\b(?:deliver|shipment)`)},
	{calendar.TypeMarket, regexp.MustCompile(`(?i)\b(?:market|sell|sale)`)},
	{calendar.TypeInventory, regexp.MustCompile(`(?i)\b(?:inventory|stock|order)`)},
}

var urgentPattern = regexp.MustCompile(`(?i)urgent`)

// Classify picks the event type for a free-text description.
func Classify(text string) calendar.Type {
	for _, k := range typeTable {
		if k.pattern.MatchString(text) {
			return k.typ
		}
	}
	return calendar.TypeOther
}

func TaskStatusFor(text string) task.Status {
	if urgentPattern.MatchString(text) {
		return task.StatusUrgent
	}
	return task.StatusPending
}
