package notification

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Samples returns the seed notifications of a fresh session, dated
// relative to now.
func Samples(now time.Time) []*Notification {
	seed := []Notification{
		{
			Type:           TypeAdvisor,
			Title:          "Message from your Agrifirm advisor",
			Message:        "Hi there! I've looked at your recent crop data and wanted to schedule a visit next week to discuss your winter wheat plans. Are you available on Tuesday afternoon?",
			Date:           now.Add(-48 * time.Hour),
			ActionRequired: true,
			ActionText:     "Reply",
		},
		{
			Type:           TypeOrder,
			Title:          "Fertilizer restock recommended",
			Message:        "I've noticed your nitrogen fertilizer is running low (15% remaining). I recommend ordering 500kg of AgriNitro Plus to be delivered by next Friday. This should cover your needs for the next planting cycle.",
			Date:           now.Add(-12 * time.Hour),
			ActionRequired: true,
			ActionText:     "Approve Order",
		},
		{
			Type:           TypeRecommendation,
			Title:          "Soil analysis completed",
			Message:        "Your recent soil samples indicate low nitrogen levels in fields 3 and 4. I recommend applying AgriBoost N+ fertilizer within the next 10 days for optimal results. Would you like me to create a treatment plan?",
			Date:           now.Add(-36 * time.Hour),
			ActionRequired: true,
			ActionText:     "Create Plan",
		},
		{
			Type:    TypeAdvisor,
			Title:   "Weather alert from advisor",
			Message: "A period of heavy rain is expected next week. Consider adjusting your irrigation schedule for fields 1 and 2 to prevent oversaturation. I've attached a revised schedule for your review.",
			Date:    now.Add(-8 * time.Hour),
		},
	}
	out := make([]*Notification, 0, len(seed))
	for i := range seed {
		n := seed[i]
		n.ID = ulid.MustNew(ulid.Timestamp(n.Date), ulid.DefaultEntropy()).String()
		n.ViewType = ViewFarmer
		out = append(out, &n)
	}
	return out
}
