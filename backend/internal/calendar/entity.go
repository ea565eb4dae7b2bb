package calendar

import (
	"strings"
	"time"
)

type Type string

const (
	TypePlanting      Type = "planting"
	TypeIrrigation    Type = "irrigation"
	TypeFertilizing   Type = "fertilizing"
	TypeHarvesting    Type = "harvesting"
	TypeMaintenance   Type = "maintenance"
	TypeVisit         Type = "visit"
	TypeMeeting       Type = "meeting"
	TypeConference    Type = "conference"
	TypeReview        Type = "review"
	TypeTraining      Type = "training"
	TypeDemonstration Type = "demonstration"
	TypeReporting     Type = "reporting"
	TypeDelivery      Type = "delivery"
	TypeMarket        Type = "market"
	TypeSpraying      Type = "spraying"
	TypeLivestock     Type = "livestock"
	TypeInventory     Type = "inventory"
	TypeOther         Type = "other"
)

var types = map[Type]string{
	TypePlanting:      "Planting",
	TypeIrrigation:    "Irrigation",
	TypeFertilizing:   "Fertilizing",
	TypeHarvesting:    "Harvesting",
	TypeMaintenance:   "Maintenance",
	TypeVisit:         "Farm Visit",
	TypeMeeting:       "Meeting",
	TypeConference:    "Conference",
	TypeReview:        "Review",
	TypeTraining:      "Training",
	TypeDemonstration: "Demonstration",
	TypeReporting:     "Reporting",
	TypeDelivery:      "Delivery",
	TypeMarket:        "Market",
	TypeSpraying:      "Spraying",
	TypeLivestock:     "Livestock",
	TypeInventory:     "Inventory",
	TypeOther:         "Farm Event",
}

func (t Type) Valid() bool {
	_, ok := types[t]
	return ok
}

// Label is the generic title used when an event has no better one.
func (t Type) Label() string {
	if l, ok := types[t]; ok {
		return l
	}
	return types[TypeOther]
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case "", StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Event struct {
	ID          string    `yaml:"id" json:"id"`
	Date        time.Time `yaml:"date" json:"date"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Type        Type      `yaml:"type" json:"type"`
	Status      Status    `yaml:"status,omitempty" json:"status,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updatedAt"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Date        *time.Time `json:"date,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Type        *Type      `json:"type,omitempty"`
	Status      *Status    `json:"status,omitempty"`
}

func (p *Patch) Apply(e *Event) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		e.Description = strings.TrimSpace(*p.Description)
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
}
