package notification

import (
	"strings"
	"time"
)

type Type string

const (
	TypeAdvisor        Type = "advisor"
	TypeOrder          Type = "order"
	TypeRecommendation Type = "recommendation"
	TypeWeather        Type = "weather"
	TypeSystem         Type = "system"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAdvisor, TypeOrder, TypeRecommendation, TypeWeather, TypeSystem:
		return true
	}
	return false
}

// ViewType is the dashboard a notification is shown on.
type ViewType string

const (
	ViewFarmer  ViewType = "farmer"
	ViewAdvisor ViewType = "advisor"
)

func (v ViewType) Valid() bool {
	return v == "" || v == ViewFarmer || v == ViewAdvisor
}

type Notification struct {
	ID             string    `yaml:"id" json:"id"`
	Type           Type      `yaml:"type" json:"type"`
	Title          string    `yaml:"title" json:"title"`
	Message        string    `yaml:"message" json:"message"`
	Date           time.Time `yaml:"date" json:"date"`
	Read           bool      `yaml:"read" json:"read"`
	ActionRequired bool      `yaml:"action_required,omitempty" json:"actionRequired,omitempty"`
	ActionText     string    `yaml:"action_text,omitempty" json:"actionText,omitempty"`
	ViewType       ViewType  `yaml:"view_type,omitempty" json:"viewType,omitempty"`
}

// VisibleTo reports whether n belongs on view. Untargeted notifications
// show everywhere.
func (n *Notification) VisibleTo(v ViewType) bool {
	return v == "" || n.ViewType == "" || n.ViewType == v
}

func (n *Notification) Contains(q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Message), q)
}
