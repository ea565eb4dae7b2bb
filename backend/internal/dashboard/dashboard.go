package dashboard

import (
	"context"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/notification"
	"github.com/kazz187/fieldguild/backend/internal/task"
)

// UpcomingWindow bounds the events listed in the summary.
const UpcomingWindow = 7 * 24 * time.Hour

type Condition string

const (
	ConditionSunny        Condition = "sunny"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionRainy        Condition = "rainy"
)

type CurrentWeather struct {
	Condition     Condition `json:"condition"`
	Temperature   int       `json:"temperature"`
	Humidity      int       `json:"humidity"`
	WindSpeed     int       `json:"windSpeed"`
	Precipitation int       `json:"precipitation"`
}

type Forecast struct {
	Day           string    `json:"day"`
	Date          string    `json:"date"`
	Condition     Condition `json:"condition"`
	HighTemp      int       `json:"highTemp"`
	LowTemp       int       `json:"lowTemp"`
	Precipitation int       `json:"precipitation"`
}

type Weather struct {
	Current   CurrentWeather `json:"current"`
	Forecast  []Forecast     `json:"forecast"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type Health string

const (
	HealthGood    Health = "good"
	HealthWarning Health = "warning"
	HealthAlert   Health = "alert"
)

type MoistureBand string

const (
	MoistureGood MoistureBand = "good"
	MoistureFair MoistureBand = "fair"
	MoistureLow  MoistureBand = "low"
)

// Band classifies a soil moisture percentage.
func Band(moisture int) MoistureBand {
	switch {
	case moisture >= 65:
		return MoistureGood
	case moisture >= 45:
		return MoistureFair
	}
	return MoistureLow
}

type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Field struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Crop         string       `json:"crop"`
	SoilMoisture int          `json:"soilMoisture"`
	MoistureBand MoistureBand `json:"moistureBand"`
	GrowthStage  string       `json:"growthStage"`
	LastAction   string       `json:"lastAction"`
	Health       Health       `json:"healthStatus"`
	Alerts       []Alert      `json:"alerts,omitempty"`
}

// SampleWeather returns the demo weather report with a three day forecast
// starting tomorrow.
func SampleWeather(now time.Time) *Weather {
	type day struct {
		cond          Condition
		high, low, pp int
	}
	days := []day{
		{ConditionSunny, 21, 12, 0},
		{ConditionCloudy, 19, 11, 10},
		{ConditionRainy, 16, 10, 80},
	}
	w := &Weather{
		Current: CurrentWeather{
			Condition:     ConditionPartlyCloudy,
			Temperature:   18,
			Humidity:      65,
			WindSpeed:     12,
			Precipitation: 20,
		},
		UpdatedAt: time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, now.Location()),
	}
	for i, d := range days {
		date := now.AddDate(0, 0, i+1)
		name := date.Weekday().String()
		if i == 0 {
			name = "Tomorrow"
		}
		w.Forecast = append(w.Forecast, Forecast{
			Day:           name,
			Date:          date.Format(task.DateLayout),
			Condition:     d.cond,
			HighTemp:      d.high,
			LowTemp:       d.low,
			Precipitation: d.pp,
		})
	}
	return w
}

// SampleFields returns the demo field status cards.
func SampleFields() []*Field {
	fields := []*Field{
		{ID: "field1", Name: "North Field", Crop: "Corn", SoilMoisture: 72, GrowthStage: "Vegetative", LastAction: "Irrigation (3 days ago)", Health: HealthGood},
		{ID: "field2", Name: "East Field", Crop: "Wheat", SoilMoisture: 45, GrowthStage: "Ripening", LastAction: "Fertilizer (1 week ago)", Health: HealthWarning,
			Alerts: []Alert{{Type: "moisture", Message: "Soil moisture below optimal level"}}},
		{ID: "field3", Name: "South Field", Crop: "Soybeans", SoilMoisture: 68, GrowthStage: "Flowering", LastAction: "Pest control (5 days ago)", Health: HealthAlert,
			Alerts: []Alert{{Type: "pests", Message: "Possible aphid infestation detected"}}},
	}
	for _, f := range fields {
		f.MoistureBand = Band(f.SoilMoisture)
	}
	return fields
}

type Workspace struct {
	Tasks         task.Repository
	Events        calendar.Repository
	Notifications notification.Repository
}

type WorkspaceProvider func(ctx context.Context) (*Workspace, error)

type Summary struct {
	Tasks          task.Buckets      `json:"tasks"`
	UpcomingEvents []*calendar.Event `json:"upcomingEvents"`
	UnreadCount    int               `json:"unreadCount"`
	Date           string            `json:"date"`
}

// Summarize builds the dashboard overview for view as of now.
func Summarize(ctx context.Context, ws *Workspace, view task.ViewType, now time.Time) (*Summary, error) {
	tasks, err := ws.Tasks.List(ctx, task.ListFilter{ViewType: view})
	if err != nil {
		return nil, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, err := ws.Events.List(ctx, calendar.ListFilter{From: today, To: today.Add(UpcomingWindow)})
	if err != nil {
		return nil, err
	}
	unread, err := notification.UnreadCount(ctx, ws.Notifications, notification.ViewType(view))
	if err != nil {
		return nil, err
	}
	return &Summary{
		Tasks:          task.Bucket(tasks, today),
		UpcomingEvents: events,
		UnreadCount:    unread,
		Date:           today.Format(task.DateLayout),
	}, nil
}
