package agent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

const monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var (
	todayPattern    = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowPattern = regexp.MustCompile(`(?i)\btomorrow\b`)
	nextWeekPattern = regexp.MustCompile(`(?i)\bnext\s+week\b`)
	weekdayPattern  = regexp.MustCompile(`(?i)\b(?:(next|this|on)\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	monthDayPattern = regexp.MustCompile(`(?i)\b(` + monthNames + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	numericPattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
)

// datePatterns lists every phrase the resolver understands, for stripping
// them out of titles.
var datePatterns = []*regexp.Regexp{
	nextWeekPattern,
	todayPattern,
	tomorrowPattern,
	weekdayPattern,
	monthDayPattern,
	numericPattern,
}

// DateResolver turns relative date phrases into calendar days at local
// midnight of the clock's location.
type DateResolver struct {
	Now func() time.Time
}

func NewDateResolver(now func() time.Time) *DateResolver {
	if now == nil {
		now = time.Now
	}
	return &DateResolver{Now: now}
}

// Today is the current day at midnight.
func (r *DateResolver) Today() time.Time {
	return midnight(r.Now())
}

// Resolve finds the highest priority date phrase in text.
func (r *DateResolver) Resolve(text string) (time.Time, bool) {
	today := r.Today()
	switch {
	case todayPattern.MatchString(text):
		return today, true
	case tomorrowPattern.MatchString(text):
		return today.AddDate(0, 0, 1), true
	case nextWeekPattern.MatchString(text):
		return today.AddDate(0, 0, 7), true
	}
	if m := weekdayPattern.FindStringSubmatch(text); m != nil {
		wd := weekdays[strings.ToLower(m[2])]
		if strings.EqualFold(m[1], "this") && wd == today.Weekday() {
			return today, true
		}
		return nextWeekday(today, wd), true
	}
	for _, m := range monthDayPattern.FindAllStringSubmatch(text, -1) {
		month := months[strings.ToLower(m[1])[:3]]
		day, _ := strconv.Atoi(m[2])
		if d, ok := dayInYear(today, month, day, 0); ok {
			return d, true
		}
	}
	for _, m := range numericPattern.FindAllStringSubmatch(text, -1) {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			continue
		}
		year := 0
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		if d, ok := dayInYear(today, time.Month(month), day, year); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// ResolveOr falls back to today plus offsetDays when no phrase matches.
func (r *DateResolver) ResolveOr(text string, offsetDays int) time.Time {
	if d, ok := r.Resolve(text); ok {
		return d
	}
	return r.Today().AddDate(0, 0, offsetDays)
}

// StripDates removes every date phrase from s.
func StripDates(s string) string {
	for _, p := range datePatterns {
		s = p.ReplaceAllString(s, " ")
	}
	return collapseSpaces(s)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// nextWeekday never returns today; the same weekday rolls a full week.
func nextWeekday(today time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(today.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return today.AddDate(0, 0, delta)
}

// dayInYear builds month/day in year. With year 0 the current year is used
// and a day strictly before today rolls to next year.
func dayInYear(today time.Time, month time.Month, day, year int) (time.Time, bool) {
	explicit := year != 0
	if !explicit {
		year = today.Year()
	}
	d, ok := validDate(year, month, day, today.Location())
	if !ok {
		if explicit {
			return time.Time{}, false
		}
		// Feb 29 outside a leap year may still exist next year.
		d, ok = validDate(year+1, month, day, today.Location())
		if !ok {
			return time.Time{}, false
		}
		return d, true
	}
	if !explicit && d.Before(today) {
		return validDate(year+1, month, day, today.Location())
	}
	return d, true
}

func validDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
