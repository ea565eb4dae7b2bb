package agent

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rule pairs a trigger with the builder of its action. Build may still
// decline, e.g. when no title survives cleanup.
type Rule struct {
	Name  string
	Type  ActionType
	Match func(msg string) bool
	Build func(msg string, dates *DateResolver) (Action, bool)
}

// Extractor turns a chat message into actions. It does no I/O.
type Extractor struct {
	rules []Rule
	dates *DateResolver
}

type ExtractorOption func(*Extractor)

func WithClock(now func() time.Time) ExtractorOption {
	return func(x *Extractor) {
		x.dates = NewDateResolver(now)
	}
}

func WithRules(rules []Rule) ExtractorOption {
	return func(x *Extractor) {
		x.rules = rules
	}
}

func NewExtractor(opts ...ExtractorOption) *Extractor {
	x := &Extractor{
		rules: DefaultRules(),
		dates: NewDateResolver(time.Now),
	}
	for _, o := range opts {
		o(x)
	}
	return x
}

func (x *Extractor) Dates() *DateResolver {
	return x.dates
}

// Extract runs every rule in order. Rules are independent, so one message
// may yield several actions. The result is never nil.
func (x *Extractor) Extract(message string) []Action {
	actions := make([]Action, 0)
	msg := collapseSpaces(message)
	if msg == "" {
		return actions
	}
	for _, r := range x.rules {
		if !r.Match(msg) {
			continue
		}
		if a, ok := r.Build(msg, x.dates); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

const trimCutset = " .,!?;:\"'“”()"

var (
	quotedPattern  = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|(?:^|\s)'([^']+)'(?:[\s.,!?;:]|$)`)
	sentenceStop   = regexp.MustCompile(`[.!?;,](?:\s|$)`)
	calendarScope  = regexp.MustCompile(`(?i)\s+(?:to|on|in|into|onto)\s+(?:the\s+|my\s+|our\s+)?(?:calendar|schedule)\b.*$`)
	fragmentScope  = regexp.MustCompile(`(?i)\s+(?:from|on|in|off|to)\s+(?:the\s+|my\s+|our\s+)?(?:calendar|schedule|task\s*list|tasks|to-?do\s*list)\b.*$`)
	timePhrase     = regexp.MustCompile(`(?i)\b(?:at|@)\s*\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b|\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b|\b(?:in\s+the\s+)?(?:morning|afternoon|evening)\b|\bnoon\b`)
	urgencyWords   = regexp.MustCompile(`(?i)\b(?:urgent(?:ly)?|asap|high\s+priority)\b`)
	taskLeading    = regexp.MustCompile(`(?i)^(?:(?:a|an|the|called|named|titled|for|about|to|on)\s+|[:\-]\s*)`)
	eventLeading   = regexp.MustCompile(`(?i)^(?:(?:a|an|the|new|calendar|event|appointment|reminder|called|named|titled|for|about|to|on)\s+|[:\-]\s*)`)
	titleTrailing  = regexp.MustCompile(`(?i)\s+(?:for|on|at|by|due|this|next|in|to|from|and|the|before|until|of)$`)
	fragLeading    = regexp.MustCompile(`(?i)^(?:(?:the|a|an|my|our|this|that)\s+|(?:tasks?|events?)\s+(?:(?:called|named|titled|for|about)\s+)?)`)
	fragTrailing   = regexp.MustCompile(`(?i)\s+(?:tasks?|events?|as|please|now|for|on|at|by|to|from)$`)
	fragmentFiller = map[string]bool{
		"task": true, "tasks": true, "event": true, "events": true,
		"it": true, "this": true, "that": true, "all": true, "as": true,
		"the": true, "my": true, "a": true, "an": true,
	}
)

// quoted returns the first quoted span of s.
func quoted(s string) string {
	m := quotedPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if t := strings.TrimSpace(g); t != "" {
			return t
		}
	}
	return ""
}

// trimRepeatedly applies the leading and trailing filters until s stops
// changing.
func trimRepeatedly(s string, leading, trailing *regexp.Regexp) string {
	s = strings.Trim(s, trimCutset)
	for {
		prev := s
		s = strings.Trim(leading.ReplaceAllString(s, ""), trimCutset)
		s = strings.Trim(trailing.ReplaceAllString(s, ""), trimCutset)
		if s == prev {
			return s
		}
	}
}

func cleanTitle(s string, leading *regexp.Regexp) string {
	if loc := sentenceStop.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = calendarScope.ReplaceAllString(s, "")
	s = StripDates(s)
	s = timePhrase.ReplaceAllString(s, " ")
	return trimRepeatedly(collapseSpaces(s), leading, titleTrailing)
}

func cleanTaskTitle(s string) string {
	return cleanTitle(collapseSpaces(urgencyWords.ReplaceAllString(s, " ")), taskLeading)
}

func cleanEventTitle(s string) string {
	s = cleanTitle(s, eventLeading)
	if fragmentFiller[strings.ToLower(s)] {
		return ""
	}
	return capitalize(s)
}

func cleanFragment(s string) string {
	s = fragmentScope.ReplaceAllString(s, "")
	s = StripDates(s)
	s = trimRepeatedly(s, fragLeading, fragTrailing)
	if fragmentFiller[strings.ToLower(s)] {
		return ""
	}
	return s
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// fragmentSpec finds the item an action refers to. Quoted text wins, then
// each capture pattern in order, then the first word after the verb.
type fragmentSpec struct {
	patterns []*regexp.Regexp
	fallback *regexp.Regexp
}

func (f fragmentSpec) extract(msg string) string {
	if q := quoted(msg); q != "" {
		return q
	}
	for _, p := range f.patterns {
		if m := p.FindStringSubmatch(msg); m != nil {
			if frag := cleanFragment(m[1]); frag != "" {
				return frag
			}
		}
	}
	if f.fallback != nil {
		if m := f.fallback.FindStringSubmatch(msg); m != nil {
			return cleanFragment(m[1])
		}
	}
	return ""
}
