package agent

import (
	"regexp"

	"github.com/kazz187/fieldguild/backend/internal/task"
)

const (
	taskVerbs   = `delete|remove|cancel|drop`
	eventVerbs  = `delete|remove|cancel`
	moveVerbs   = `reschedule|postpone|move|push|shift`
	statusVerbs = `mark|make|set|flag`
)

var (
	taskPhrase      = regexp.MustCompile(`(?i)\b(?:tasks?|to-?dos?)\b`)
	deletePhrase    = regexp.MustCompile(`(?i)\b(?:delete|remove|cancel|clear)\b`)
	addTaskVerb     = regexp.MustCompile(`(?i)\b(?:add|create|new)\b(?:\s+(?:a|an|another|new|urgent))*\s+task\b`)
	taskIntro       = regexp.MustCompile(`(?i)\btask\s+(?:for|to|called|named|titled|about|on)\s+\S`)
	otherTaskIntent = regexp.MustCompile(`(?i)\b(?:delete|remove|cancel|drop|complete|completed|finish|finished|done|mark|set|make|flag|list|show|what)\b`)
	taskTitle       = regexp.MustCompile(`(?i)\btask\b\s*(?:(?:called|named|titled|for|to|about|on)\b)?\s*[:\-]?\s*(.*)$`)

	clauseBreak   = regexp.MustCompile(`(?i),?\s+and\s+(?:then\s+)?(schedule|add|create|plan|book|remind|show|list|set\s+up|arrange|put)\b`)
	calendarVerb  = regexp.MustCompile(`(?i)\b(?:schedule|add|create|set\s+up|plan|book|arrange|remind|calendar)\b`)
	eventTitle    = regexp.MustCompile(`(?i)\b(?:schedule|add|create|set\s+up|plan|book|arrange|put|remind(?:\s+me)?(?:\s+(?:to|about|of))?)\s+(.+)$`)
	questionStart = regexp.MustCompile(`(?i)^(?:what|when|where|why|how|which|who|is|are|do|does|did|should|shall|can|could|would|will|may)\b`)
	politeRequest = regexp.MustCompile(`(?i)^(?:(?:can|could|would|will)\s+you\s+)?(?:please\s+)?(?:schedule|add|create|set\s+up|plan|book|arrange|remind|put)\b`)

	completeTrigger = regexp.MustCompile(`(?i)\b(?:complete|finish)(?:ed)?\b[^.?!]*\btasks?\b|\bmark\b[^.?!]*\b(?:complete|completed|done|finished)\b|\btasks?\b[^.?!]*\b(?:completed|done|finished)\b`)
	deleteTask      = regexp.MustCompile(`(?i)\b(?:` + taskVerbs + `)\b[^.?!]*\btasks?\b`)
	updateTask      = regexp.MustCompile(`(?i)\b(?:` + statusVerbs + `)\b[^.?!]*\b(?:urgent|pending)\b`)
	notUrgent       = regexp.MustCompile(`(?i)\bnot\s+urgent\b|\bpending\b`)
	deleteEvent     = regexp.MustCompile(`(?i)\b(?:` + eventVerbs + `)\b[^.?!]*\b(?:events?|calendar|appointments?|meetings?|visits?)\b`)
	updateEvent     = regexp.MustCompile(`(?i)\b(?:` + moveVerbs + `)\b[^.?!]*\b(?:to|until|till)\b`)
	moveTarget      = regexp.MustCompile(`(?i)\b(?:to|until|till)\s+`)

	listTasks  = regexp.MustCompile(`(?i)\b(?:list|show|display|view|see|check)\b(?:\s+(?:me|all|of|my|the|our|current|pending|open|upcoming|today's|overdue))*\s+(?:tasks|task\s+list|to-?dos?)\b|\bwhat\s+(?:are|is)\s+(?:my|the|our)\s+(?:tasks|to-?dos?)\b|\bwhat\s+tasks\b|\bwhat\s+do\s+i\s+(?:need|have)\s+to\s+do\b`)
	listEvents = regexp.MustCompile(`(?i)\b(?:list|show|display|view|see|check)\b(?:\s+(?:me|all|of|my|the|our|upcoming|scheduled|next|today's))*\s+(?:events|calendar|schedule)\b|\bwhat(?:'s|\s+is)\s+(?:on\s+)?(?:my|the|our)\s+(?:calendar|schedule)\b|\bwhat\s+(?:events|is\s+scheduled|is\s+coming\s+up)\b|\bupcoming\s+events\b`)
)

var (
	completeFragment = fragmentSpec{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bmark\s+(.+?)\s+(?:as\s+)?(?:complete|completed|done|finished)\b`),
			regexp.MustCompile(`(?i)\b(?:complete|finish)(?:ed)?\s+(?:the\s+|my\s+)?(?:task\s+)?(?:(?:called|named|titled|for)\s+)?(.+)$`),
			regexp.MustCompile(`(?i)^(?:the\s+)?(.+?)\s+task\s+(?:is\s+|was\s+|has\s+been\s+)?(?:completed|done|finished)\b`),
			regexp.MustCompile(`(?i)\btask\s+(?:is\s+)?(?:completed|done|finished)\s*[:\-]?\s*(.+)$`),
		},
		fallback: regexp.MustCompile(`(?i)\b(?:complete|finish|mark)(?:ed)?\s+(?:(?:the|my|a|an)\s+)?(\w[\w'-]*)`),
	}
	deleteTaskFragment = fragmentSpec{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:` + taskVerbs + `)\s+(.+?)\s+from\s+(?:the\s+|my\s+)?(?:task\s*list|tasks|to-?do\s*list)\b`),
			regexp.MustCompile(`(?i)\b(?:` + taskVerbs + `)\s+(?:the\s+|my\s+)?task\s+(?:(?:called|named|titled|for|about)\s+)?(.+)$`),
			regexp.MustCompile(`(?i)\b(?:` + taskVerbs + `)\s+(.+?)\s+task\b`),
		},
		fallback: regexp.MustCompile(`(?i)\b(?:` + taskVerbs + `)\s+(?:(?:the|my|a|an)\s+)?(\w[\w'-]*)`),
	}
	updateTaskFragment = fragmentSpec{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:` + statusVerbs + `)\s+(.+?)\s+(?:(?:as|to)\s+)?(?:not\s+urgent|urgent|pending)\b`),
		},
		fallback: regexp.MustCompile(`(?i)\b(?:` + statusVerbs + `)\s+(?:(?:the|my|a|an)\s+)?(\w[\w'-]*)`),
	}
	deleteEventFragment = fragmentSpec{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:` + eventVerbs + `)\s+(.+?)\s+(?:from|on|in|off)\s+(?:the\s+|my\s+)?(?:calendar|schedule)\b`),
			regexp.MustCompile(`(?i)\b(?:` + eventVerbs + `)\s+(?:the\s+|my\s+)?(?:event|appointment)\s+(?:(?:called|named|titled|for|about)\s+)?(.+)$`),
			regexp.MustCompile(`(?i)\b(?:` + eventVerbs + `)\s+(.+?)\s+(?:event|appointment)\b`),
		},
		fallback: regexp.MustCompile(`(?i)\b(?:` + eventVerbs + `)\s+(?:(?:the|my|a|an)\s+)?(\w[\w'-]*)`),
	}
	updateEventFragment = fragmentSpec{
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:` + moveVerbs + `)\s+(?:back\s+)?(.+?)\s+(?:to|until|till)\s+`),
		},
	}
)

// DefaultRules is the ordered rule table used by NewExtractor.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "add_event", Type: ActionAddEvent, Match: matchAddEvent, Build: buildAddEvent},
		{Name: "add_task", Type: ActionAddTask, Match: matchAddTask, Build: buildAddTask},
		{Name: "complete_task", Type: ActionCompleteTask, Match: matchCompleteTask, Build: fragmentBuilder(ActionCompleteTask, completeFragment)},
		{Name: "delete_task", Type: ActionDeleteTask, Match: deleteTask.MatchString, Build: fragmentBuilder(ActionDeleteTask, deleteTaskFragment)},
		{Name: "update_task", Type: ActionUpdateTask, Match: matchUpdateTask, Build: buildUpdateTask},
		{Name: "delete_event", Type: ActionDeleteEvent, Match: matchDeleteEvent, Build: fragmentBuilder(ActionDeleteEvent, deleteEventFragment)},
		{Name: "update_event", Type: ActionUpdateEvent, Match: matchUpdateEvent, Build: buildUpdateEvent},
		{Name: "list_tasks", Type: ActionListTasks, Match: listTasks.MatchString, Build: constBuilder(ActionListTasks)},
		{Name: "list_events", Type: ActionListEvents, Match: listEvents.MatchString, Build: constBuilder(ActionListEvents)},
	}
}

// isBareQuestion is true for questions that are not polite requests, so
// "what's the irrigation schedule?" does not create an event while "can you
// schedule irrigation?" does.
func isBareQuestion(msg string) bool {
	return questionStart.MatchString(msg) && !politeRequest.MatchString(msg)
}

// clauses splits msg before each "and <verb>" that starts another request,
// so "add a task to buy feed and schedule harvesting" reads as two clauses.
func clauses(msg string) []string {
	var out []string
	start := 0
	for _, loc := range clauseBreak.FindAllStringSubmatchIndex(msg, -1) {
		out = append(out, msg[start:loc[0]])
		start = loc[2]
	}
	return append(out, msg[start:])
}

func eventClause(msg string) (string, bool) {
	for _, c := range clauses(msg) {
		if calendarVerb.MatchString(c) &&
			!taskPhrase.MatchString(c) &&
			!deletePhrase.MatchString(c) &&
			!listTasks.MatchString(c) &&
			!listEvents.MatchString(c) &&
			!updateEvent.MatchString(c) &&
			!isBareQuestion(c) {
			return c, true
		}
	}
	return "", false
}

func matchAddEvent(msg string) bool {
	_, ok := eventClause(msg)
	return ok
}

func buildAddEvent(msg string, dates *DateResolver) (Action, bool) {
	c, ok := eventClause(msg)
	if !ok {
		return Action{}, false
	}
	typ := Classify(c)
	title := quoted(c)
	if title == "" {
		if m := eventTitle.FindStringSubmatch(c); m != nil {
			title = cleanEventTitle(m[1])
		}
	}
	if title == "" {
		title = typ.Label()
	}
	return Action{
		Type: ActionAddEvent,
		Event: &EventParams{
			Title: title,
			Date:  dates.ResolveOr(c, 1),
			Type:  typ,
		},
	}, true
}

func taskClause(msg string) (string, bool) {
	for _, c := range clauses(msg) {
		if addTaskVerb.MatchString(c) || (taskIntro.MatchString(c) && !otherTaskIntent.MatchString(c)) {
			return c, true
		}
	}
	return "", false
}

func matchAddTask(msg string) bool {
	_, ok := taskClause(msg)
	return ok
}

// buildAddTask reads title and date from the task clause; urgency applies
// to the whole message.
func buildAddTask(msg string, dates *DateResolver) (Action, bool) {
	c, ok := taskClause(msg)
	if !ok {
		return Action{}, false
	}
	title := quoted(c)
	if title == "" {
		if m := taskTitle.FindStringSubmatch(c); m != nil {
			title = cleanTaskTitle(m[1])
		}
	}
	if title == "" {
		return Action{}, false
	}
	return Action{
		Type: ActionAddTask,
		Task: &TaskParams{
			Title:  title,
			Date:   dates.ResolveOr(c, 0).Format(task.DateLayout),
			Status: TaskStatusFor(msg),
		},
	}, true
}

func matchCompleteTask(msg string) bool {
	return completeTrigger.MatchString(msg) && !addTaskVerb.MatchString(msg) && !deletePhrase.MatchString(msg)
}

func matchUpdateTask(msg string) bool {
	return updateTask.MatchString(msg) && !addTaskVerb.MatchString(msg)
}

func buildUpdateTask(msg string, _ *DateResolver) (Action, bool) {
	frag := updateTaskFragment.extract(msg)
	if frag == "" {
		return Action{}, false
	}
	status := task.StatusUrgent
	if notUrgent.MatchString(msg) {
		status = task.StatusPending
	}
	return Action{Type: ActionUpdateTask, Fragment: frag, Task: &TaskParams{Status: status}}, true
}

func matchDeleteEvent(msg string) bool {
	return deleteEvent.MatchString(msg) && !taskPhrase.MatchString(msg)
}

func matchUpdateEvent(msg string) bool {
	return updateEvent.MatchString(msg) && !taskPhrase.MatchString(msg)
}

// buildUpdateEvent reads the target date after the last "to", so the old
// date in "move the April 12 visit to April 14" is ignored.
func buildUpdateEvent(msg string, dates *DateResolver) (Action, bool) {
	locs := moveTarget.FindAllStringIndex(msg, -1)
	if len(locs) == 0 {
		return Action{}, false
	}
	date, ok := dates.Resolve(msg[locs[len(locs)-1][1]:])
	if !ok {
		return Action{}, false
	}
	frag := updateEventFragment.extract(msg)
	if frag == "" {
		return Action{}, false
	}
	return Action{Type: ActionUpdateEvent, Fragment: frag, Event: &EventParams{Date: date}}, true
}

func fragmentBuilder(typ ActionType, spec fragmentSpec) func(string, *DateResolver) (Action, bool) {
	return func(msg string, _ *DateResolver) (Action, bool) {
		frag := spec.extract(msg)
		if frag == "" {
			return Action{}, false
		}
		return Action{Type: typ, Fragment: frag}, true
	}
}

func constBuilder(typ ActionType) func(string, *DateResolver) (Action, bool) {
	return func(string, *DateResolver) (Action, bool) {
		return Action{Type: typ}, true
	}
}
