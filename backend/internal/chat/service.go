package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/agent"
	"github.com/kazz187/fieldguild/backend/internal/calendar"
	"github.com/kazz187/fieldguild/backend/internal/eventbus"
	"github.com/kazz187/fieldguild/backend/internal/llm"
	"github.com/kazz187/fieldguild/backend/internal/sessionid"
	"github.com/kazz187/fieldguild/backend/internal/task"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

const (
	// HistoryLimit is how many earlier messages are sent to the model.
	HistoryLimit = 10
	// ContextLimit caps each farm document in the prompt, in characters.
	ContextLimit = 4000
)

const SystemPrompt = `You are Agnes, a helpful and knowledgeable AI farming assistant with agentic capabilities.
Your goal is to help farmers make the best decisions for their crops and land.
You can manage the farmer's calendar events and task list. When they ask you to create, update, or delete tasks and events,
you'll take those actions automatically without asking for confirmation.

You have access to specific information about the farmer's farm through their farm knowledge base and documents.
Reference this information when answering questions about their specific farm conditions, crops, practices, etc.

Provide clear, practical advice based on farming best practices.
When you don't have specific information about a user's local conditions, acknowledge this
and give general guidance while suggesting they consult local agricultural experts.
Keep your responses concise and farmer-friendly, avoiding overly technical language.
Focus on sustainable farming practices when appropriate.`

var SuggestedQuestions = []string{
	"Tell me about my farm's soil conditions",
	"What crops am I currently growing?",
	"Add a task for fertilizing tomorrow",
	"Schedule irrigation for next Tuesday",
	"What's the recommended irrigation schedule for my farm?",
}

// Knowledge supplies the farm document and the shared knowledge base.
type Knowledge interface {
	FarmDoc(ctx context.Context) (string, error)
	KnowledgeBase(ctx context.Context) (string, error)
}

type Providers interface {
	Provider(ctx context.Context, apiKey string) (llm.Provider, error)
}

// Workspace is the per-session state a chat turn reads and writes.
type Workspace struct {
	Tasks    task.Repository
	Events   calendar.Repository
	Messages Repository
}

type WorkspaceProvider func(ctx context.Context) (*Workspace, error)

type Reply struct {
	Message *Message       `json:"message"`
	Actions []agent.Action `json:"actions"`
	Results []string       `json:"results"`
}

type Service struct {
	extractor *agent.Extractor
	knowledge Knowledge
	providers Providers
	eventBus  *eventbus.Bus
	timeout   time.Duration
	now       func() time.Time
}

func NewService(extractor *agent.Extractor, knowledge Knowledge, providers Providers, eventBus *eventbus.Bus, timeout time.Duration) *Service {
	return &Service{
		extractor: extractor,
		knowledge: knowledge,
		providers: providers,
		eventBus:  eventBus,
		timeout:   timeout,
		now:       extractor.Dates().Now,
	}
}

// Send runs one chat turn: the agent acts on the message first, then the
// model answers with the updated tasks and events in view. Agent changes
// are kept even when the model fails.
func (s *Service) Send(ctx context.Context, ws *Workspace, text, apiKey string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, cerr.NewError(cerr.InvalidArgument, "message is required", nil)
	}

	history, err := ws.Messages.List(ctx, HistoryLimit)
	if err != nil {
		return nil, err
	}
	if err := s.append(ctx, ws, NewMessage(llm.RoleUser, text, s.now())); err != nil {
		return nil, err
	}

	actions := s.extractor.Extract(text)
	exec := agent.NewExecutor(ws.Tasks, ws.Events, agent.WithExecutorClock(s.now), agent.WithEventBus(s.eventBus))
	results := exec.Execute(ctx, actions)

	reply, chatErr := s.complete(ctx, ws, history, text, apiKey)
	if chatErr != nil {
		slog.WarnContext(ctx, "chat completion failed", "error", chatErr, "actions", len(actions))
		if len(results) > 0 {
			m := NewMessage(llm.RoleAssistant, strings.Join(results, "\n"), s.now())
			m.Results = results
			if err := s.append(ctx, ws, m); err != nil {
				return nil, err
			}
		}
		return nil, withResults(llm.ToCerr(chatErr), results)
	}

	content := reply
	if len(results) > 0 {
		content = strings.Join(results, "\n")
		if strings.TrimSpace(reply) != "" {
			content += "\n\n" + reply
		}
	}
	m := NewMessage(llm.RoleAssistant, content, s.now())
	m.Results = results
	if err := s.append(ctx, ws, m); err != nil {
		return nil, err
	}
	return &Reply{Message: m, Actions: actions, Results: results}, nil
}

func (s *Service) append(ctx context.Context, ws *Workspace, m *Message) error {
	if err := ws.Messages.Append(ctx, m); err != nil {
		return err
	}
	if s.eventBus != nil {
		s.eventBus.PublishNew(eventbus.TypeChatMessage, sessionid.FromContext(ctx), m.ID, string(m.Role), nil)
	}
	return nil
}

func (s *Service) complete(ctx context.Context, ws *Workspace, history []*Message, text, apiKey string) (string, error) {
	provider, err := s.providers.Provider(ctx, apiKey)
	if err != nil {
		return "", err
	}
	prompt, err := s.Prompt(ctx, ws, history, text)
	if err != nil {
		return "", err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return provider.Chat(ctx, prompt)
}

// Prompt assembles the messages sent to the model: the assistant persona,
// farm context when available, the current tasks and events, recent history
// and the new message.
func (s *Service) Prompt(ctx context.Context, ws *Workspace, history []*Message, text string) ([]llm.Message, error) {
	prompt := []llm.Message{{Role: llm.RoleSystem, Content: SystemPrompt}}

	if farm := s.farmContext(ctx); farm != "" {
		prompt = append(prompt, llm.Message{
			Role:    llm.RoleSystem,
			Content: "Here is information about this specific farm that you should use when answering questions:\n" + farm,
		})
	}

	tasks, err := ws.Tasks.List(ctx, task.ListFilter{})
	if err != nil {
		return nil, err
	}
	events, err := ws.Events.List(ctx, calendar.ListFilter{})
	if err != nil {
		return nil, err
	}
	prompt = append(prompt, llm.Message{Role: llm.RoleSystem, Content: userContext(tasks, events)})

	for _, m := range history {
		role := llm.RoleUser
		if m.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		prompt = append(prompt, llm.Message{Role: role, Content: m.Content})
	}
	return append(prompt, llm.Message{Role: llm.RoleUser, Content: text}), nil
}

func (s *Service) farmContext(ctx context.Context) string {
	if s.knowledge == nil {
		return ""
	}
	var sources []string
	if doc, err := s.knowledge.FarmDoc(ctx); err != nil {
		slog.WarnContext(ctx, "farm document unavailable", "error", err)
	} else if doc != "" {
		sources = append(sources, "FARM DOCUMENT: "+truncate(doc, ContextLimit))
	}
	if kb, err := s.knowledge.KnowledgeBase(ctx); err != nil {
		slog.WarnContext(ctx, "knowledge base unavailable", "error", err)
	} else if kb != "" {
		sources = append(sources, "FARM KNOWLEDGE BASE: "+truncate(kb, ContextLimit))
	}
	return strings.Join(sources, "\n\n")
}

func userContext(tasks []*task.Task, events []*calendar.Event) string {
	ts := make([]string, len(tasks))
	for i, t := range tasks {
		ts[i] = fmt.Sprintf("%s (%s)", t.Title, t.Status)
	}
	es := make([]string, len(events))
	for i, e := range events {
		es[i] = fmt.Sprintf("%s on %s", e.Title, e.Date.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("Current user context:\n- Tasks: %s\n- Events: %s", strings.Join(ts, ", "), strings.Join(es, ", "))
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func withResults(err error, results []string) error {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		return err
	}
	for _, r := range results {
		ce.AddDetailMessage(r)
	}
	return ce
}
