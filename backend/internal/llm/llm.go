// Package llm talks to the chat model behind the assistant.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/pkg/cerr"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Provider answers a conversation with one reply.
type Provider interface {
	Name() string
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Sampling settings shared by every remote provider.
const (
	Temperature = 0.7
	MaxTokens   = 1000
	TopK        = 40
)

var (
	ErrNoAPIKey       = errors.New("llm: api key is not configured")
	ErrInvalidAPIKey  = errors.New("llm: invalid api key")
	ErrRateLimited    = errors.New("llm: rate limited")
	ErrContextTooLong = errors.New("llm: context too long")
)

// ToCerr converts a provider error into an API error.
func ToCerr(err error) error {
	if err == nil {
		return nil
	}
	var ce *cerr.Error
	if errors.As(err, &ce) {
		return err
	}
	switch {
	case errors.Is(err, ErrNoAPIKey):
		return cerr.NewError(cerr.FailedPrecondition, "no language model API key is configured", err)
	case errors.Is(err, ErrInvalidAPIKey):
		return cerr.NewError(cerr.Unauthenticated, "the language model API key was rejected", err)
	case errors.Is(err, ErrRateLimited):
		return cerr.NewError(cerr.ResourceExhausted, "the language model is rate limited, try again later", err)
	case errors.Is(err, ErrContextTooLong):
		return cerr.NewError(cerr.InvalidArgument, "the conversation is too long for the language model", err)
	case errors.Is(err, context.DeadlineExceeded):
		return cerr.NewError(cerr.DeadlineExceeded, "the language model did not answer in time", err)
	case errors.Is(err, context.Canceled):
		return cerr.NewError(cerr.Canceled, "request canceled", err)
	}
	return cerr.NewError(cerr.Unavailable, "failed to get a response from the language model", err)
}

// classifyStatus maps an HTTP failure of a provider API to a typed error.
func classifyStatus(status int, message string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, message)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", ErrContextTooLong, message)
	}
	return fmt.Errorf("unexpected status %d: %s", status, message)
}

// Factory builds providers from the server configuration. A key passed by
// the caller takes precedence over the configured one.
type Factory struct {
	env    *config.LLMEnv
	client *http.Client
}

func NewFactory(env *config.LLMEnv) *Factory {
	return &Factory{
		env:    env,
		client: &http.Client{Timeout: env.Timeout},
	}
}

func (f *Factory) Provider(ctx context.Context, apiKey string) (Provider, error) {
	if apiKey == "" {
		apiKey = f.env.APIKey()
	}
	switch f.env.Provider {
	case "canned":
		return NewCanned(), nil
	case "gemini":
		if apiKey == "" {
			return nil, ErrNoAPIKey
		}
		return NewGemini(ctx, apiKey, f.env.GeminiModel, f.client)
	case "openai":
		if apiKey == "" {
			return nil, ErrNoAPIKey
		}
		return NewOpenAI(apiKey, f.env.OpenAIModel, f.env.OpenAIBaseURL, f.client), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", f.env.Provider)
}

// Timeout is the per-call deadline applied by callers.
func (f *Factory) Timeout() time.Duration {
	return f.env.Timeout
}
