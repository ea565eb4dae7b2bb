package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3100"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
	// Empty disables the API key check.
	APIKey string `envconfig:"API_KEY"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"memory"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".fieldguild/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"fieldguild/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

type LLMEnv struct {
	Provider      string        `envconfig:"LLM_PROVIDER" default:"openai"`
	OpenAIAPIKey  string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	OpenAIBaseURL string        `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	Timeout       time.Duration `envconfig:"LLM_TIMEOUT" default:"60s"`
}

type KnowledgeEnv struct {
	FarmDocPath      string        `envconfig:"FARM_DOC_PATH" default:"docs/infoforfarm.txt"`
	KnowledgeBaseURL string        `envconfig:"KNOWLEDGE_BASE_URL" default:"https://raw.githubusercontent.com/Aminsn/hackathon_docs/refs/heads/main/knowledge_base.txt"`
	CacheTTL         time.Duration `envconfig:"KNOWLEDGE_CACHE_TTL" default:"10m"`
	// Local directory holding the farm document; changes drop the cache.
	WatchDir string `envconfig:"KNOWLEDGE_WATCH_DIR"`
}

type SessionEnv struct {
	TTL               time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SeedSampleData    bool          `envconfig:"SEED_SAMPLE_DATA" default:"true"`
	AdvisorReplyDelay time.Duration `envconfig:"ADVISOR_REPLY_DELAY" default:"10s"`
}

type VAPIDEnv struct {
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	VAPIDContact    string `envconfig:"VAPID_CONTACT" default:"mailto:admin@example.com"`
}

type Env struct {
	BaseEnv
	StorageEnv
	LLMEnv
	KnowledgeEnv
	SessionEnv
	VAPIDEnv
}

const namespace = "FIELDGUILD"

// LoadEnv reads .env files (when present) and then the process environment.
func LoadEnv(dotenvFiles ...string) (*Env, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		// godotenv never overrides variables that are already set.
		_ = godotenv.Load(f)
	}
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *Env) validate() error {
	switch e.StorageEnv.Type {
	case "memory", "local":
	case "s3":
		if e.S3Bucket == "" {
			return fmt.Errorf("%s_S3_BUCKET is required for s3 storage", namespace)
		}
	default:
		return fmt.Errorf("unknown storage type %q", e.StorageEnv.Type)
	}
	switch e.LLMEnv.Provider {
	case "openai", "gemini", "canned":
	default:
		return fmt.Errorf("unknown llm provider %q", e.LLMEnv.Provider)
	}
	return nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

// APIKey returns the server-side key of the configured provider.
func (e *LLMEnv) APIKey() string {
	switch e.Provider {
	case "gemini":
		return e.GeminiAPIKey
	case "openai":
		return e.OpenAIAPIKey
	}
	return ""
}

func BaseEnvFromEnv(env *Env) *BaseEnv {
	return &env.BaseEnv
}

func StorageEnvFromEnv(env *Env) *StorageEnv {
	return &env.StorageEnv
}

func LLMEnvFromEnv(env *Env) *LLMEnv {
	return &env.LLMEnv
}

func KnowledgeEnvFromEnv(env *Env) *KnowledgeEnv {
	return &env.KnowledgeEnv
}

func SessionEnvFromEnv(env *Env) *SessionEnv {
	return &env.SessionEnv
}

func VAPIDEnvFromEnv(env *Env) *VAPIDEnv {
	return &env.VAPIDEnv
}
