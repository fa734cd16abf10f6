package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/sql-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/config"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/database"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/history"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/sqlcmd"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderBedrock = "bedrock"
)

var ErrMissingEnv = errors.New("missing required environment variables")

type Config struct {
	Provider      string
	GoogleAPIKey  string
	GeminiModelID string
	OpenAIKey     string
	OpenAIModelID string
	AWSRegion     string
	ClaudeModelID string

	DB database.Config

	RedisAddr       string
	RedisPassword   string
	RedisMaxRetries int
	HistoryTTL      time.Duration
}

type Dependencies struct {
	Service *agent.Service
	DB      *database.DB
	Policy  sqlcmd.Policy
	Gate    *sqlcmd.Gate
	History history.Store
	Logger  *zerolog.Logger

	redisClient *goredis.Client
}

func LoadConfig() *Config {
	return &Config{
		Provider:      strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		GoogleAPIKey:  getEnv("GOOGLE_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", gpt.DefaultGeminiModel),
		OpenAIKey:     getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID: getEnv("OPEN_AI_MODEL_ID", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID: getEnv("CLAUDE_MODEL_ID", ""),
		DB: database.Config{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", ""),
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisMaxRetries: getEnvInt("REDIS_MAX_RETRIES", 3),
		HistoryTTL:      getEnvDuration("HISTORY_TTL", 7*24*time.Hour),
	}
}

// ValidateDB reports every missing connection variable at once.
func (c *Config) ValidateDB() error {
	var missing []string
	for name, value := range map[string]string{
		"DB_NAME": c.DB.Database,
		"DB_USER": c.DB.User,
		"DB_HOST": c.DB.Host,
		"DB_PORT": c.DB.Port,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateProvider checks that the selected model provider has its credentials.
func (c *Config) ValidateProvider() error {
	switch c.Provider {
	case ProviderGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("%w: GOOGLE_API_KEY", ErrMissingEnv)
		}
	case ProviderOpenAI:
		if c.OpenAIKey == "" || c.OpenAIModelID == "" {
			return fmt.Errorf("%w: OPEN_AI_KEY, OPEN_AI_MODEL_ID", ErrMissingEnv)
		}
	case ProviderBedrock:
		if c.ClaudeModelID == "" {
			return fmt.Errorf("%w: CLAUDE_MODEL_ID", ErrMissingEnv)
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.Provider)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := c.ValidateDB(); err != nil {
		return err
	}
	return c.ValidateProvider()
}

func (c *Config) RedisOptions() redis.Options {
	return redis.Options{
		Addr:        c.RedisAddr,
		Password:    c.RedisPassword,
		MaxRetries:  c.RedisMaxRetries,
		BaseBackoff: time.Second,
	}
}

// ConnectDB opens the pool without wiring the rest of the agent.
func ConnectDB(ctx context.Context, cfg *Config) (*database.DB, error) {
	if err := cfg.ValidateDB(); err != nil {
		return nil, err
	}

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return db, nil
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	agentConfig, err := config.LoadAgentConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load agent config: %w", err)
	}
	policy := agentConfig.Policy.ToPolicy()

	llmClient, err := createLLMClient(ctx, cfg.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	promptBuilder, err := prompt.New(agentConfig.Prompt)
	if err != nil {
		return nil, err
	}

	extractor, err := sqlcmd.NewExtractor(policy)
	if err != nil {
		return nil, fmt.Errorf("failed to build extractor: %w", err)
	}
	gate := sqlcmd.NewGate(policy)

	db, err := ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		DB:      db,
		Policy:  policy,
		Gate:    gate,
		History: history.NopStore{},
		Logger:  logger,
	}

	if cfg.RedisAddr != "" {
		client, err := redis.Connect(ctx, cfg.RedisOptions(), logger)
		if err != nil {
			logger.Warn().Err(err).Msg("History disabled, Redis unavailable")
		} else {
			deps.redisClient = client
			deps.History = history.NewRedisStore(client, history.DefaultKey, history.DefaultMaxEntries, cfg.HistoryTTL)
		}
	}

	deps.Service = agent.NewService(
		llmClient,
		promptBuilder,
		extractor,
		gate,
		db,
		deps.History,
		agent.ModelOptions{
			MaxTokens:   agentConfig.Model.MaxTokens,
			Temperature: agentConfig.Model.Temperature,
			Retry:       agentConfig.Model.Retry,
		},
		logger,
	)

	logger.Info().
		Str("provider", cfg.Provider).
		Str("match", string(policy.Match)).
		Str("terminator", string(policy.Terminator)).
		Bool("history", cfg.RedisAddr != "").
		Msg("SQL agent wired")

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.redisClient != nil {
		_ = d.redisClient.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.LLMClient, error) {
	switch provider {
	case ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case ProviderOpenAI:
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return gpt.NewGeminiClient(cfg.GoogleAPIKey, cfg.GeminiModelID)
	}
}
