package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Server      ServerConfig   `toml:"server"`
	Logging     LoggingConfig  `toml:"logging"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	LLM         LLMConfig      `toml:"llm"`
	Ecos        EcosConfig     `toml:"ecos"`
	Naver       NaverConfig    `toml:"naver"`
	News        NewsConfig     `toml:"news"`
	Calendar    CalendarConfig `toml:"calendar"`
	Chat        ChatConfig     `toml:"chat"`
}

type ServerConfig struct {
	Port           int      `toml:"port"`
	Host           string   `toml:"host"`
	AllowedOrigins []string `toml:"allowed_origins"` // CORS origins for the dashboard front-end
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Format string   `toml:"format"` // "json" or "text"
	Output []string `toml:"output"` // "stdout", "file"
}

// GeminiConfig contains Google Gemini API configuration for AI services
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for AI operations
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests (e.g. "4s" for 15 RPM)
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// ClaudeConfig contains Anthropic Claude API configuration for AI services
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for AI operations
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between requests
	Temperature float32 `toml:"temperature"` // Completion temperature
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude"
}

// EcosConfig contains Bank of Korea ECOS API configuration
type EcosConfig struct {
	APIKey    string `toml:"api_key"`    // ECOS auth key
	BaseURL   string `toml:"base_url"`   // Override for tests; empty uses the public endpoint
	RateLimit int    `toml:"rate_limit"` // Requests per second
}

// NaverConfig contains Naver open API credentials for news search
type NaverConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	BaseURL      string `toml:"base_url"`   // Override for tests
	RateLimit    int    `toml:"rate_limit"` // Requests per second
}

// NewsConfig controls the market-weather news pipeline
type NewsConfig struct {
	Queries         []string `toml:"queries"`          // Search keywords merged into one ranked feed
	PerQuery        int      `toml:"per_query"`        // Articles fetched per keyword
	TopN            int      `toml:"top_n"`            // Articles kept after ranking
	CacheTTL        string   `toml:"cache_ttl"`        // How long one AI analysis is served (duration string)
	RefreshSchedule string   `toml:"refresh_schedule"` // Cron spec for background refresh; empty disables it
}

// CalendarConfig controls date keying and the macro chart window
type CalendarConfig struct {
	Timezone    string `toml:"timezone"`     // Zone all date keys are computed in
	MacroMonths int    `toml:"macro_months"` // Months of rate/index history on the chart
}

// ChatConfig controls the mentor conversation window
type ChatConfig struct {
	HistoryLimit int `toml:"history_limit"` // Prior turns kept in the prompt
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in finmate.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:           8000,
			Host:           "localhost",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:      "", // User must provide API key (no fallback)
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			RateLimit:   "4s", // Free tier: 15 RPM
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			RateLimit:   "1s",
			Temperature: 0.7,
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Ecos: EcosConfig{
			APIKey:    "",
			RateLimit: 5,
		},
		Naver: NaverConfig{
			ClientID:     "",
			ClientSecret: "",
			RateLimit:    5,
		},
		News: NewsConfig{
			Queries: []string{
				"코스피", "증시", "금리 인하", "금리 인상", "CPI",
				"물가 상승", "환율", "미국 증시", "이차전지", "기업", "AI",
			},
			PerQuery:        5,
			TopN:            10,
			CacheTTL:        "50m",
			RefreshSchedule: "@every 45m",
		},
		Calendar: CalendarConfig{
			Timezone:    "Asia/Seoul",
			MacroMonths: 6,
		},
		Chat: ChatConfig{
			HistoryLimit: 9,
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// ones; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINMATE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("FINMATE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("FINMATE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("FINMATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := os.Getenv("FINMATE_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("FINMATE_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	if key := os.Getenv("FINMATE_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	if provider := os.Getenv("FINMATE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}

	if key := os.Getenv("FINMATE_ECOS_API_KEY"); key != "" {
		config.Ecos.APIKey = key
	} else if key := os.Getenv("ECOS_AUTH_KEY"); key != "" {
		config.Ecos.APIKey = key
	}

	if id := os.Getenv("FINMATE_NAVER_CLIENT_ID"); id != "" {
		config.Naver.ClientID = id
	} else if id := os.Getenv("NAVER_CLIENT_ID"); id != "" {
		config.Naver.ClientID = id
	}
	if secret := os.Getenv("FINMATE_NAVER_CLIENT_SECRET"); secret != "" {
		config.Naver.ClientSecret = secret
	} else if secret := os.Getenv("NAVER_CLIENT_SECRET"); secret != "" {
		config.Naver.ClientSecret = secret
	}

	if tz := os.Getenv("FINMATE_CALENDAR_TIMEZONE"); tz != "" {
		config.Calendar.Timezone = tz
	}
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks settings that would otherwise only fail at request time
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("invalid default LLM provider: %q", c.LLM.DefaultProvider)
	}
	if c.Calendar.MacroMonths <= 0 {
		return fmt.Errorf("calendar.macro_months must be positive, got %d", c.Calendar.MacroMonths)
	}
	if c.News.PerQuery <= 0 || c.News.TopN <= 0 {
		return fmt.Errorf("news.per_query and news.top_n must be positive")
	}
	return nil
}
