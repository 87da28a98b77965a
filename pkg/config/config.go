package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	Search   SearchConfig
	Admin    AdminConfig
	Forum    ForumConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// AIConfig selects and tunes the completion provider.
type AIConfig struct {
	Provider       string // "openai" or "deepseek"
	Model          string
	APIKey         string
	BaseURL        string // optional override, e.g. a proxy in front of the vendor
	MaxTokens      int
	Timeout        time.Duration
	ConnectTimeout time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	DailyLimit     int
}

// SearchConfig tunes retrieval and result fusion.
type SearchConfig struct {
	Limit          int     // top-N per retriever
	KBEnabled      bool    // knowledge-base retrieval on/off
	KBSearchWeight float64 // multiplier on normalized knowledge-base scores before fusion
	MinRelevance   float64 // fusion floor on the normalized [0,1] scale
	CacheTTL       time.Duration
}

// AdminConfig gates the operator-facing knowledge-base and stats endpoints.
type AdminConfig struct {
	PasswordHash string // bcrypt hash of the admin panel password
	JWTSecret    string
	JWTExpiry    time.Duration
}

type ForumConfig struct {
	BaseURL string // used to build discussion/post links in references
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine, environment variables still apply (Docker/K8s).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	maxTokens, _ := strconv.Atoi(getEnv("AI_MAX_TOKENS", "1000"))
	aiTimeout, _ := strconv.Atoi(getEnv("AI_TIMEOUT", "60"))
	aiConnectTimeout, _ := strconv.Atoi(getEnv("AI_CONNECT_TIMEOUT", "10"))
	maxRetries, _ := strconv.Atoi(getEnv("AI_MAX_RETRIES", "3"))
	retryBaseDelay, _ := strconv.Atoi(getEnv("AI_RETRY_BASE_DELAY_MS", "1000"))
	dailyLimit, _ := strconv.Atoi(getEnv("AI_DAILY_REQUESTS_LIMIT", "20"))
	searchLimit, _ := strconv.Atoi(getEnv("SEARCH_LIMIT", "5"))
	kbEnabled := getEnv("KB_ENABLED", "true") == "true"
	kbWeight, err := strconv.ParseFloat(getEnv("KB_SEARCH_WEIGHT", "1.0"), 64)
	if err != nil || kbWeight <= 0 {
		kbWeight = 1.0
	}
	minRelevance, err := strconv.ParseFloat(getEnv("SEARCH_MIN_RELEVANCE", "0.5"), 64)
	if err != nil || minRelevance < 0 {
		minRelevance = 0.5
	}
	cacheTTL, _ := strconv.Atoi(getEnv("SEARCH_CACHE_TTL", "300"))
	jwtExpiry, _ := strconv.Atoi(getEnv("ADMIN_JWT_EXPIRATION_HOURS", "24"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ai_support"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		AI: AIConfig{
			Provider:       getEnv("AI_PROVIDER", "openai"),
			Model:          getEnv("AI_MODEL", ""),
			APIKey:         getEnv("AI_API_KEY", ""),
			BaseURL:        getEnv("AI_BASE_URL", ""),
			MaxTokens:      maxTokens,
			Timeout:        time.Duration(aiTimeout) * time.Second,
			ConnectTimeout: time.Duration(aiConnectTimeout) * time.Second,
			MaxRetries:     maxRetries,
			RetryBaseDelay: time.Duration(retryBaseDelay) * time.Millisecond,
			DailyLimit:     dailyLimit,
		},
		Search: SearchConfig{
			Limit:          searchLimit,
			KBEnabled:      kbEnabled,
			KBSearchWeight: kbWeight,
			MinRelevance:   minRelevance,
			CacheTTL:       time.Duration(cacheTTL) * time.Second,
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("ADMIN_JWT_SECRET", "change-me-in-production"),
			JWTExpiry:    time.Duration(jwtExpiry) * time.Hour,
		},
		Forum: ForumConfig{
			BaseURL: getEnv("FORUM_BASE_URL", "http://localhost"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
