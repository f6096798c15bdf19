package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr         string
	DBDriver           string
	DBPath             string
	DatabaseURL        string
	BlobBackend        string
	BlobLocalPath      string
	PublicBaseURL      string
	SupabaseURL        string
	SupabaseServiceKey string
	ImageHosts         []string
	AdminPasswordHash  string
	JWTSecret          string
	JWTTTL             time.Duration
	CORSOrigins        []string
	AltTextBackend     string
	ClaudeAPIKey       string
	ClaudeModel        string
	OllamaHost         string
	OllamaModel        string
	LogLevel           string
	LogFile            string
}

// Load builds the configuration from, in increasing priority: defaults, the
// TOML file named by ATELIER_CONFIG, and the process environment (which
// includes anything loaded from a .env file in the working directory).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	file := map[string]any{}
	if path := os.Getenv("ATELIER_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	get := func(key, defaultVal string) string {
		if val, exists := os.LookupEnv(key); exists {
			return val
		}
		if val, ok := file[strings.ToLower(key)]; ok {
			return fileValue(val)
		}
		return defaultVal
	}

	ttl, err := time.ParseDuration(get("JWT_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Config{
		ListenAddr:         get("LISTEN_ADDR", ":8080"),
		DBDriver:           get("DB_DRIVER", "sqlite"),
		DBPath:             get("DB_PATH", "/data/atelier.db"),
		DatabaseURL:        get("DATABASE_URL", ""),
		BlobBackend:        get("BLOB_BACKEND", "local"),
		BlobLocalPath:      get("BLOB_LOCAL_PATH", "/data/media"),
		PublicBaseURL:      strings.TrimRight(get("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		SupabaseURL:        strings.TrimRight(get("SUPABASE_URL", ""), "/"),
		SupabaseServiceKey: get("SUPABASE_SERVICE_KEY", ""),
		ImageHosts:         splitList(get("IMAGE_HOSTS", "images.pexels.com,i.pinimg.com")),
		AdminPasswordHash:  get("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:          get("JWT_SECRET", ""),
		JWTTTL:             ttl,
		CORSOrigins:        splitList(get("CORS_ORIGINS", "")),
		AltTextBackend:     get("ALT_TEXT_BACKEND", "none"),
		ClaudeAPIKey:       get("CLAUDE_API_KEY", ""),
		ClaudeModel:        get("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
		OllamaHost:         get("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:        get("OLLAMA_MODEL", "moondream"),
		LogLevel:           get("LOG_LEVEL", "info"),
		LogFile:            get("LOG_FILE", ""),
	}
	return cfg, nil
}

// Validate reports the first inconsistent combination of settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}

	switch c.BlobBackend {
	case "local":
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required when BLOB_BACKEND=supabase")
		}
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}

	switch c.AltTextBackend {
	case "none", "ollama":
	case "claude":
		if c.ClaudeAPIKey == "" {
			return fmt.Errorf("CLAUDE_API_KEY is required when ALT_TEXT_BACKEND=claude")
		}
	default:
		return fmt.Errorf("unknown ALT_TEXT_BACKEND %q", c.AltTextBackend)
	}
	return nil
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fileValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
