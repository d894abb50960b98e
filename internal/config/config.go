package config

import (
	"path/filepath" // For folder defaults
	"strings"       // For origin list parsing
	"time"          // For TTL durations

	"github.com/joho/godotenv"             // For loading .env files
	"github.com/kelseyhightower/envconfig" // For struct-tagged environment parsing
)

// Config holds the application configuration
type Config struct {
	AppPort     string `envconfig:"APP_PORT" default:"5000"` // Application port
	DatabaseURL string `envconfig:"DATABASE_URL"`            // Full database URL, takes precedence over DB_*
	DBUser      string `envconfig:"DB_USER"`                 // MySQL user when DATABASE_URL is unset
	DBPassword  string `envconfig:"DB_PASSWORD"`             // MySQL password
	DBHost      string `envconfig:"DB_HOST"`                 // MySQL host
	DBPort      string `envconfig:"DB_PORT" default:"3306"`  // MySQL port
	DBName      string `envconfig:"DB_NAME"`                 // MySQL database name
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	SecretKey       string `envconfig:"SECRET_KEY" required:"true"`     // Token signing secret
	TokenTTLMinutes int    `envconfig:"TOKEN_TTL_MINUTES" default:"30"` // Token lifetime

	AppFolder    string `envconfig:"APP_FOLDER" default:"."` // Root for static and media defaults
	StaticFolder string `envconfig:"STATIC_FOLDER"`          // Static assets root
	MediaFolder  string `envconfig:"MEDIA_FOLDER"`           // Uploaded files root
	MaxUploadMB  int64  `envconfig:"MAX_UPLOAD_MB" default:"16"`

	RedisAddr       string `envconfig:"REDIS_ADDR"` // Redis server address, empty disables caching
	RedisPass       string `envconfig:"REDIS_PASS"` // Redis password
	RedisDB         int    `envconfig:"REDIS_DB"`   // Redis database number
	CacheTTLSeconds int    `envconfig:"CACHE_TTL_SECONDS" default:"60"`

	IsProd        bool    `envconfig:"IS_PROD"`                     // Is production environment
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"info"`    // logrus level name
	CORSOrigins   string  `envconfig:"CORS_ORIGINS" default:"*"`    // Comma separated origins
	AuthRateLimit float64 `envconfig:"AUTH_RATE_LIMIT" default:"5"` // Login/signup requests per second per IP, 0 disables
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"10"`
}

// LoadConfig loads configuration from the environment, reading .env first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.StaticFolder == "" {
		c.StaticFolder = filepath.Join(c.AppFolder, "project", "static")
	}
	if c.MediaFolder == "" {
		c.MediaFolder = filepath.Join(c.AppFolder, "project", "media")
	}
}

// DSN resolves the database URL: DATABASE_URL, then the MySQL DB_* variables, then a local SQLite file
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost != "" {
		return "mysql://" + c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
	}
	return "sqlite:///database.db"
}

// TokenTTL is the lifetime of issued access tokens
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// CacheTTL is the lifetime of cached responses
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// MaxUploadBytes caps multipart request bodies
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// AllowedOrigins splits CORS_ORIGINS; nil means every origin
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			return nil
		}
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
