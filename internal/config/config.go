package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server configuration
type ServerConfig struct {
	Port string
	Host string
}

// MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// Redis configuration. An empty URL selects the in-process cache and feed.
type RedisConfig struct {
	URL string
}

// Auth configuration
type AuthConfig struct {
	JWTSecret         string
	Issuer            string
	SessionTTLMinutes int
	BcryptCost        int
}

// Google OAuth configuration
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Storage configuration
type StorageConfig struct {
	Driver        string
	Dir           string
	Bucket        string
	PublicBaseURL string
	MaxUploadMB   int
}

// Job listing limits
type JobsConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Orphaned upload sweeper configuration
type SweepConfig struct {
	Enabled       bool
	IntervalHours int
	GraceMinutes  int
}

// Log configuration
type LogConfig struct {
	Level  string
	Format string
}

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	DataStore string
	Redis     RedisConfig
	Auth      AuthConfig
	Google    GoogleConfig
	Storage   StorageConfig
	Jobs      JobsConfig
	Sweep     SweepConfig
	Log       LogConfig
	CORS      []string
}

// Default configuration values
const (
	DefaultServerPort        = "8080"
	DefaultServerHost        = ""
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDB           = "accessibility-hire"
	DefaultDataStore         = DataStoreMongo
	DefaultJWTSecret         = "dev-only-change-me"
	DefaultJWTIssuer         = "accessibility-hire"
	MinJWTSecretLength       = 32
	DefaultSessionTTLMinutes = 60 * 24
	DefaultBcryptCost        = 12
	DefaultStorageDriver     = StorageGridFS
	DefaultStorageDir        = "./data/uploads"
	DefaultStorageBucket     = "uploads"
	DefaultPublicBaseURL     = "http://localhost:8080"
	DefaultMaxUploadMB       = 5
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	// Job listing defaults
	DefaultJobsLimit = 100
	MaxJobsLimit     = 500
	// Sweeper defaults
	DefaultSweepEnabled       = true
	DefaultSweepIntervalHours = 24
	DefaultSweepGraceMinutes  = 60
)

// Backend selectors
const (
	DataStoreMongo  = "mongo"
	DataStoreMemory = "memory"
	StorageGridFS   = "gridfs"
	StorageDisk     = "disk"
)

// New returns a new Config with default values
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", DefaultServerPort),
			Host: getEnv("SERVER_HOST", DefaultServerHost),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", DefaultMongoURI),
			Database: getEnv("MONGO_DB", DefaultMongoDB),
		},
		DataStore: strings.ToLower(getEnv("DATA_STORE", DefaultDataStore)),
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", DefaultJWTSecret),
			Issuer:            getEnv("JWT_ISSUER", DefaultJWTIssuer),
			SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", DefaultSessionTTLMinutes),
			BcryptCost:        getEnvInt("BCRYPT_COST", DefaultBcryptCost),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", DefaultStorageDriver)),
			Dir:           getEnv("STORAGE_DIR", DefaultStorageDir),
			Bucket:        getEnv("STORAGE_BUCKET", DefaultStorageBucket),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", DefaultPublicBaseURL),
			MaxUploadMB:   getEnvInt("MAX_UPLOAD_MB", DefaultMaxUploadMB),
		},
		Jobs: JobsConfig{
			DefaultLimit: getEnvInt("JOBS_DEFAULT_LIMIT", DefaultJobsLimit),
			MaxLimit:     getEnvInt("JOBS_MAX_LIMIT", MaxJobsLimit),
		},
		Sweep: SweepConfig{
			Enabled:       getEnvBool("SWEEP_ENABLED", DefaultSweepEnabled),
			IntervalHours: getEnvInt("SWEEP_INTERVAL_HOURS", DefaultSweepIntervalHours),
			GraceMinutes:  getEnvInt("SWEEP_GRACE_MINUTES", DefaultSweepGraceMinutes),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", DefaultLogLevel),
			Format: getEnv("LOG_FORMAT", DefaultLogFormat),
		},
		CORS: getEnvList("CORS_ALLOWED_ORIGINS", nil),
	}
}

// Validate fails fast on settings the server must not start with. The
// built-in JWT secret is only accepted with the in-memory data store.
func (c *Config) Validate() error {
	var errs []error
	switch c.DataStore {
	case DataStoreMongo:
		if c.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required"))
		}
	case DataStoreMemory:
	default:
		errs = append(errs, fmt.Errorf("DATA_STORE must be %q or %q, got %q", DataStoreMongo, DataStoreMemory, c.DataStore))
	}
	switch c.Storage.Driver {
	case StorageGridFS, StorageDisk:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageGridFS, StorageDisk, c.Storage.Driver))
	}

	secret := c.Auth.JWTSecret
	switch {
	case secret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case c.DataStore != DataStoreMemory && (secret == DefaultJWTSecret || len(secret) < MinJWTSecretLength):
		errs = append(errs, fmt.Errorf("JWT_SECRET must be set to a random value of at least %d bytes", MinJWTSecretLength))
	}
	return errors.Join(errs...)
}

// UsesDefaultSecret reports whether tokens are signed with the built-in secret
func (c *AuthConfig) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// Address returns the server address string
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// SessionTTL returns the lifetime of issued session tokens
func (c *AuthConfig) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return time.Duration(DefaultSessionTTLMinutes) * time.Minute
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Enabled reports whether Google sign-in is configured
func (c *GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *StorageConfig) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = DefaultMaxUploadMB
	}
	return int64(mb) << 20
}

// ClampLimit applies the default to non-positive limits and caps the rest
func (c *JobsConfig) ClampLimit(limit int) int {
	def, max := c.DefaultLimit, c.MaxLimit
	if def <= 0 {
		def = DefaultJobsLimit
	}
	if max <= 0 {
		max = MaxJobsLimit
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		switch strings.ToLower(value) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
