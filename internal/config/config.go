package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"comicshare/internal/wizard"
)

type Server struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigin   string
}

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	URLExpiry  time.Duration
	// PublicBaseURL is prepended to object keys for public-read assets.
	// Empty means derive it from Endpoint and BucketName.
	PublicBaseURL string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

type Upload struct {
	MaxUploadSize int64
	MaxPages      int
}

type Log struct {
	Level       string
	Development bool
}

type Config struct {
	Server               Server
	DB                   DB
	MinIO                MinIO
	Redis                Redis
	RateLimit            RateLimit
	Upload               Upload
	Log                  Log
	JWTSecretKey         string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	DefaultFolderLimit   int
	EnvFileLoaded        bool
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// parseDuration accepts time.ParseDuration syntax plus a "d" suffix for whole days.
func parseDuration(value string, fallback time.Duration) time.Duration {
	if n := len(value); n > 1 && value[n-1] == 'd' {
		if days, err := strconv.Atoi(value[:n-1]); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

func LoadServer() Server {
	return Server{
		Port:            getEnvAsInt("SERVER_PORT", 8080),
		ReadTimeout:     parseDuration(getEnv("SERVER_READ_TIMEOUT", "30s"), 30*time.Second),
		WriteTimeout:    parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "120s"), 120*time.Second),
		IdleTimeout:     parseDuration(getEnv("SERVER_IDLE_TIMEOUT", "60s"), 60*time.Second),
		ShutdownTimeout: parseDuration(getEnv("SERVER_SHUTDOWN_TIMEOUT", "15s"), 15*time.Second),
		AllowedOrigin:   getEnv("CORS_ALLOWED_ORIGIN", "*"),
	}
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "comicshare"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
		AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName:    getEnv("MINIO_BUCKET_NAME", "comics"),
		UseSSL:        getEnvBool("MINIO_USE_SSL", false),
		Region:        getEnv("MINIO_REGION", "us-east-1"),
		URLExpiry:     parseDuration(getEnv("MINIO_URL_EXPIRY", "1h"), time.Hour),
		PublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),
	}
}

func LoadRedis() Redis {
	return Redis{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
		TTL:      parseDuration(getEnv("REDIS_CACHE_TTL", "5m"), 5*time.Minute),
	}
}

func LoadConfig() *Config {
	// a missing .env is normal outside local development
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		EnvFileLoaded: envLoaded,
		Server:        LoadServer(),
		DB:            LoadDB(),
		MinIO:         LoadMinIO(),
		Redis:         LoadRedis(),
		RateLimit:     RateLimit{RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 20), Burst: getEnvAsInt("RATE_LIMIT_BURST", 40)},
		Upload: Upload{
			MaxUploadSize: parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
			MaxPages:      getEnvAsInt("MAX_PAGES_PER_COMIC", 100),
		},
		Log: Log{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration:  parseDuration(getEnv("ACCESS_TOKEN_DURATION", "2h"), 2*time.Hour),
		RefreshTokenDuration: parseDuration(getEnv("REFRESH_TOKEN_DURATION", "168h"), 168*time.Hour),
		DefaultFolderLimit:   getEnvAsInt("DEFAULT_BOOKMARK_FOLDER_LIMIT", 100),
	}

	return cfg
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is not set")
	}
	if c.Upload.MaxPages < 1 || c.Upload.MaxPages > wizard.DefaultMaxPages {
		return fmt.Errorf("MAX_PAGES_PER_COMIC must be between 1 and %d, got %d", wizard.DefaultMaxPages, c.Upload.MaxPages)
	}
	if c.DefaultFolderLimit < 1 {
		return fmt.Errorf("DEFAULT_BOOKMARK_FOLDER_LIMIT must be positive, got %d", c.DefaultFolderLimit)
	}
	return nil
}
