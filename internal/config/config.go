package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends understood by SESSION_BACKEND.
const (
	SessionBackendCookie = "cookie"
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Provider is the read-only view of the configuration handed to the rest of the app.
type Provider interface {
	GetServerAddr() string
	GetCourseAPIURL() string
	GetCourseAPITimeout() time.Duration
	GetSessionSecret() string
	GetSessionBackend() string
	GetSessionTTL() time.Duration
	GetRedisURL() string
	GetReadinessConcurrency() int
	GetActivitiesURL() string
	GetStateFile() string
	GetGenerateRateLimit() int
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr           string
	CourseAPIURL         string
	CourseAPITimeout     time.Duration
	SessionSecret        string
	SessionBackend       string
	SessionTTL           time.Duration
	RedisURL             string
	ReadinessConcurrency int
	ActivitiesURL        string
	StateFile            string
	GenerateRateLimit    int
}

// New loads configuration from a .env file, if any, and the environment.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		ServerAddr:           getEnv("SERVER_ADDR", ":8080"),
		CourseAPIURL:         strings.TrimRight(getEnv("COURSE_API_URL", "http://127.0.0.1:8000"), "/"),
		CourseAPITimeout:     getEnvDuration("COURSE_API_TIMEOUT", 30*time.Second),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
		SessionBackend:       strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendCookie)),
		SessionTTL:           getEnvDuration("SESSION_TTL", 24*time.Hour),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ReadinessConcurrency: getEnvInt("READINESS_CONCURRENCY", 0),
		ActivitiesURL:        getEnv("ACTIVITIES_URL", "/activities"),
		StateFile:            getEnv("WIZARD_STATE_FILE", defaultStateFile()),
		GenerateRateLimit:    getEnvInt("GENERATE_RATE_LIMIT", 10),
	}
}

// Validate checks the settings the web server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is not set"))
	}
	switch c.SessionBackend {
	case SessionBackendCookie, SessionBackendMemory, SessionBackendRedis:
	default:
		errs = append(errs, errors.New("SESSION_BACKEND must be one of cookie, memory, redis"))
	}
	if c.CourseAPIURL == "" {
		errs = append(errs, errors.New("COURSE_API_URL is not set"))
	}
	return errors.Join(errs...)
}

func (c *Config) GetServerAddr() string { return c.ServerAddr }
func (c *Config) GetCourseAPIURL() string { return c.CourseAPIURL }
func (c *Config) GetCourseAPITimeout() time.Duration { return c.CourseAPITimeout }
func (c *Config) GetSessionSecret() string { return c.SessionSecret }
func (c *Config) GetSessionBackend() string { return c.SessionBackend }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetRedisURL() string { return c.RedisURL }
func (c *Config) GetReadinessConcurrency() int { return c.ReadinessConcurrency }
func (c *Config) GetActivitiesURL() string { return c.ActivitiesURL }
func (c *Config) GetStateFile() string { return c.StateFile }
func (c *Config) GetGenerateRateLimit() int { return c.GenerateRateLimit }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coursewizard-session.json"
	}
	return home + "/.coursewizard/session.json"
}
