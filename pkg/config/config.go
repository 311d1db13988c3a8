package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Bandit   BanditConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port           string
	AllowOrigins   []string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN is the postgres connection string for gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type JWTConfig struct {
	SecretKey string
}

// RedisConfig is optional; an empty host disables the sticky assignment cache.
type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	AssignmentTTL time.Duration
}

func (r RedisConfig) Enabled() bool {
	return r.RedisHost != ""
}

type BanditConfig struct {
	PriorAlpha        float64
	PriorBeta         float64
	UCBConfidence     float64
	Epsilon           float64
	EpsilonDecay      bool
	MinBanditVisitors int64
	ScoreCacheTTL     time.Duration
	// bound on each fire-and-forget write after an assignment
	BestEffortTimeout time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	bandit, err := loadBandit()
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	assignmentTTL, err := getEnvDuration("REDIS_ASSIGNMENT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "SplitHub Allocation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowOrigins:   splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
			RequestTimeout: requestTimeout,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "splithub"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", ""),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			AssignmentTTL: assignmentTTL,
		},
		Bandit: bandit,
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func loadBandit() (BanditConfig, error) {
	var (
		b   BanditConfig
		err error
	)

	if b.PriorAlpha, err = getEnvFloat("BANDIT_PRIOR_ALPHA", 1); err != nil {
		return b, err
	}
	if b.PriorBeta, err = getEnvFloat("BANDIT_PRIOR_BETA", 1); err != nil {
		return b, err
	}
	if b.UCBConfidence, err = getEnvFloat("BANDIT_UCB_CONFIDENCE", 2); err != nil {
		return b, err
	}
	if b.Epsilon, err = getEnvFloat("BANDIT_EPSILON", 0.1); err != nil {
		return b, err
	}
	if b.Epsilon < 0 || b.Epsilon > 1 {
		return b, errors.New("BANDIT_EPSILON must be within [0, 1]")
	}
	if b.EpsilonDecay, err = getEnvBool("BANDIT_EPSILON_DECAY", false); err != nil {
		return b, err
	}
	minVisitors, err := getEnvInt("BANDIT_MIN_VISITORS", 100)
	if err != nil {
		return b, err
	}
	b.MinBanditVisitors = int64(minVisitors)
	if b.ScoreCacheTTL, err = getEnvDuration("BANDIT_SCORE_CACHE_TTL", 60*time.Second); err != nil {
		return b, err
	}
	if b.BestEffortTimeout, err = getEnvDuration("BANDIT_BEST_EFFORT_TIMEOUT", 5*time.Second); err != nil {
		return b, err
	}

	return b, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
