package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string   `yaml:"port"`
	Env            string   `yaml:"env"`
	LogLevel       string   `yaml:"log_level"`
	TrustedProxies []string `yaml:"trusted_proxies"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	MongoURI            string        `yaml:"mongo_uri"`
	MongoDatabase       string        `yaml:"mongo_database"`
	MongoConnectTimeout time.Duration `yaml:"mongo_connect_timeout"`

	JWTSecret    string        `yaml:"jwt_secret"`
	JWTExpiresIn time.Duration `yaml:"jwt_expires_in"`

	SkipAuth bool `yaml:"skip_auth"` // disables JWT checks on admin routes, development only

	RedisURL        string        `yaml:"redis_url"`
	LoginRateLimit  int           `yaml:"login_rate_limit"`
	LoginRateWindow time.Duration `yaml:"login_rate_window"`

	CommissionCut         float64 `yaml:"commission_cut"`
	CommissionDedupeOwner bool    `yaml:"commission_dedupe_owners"`

	// AppLink whose password doubles as the site-wide user password.
	SiteAppName string `yaml:"site_app_name"`
}

func defaults() *Config {
	return &Config{
		Port:                "8000",
		Env:                 "debug",
		LogLevel:            "info",
		TrustedProxies:      []string{},
		AllowedOrigins:      []string{"*"},
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "growup",
		MongoConnectTimeout: 10 * time.Second,
		JWTSecret:           "default-access-secret",
		JWTExpiresIn:        30 * 24 * time.Hour,
		LoginRateLimit:      10,
		LoginRateWindow:     time.Minute,
		CommissionCut:       0.12,
		SiteAppName:         "site",
	}
}

// Load builds the configuration from defaults, then the optional YAML file
// named by CONFIG_FILE, then the environment.
func Load() *Config {
	cfg := defaults()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if err := cfg.loadFile(path); err != nil {
		log.Printf("⚠️ config file %s not applied: %v", path, err)
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("GIN_MODE", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.TrustedProxies = getEnvAsSlice("TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)

	cfg.MongoURI = getEnv("MONGODB_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGODB_DATABASE", cfg.MongoDatabase)
	cfg.MongoConnectTimeout = getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", cfg.MongoConnectTimeout)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTExpiresIn = getEnvAsDuration("JWT_EXPIRES_IN", cfg.JWTExpiresIn)
	cfg.SkipAuth = getEnvAsBool("SKIP_AUTH", cfg.SkipAuth)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.LoginRateLimit = getEnvAsInt("LOGIN_RATE_LIMIT", cfg.LoginRateLimit)
	cfg.LoginRateWindow = getEnvAsDuration("LOGIN_RATE_WINDOW", cfg.LoginRateWindow)

	cfg.CommissionCut = getEnvAsFloat("COMMISSION_CUT", cfg.CommissionCut)
	// The cut must leave a positive net for owners.
	if !(cfg.CommissionCut >= 0 && cfg.CommissionCut < 1) {
		log.Printf("⚠️ COMMISSION_CUT %v outside [0,1), using %v", cfg.CommissionCut, defaults().CommissionCut)
		cfg.CommissionCut = defaults().CommissionCut
	}
	cfg.CommissionDedupeOwner = getEnvAsBool("COMMISSION_DEDUPE_OWNERS", cfg.CommissionDedupeOwner)
	cfg.SiteAppName = getEnv("SITE_APP_NAME", cfg.SiteAppName)

	log.Printf("📋 config loaded: port=%s, mode=%s, db=%s, skipAuth=%v, redis=%v",
		cfg.Port, cfg.Env, cfg.MongoDatabase, cfg.SkipAuth, cfg.RedisURL != "")
	return cfg
}

// IsRelease reports whether gin should run in release mode.
func (c *Config) IsRelease() bool {
	return c.Env == "release"
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strVal := getEnv(key, "")
	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strVal := getEnv(key, "")
	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	strVal := getEnv(key, "")
	if val, err := strconv.ParseFloat(strVal, 64); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strVal := getEnv(key, "")
	if val, err := time.ParseDuration(strVal); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	val := getEnv(key, "")
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}
