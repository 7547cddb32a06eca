package config

import (
	"fmt"
	"strings"
	"sync"

	"meetsync/core/constants"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	GoogleAPI  GoogleAPIConfig
	Scheduling SchedulingConfig
	LogLevel   string
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  int // minutes
	RefreshTokenTTL int // minutes
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// SchedulingConfig holds slot generation defaults. Working bounds are
// minutes from midnight, half-open.
type SchedulingConfig struct {
	GranularityMinutes  int
	SuggestionCount     int
	WorkingBoundsStart  int
	WorkingBoundsEnd    int
	Timezone            string
}

var (
	mu       sync.RWMutex
	instance *Config
)

// Load reads .env (if present) and environment variables into the config
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "meetsync")
	v.SetDefault("database.sslmode", constants.DatabaseSSLMode)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_ttl", 60)
	v.SetDefault("jwt.refresh_token_ttl", 60*24*7)
	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_uri", "")
	v.SetDefault("scheduling.granularity_minutes", constants.DefaultGranularityMinutes)
	v.SetDefault("scheduling.suggestion_count", constants.DefaultSuggestionCount)
	v.SetDefault("scheduling.working_bounds_start", constants.DefaultWorkingBoundsStart)
	v.SetDefault("scheduling.working_bounds_end", constants.DefaultWorkingBoundsEnd)
	v.SetDefault("scheduling.timezone", "Asia/Tokyo")
	v.SetDefault("log.level", "info")

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("jwt.secret"),
			AccessTokenTTL:  v.GetInt("jwt.access_token_ttl"),
			RefreshTokenTTL: v.GetInt("jwt.refresh_token_ttl"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:     v.GetString("google.client_id"),
			ClientSecret: v.GetString("google.client_secret"),
			RedirectURI:  v.GetString("google.redirect_uri"),
		},
		Scheduling: SchedulingConfig{
			GranularityMinutes: v.GetInt("scheduling.granularity_minutes"),
			SuggestionCount:    v.GetInt("scheduling.suggestion_count"),
			WorkingBoundsStart: v.GetInt("scheduling.working_bounds_start"),
			WorkingBoundsEnd:   v.GetInt("scheduling.working_bounds_end"),
			Timezone:           v.GetString("scheduling.timezone"),
		},
		LogLevel: v.GetString("log.level"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Scheduling.GranularityMinutes <= 0 {
		return fmt.Errorf("scheduling granularity must be positive, got %d", c.Scheduling.GranularityMinutes)
	}
	if c.Scheduling.SuggestionCount <= 0 {
		return fmt.Errorf("scheduling suggestion count must be positive, got %d", c.Scheduling.SuggestionCount)
	}
	if c.Scheduling.WorkingBoundsStart >= c.Scheduling.WorkingBoundsEnd {
		return fmt.Errorf("working bounds start %d must precede end %d",
			c.Scheduling.WorkingBoundsStart, c.Scheduling.WorkingBoundsEnd)
	}
	return nil
}

// Get returns the loaded config; panics if Load was never called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		panic("config: Get called before Load")
	}
	return instance
}

// GetSafe returns the loaded config and whether it has been initialized
func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
