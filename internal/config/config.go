package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
	// RW or RO. RO refuses every mutating request.
	Mode            string
	ShutdownTimeout time.Duration
}

type Storage struct {
	// postgres or sqlite
	Driver string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SQLite struct {
	Path string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
	// Redis is optional; empty host disables sessions and the relay.
	Enabled bool
}

type Broadcast struct {
	// local or redis
	Mode          string
	Buffer        int
	ChannelPrefix string
	// How long an instance keeps a presentation without renewing its claim.
	OwnerTTL time.Duration
}

type Aggregation struct {
	MaxWordLength int
	MaxTextLength int
}

type Auth struct {
	Secret string
	TTL    time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	HTTP        HTTPServer
	Storage     Storage
	Postgres    Postgres
	SQLite      SQLite
	Redis       RedisCache
	Broadcast   Broadcast
	Aggregation Aggregation
	Auth        Auth
	Log         Log
}

const logtag = "[config]"

// DefaultPresenterSecret is the PRESENTER_SECRET fallback. Writable instances
// refuse to start with it.
const DefaultPresenterSecret = "shared"

var (
	ErrDefaultSecret = errors.New("PRESENTER_SECRET is not set")
	ErrRedisRequired = errors.New("BROADCAST_MODE=redis needs REDIS_HOST")
)

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()

	log.Printf("%s backend config : %+v\n", logtag, cfg.redacted())
	return cfg
}

// FromEnv builds the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:        *newHTTP(),
		Storage:     *newStorage(),
		Postgres:    *newPostgres(),
		SQLite:      *newSQLite(),
		Redis:       *newRedis(),
		Broadcast:   *newBroadcast(),
		Aggregation: *newAggregation(),
		Auth:        *newAuth(),
		Log:         *newLog(),
	}
}

// Validate rejects settings the service must not run with.
func (c *Config) Validate() error {
	var errs []error
	if c.HTTP.Mode != "RO" && c.Auth.Secret == DefaultPresenterSecret {
		errs = append(errs, ErrDefaultSecret)
	}
	if c.Broadcast.Mode == "redis" && !c.Redis.Enabled {
		errs = append(errs, ErrRedisRequired)
	}
	return errors.Join(errs...)
}

func (c Config) redacted() Config {
	c.Postgres.Password = "***"
	c.Redis.Password = "***"
	c.Auth.Secret = "***"
	return c
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port:            getenv("HTTP_PORT", "8080"),
		Host:            getenv("HTTP_HOST", "localhost"),
		Mode:            getenv("HTTP_MODE", "RW"),
		ShutdownTimeout: getenvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func newStorage() *Storage {
	return &Storage{
		Driver: getenv("STORAGE_DRIVER", "postgres"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getenv("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "pollcast"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newSQLite() *SQLite {
	return &SQLite{
		Path: getenv("SQLITE_PATH", "pollcast.db"),
	}
}

func newRedis() *RedisCache {
	host := getenv("REDIS_HOST", "")
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     host,
		Password: getenv("REDIS_PASSWORD", ""),
		Enabled:  host != "",
	}
}

func newBroadcast() *Broadcast {
	return &Broadcast{
		Mode:          getenv("BROADCAST_MODE", "local"),
		Buffer:        getenvInt("BROADCAST_BUFFER", 64),
		ChannelPrefix: getenv("BROADCAST_CHANNEL_PREFIX", "pollcast:"),
		OwnerTTL:      getenvDuration("BROADCAST_OWNER_TTL", 30*time.Second),
	}
}

func newAggregation() *Aggregation {
	return &Aggregation{
		MaxWordLength: getenvInt("AGGREGATION_MAX_WORD_LENGTH", 50),
		MaxTextLength: getenvInt("AGGREGATION_MAX_TEXT_LENGTH", 1000),
	}
}

func newAuth() *Auth {
	return &Auth{
		Secret: getenv("PRESENTER_SECRET", DefaultPresenterSecret),
		TTL:    getenvDuration("PRESENTER_TOKEN_TTL", 12*time.Hour),
	}
}

func newLog() *Log {
	return &Log{
		Level:  getenv("LOG_LEVEL", "info"),
		Format: getenv("LOG_FORMAT", "text"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s is set\n", logtag, key)
	return val
}

func getenvInt(key string, defaultValue int) int {
	raw := getenv(key, strconv.Itoa(defaultValue))
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("%s %s=%q is not a number. Using default value %d", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("%s %s=%q is not a duration. Using default value %s", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return val
}
