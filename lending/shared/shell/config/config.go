package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Database adapters for the postgres store.
const (
	AdapterPGXPool = "pgx.pool"
	AdapterSQLDB   = "sql.db"
	AdapterSQLXDB  = "sqlx.db"
)

const envFileVar = "LENDING_ENV_FILE"

// ErrInvalidConfig is returned when a value cannot be parsed or fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the lendingd configuration.
type Config struct {
	Store              string        `validate:"oneof=postgres memory"`
	DBAdapter          string        `validate:"oneof=pgx.pool sql.db sqlx.db"`
	PostgresDSN        string        `validate:"required_if=Store postgres"`
	PostgresReplicaDSN string        `validate:"excluded_unless=DBAdapter pgx.pool"`
	EventsTable        string        `validate:"required"`
	HTTPAddr           string        `validate:"required"`
	OperationTimeout   time.Duration `validate:"gt=0"`
	LoanPeriod         time.Duration `validate:"gt=0"`
	FinePerDay         int           `validate:"gte=0"`
	LeaderboardSize    int           `validate:"gt=0"`
	ClaimTokenKey      string        `validate:"required,hexadecimal,len=64"`
	ClaimTokenGrace    time.Duration `validate:"gte=0"`
	ReminderWithinDays int           `validate:"gte=0"`
	ReminderInterval   time.Duration `validate:"gt=0"`
	AMQPURL            string        `validate:"omitempty,url"`
	AMQPExchange       string        `validate:"required"`
	RateLimitRPS       float64       `validate:"gt=0"`
	RateLimitBurst     int           `validate:"gt=0"`
	LogLevel           string        `validate:"oneof=debug info warn error"`
}

// setting is one configuration key with its flag name, environment variable and default.
type setting struct {
	flagName string
	envVar   string
	def      string
	usage    string
}

var settings = []setting{
	{"store", "LENDING_STORE", StorePostgres, "event store backend (postgres, memory)"},
	{"db-adapter", "LENDING_DB_ADAPTER", AdapterPGXPool, "postgres adapter (pgx.pool, sql.db, sqlx.db)"},
	{"postgres-dsn", "LENDING_POSTGRES_DSN", "", "PostgreSQL connection string"},
	{"postgres-replica-dsn", "LENDING_POSTGRES_REPLICA_DSN", "", "read replica connection string (pgx.pool only)"},
	{"events-table", "LENDING_EVENTS_TABLE", "events", "name of the events table"},
	{"http-addr", "LENDING_HTTP_ADDR", ":8080", "HTTP listen address"},
	{"operation-timeout", "LENDING_OPERATION_TIMEOUT", "5s", "timeout of a single store operation"},
	{"loan-period", "LENDING_LOAN_PERIOD", core.DefaultLoanPeriod.String(), "loan period"},
	{"fine-per-day", "LENDING_FINE_PER_DAY", strconv.Itoa(core.DefaultFinePerDay), "fine per day late"},
	{"leaderboard-size", "LENDING_LEADERBOARD_SIZE", strconv.Itoa(core.DefaultLeaderboardSize), "entries on the leaderboard"},
	{"claim-token-key", "LENDING_CLAIM_TOKEN_KEY", "", "32-byte claim token key, hex encoded"},
	{"claim-token-grace", "LENDING_CLAIM_TOKEN_GRACE", "720h", "claim token validity after the due date"},
	{"reminder-within-days", "LENDING_REMINDER_WITHIN_DAYS", strconv.Itoa(core.DefaultDueSoonWithinDays), "remind loans due within this many days"},
	{"reminder-interval", "LENDING_REMINDER_INTERVAL", "24h", "interval between due-soon scans"},
	{"amqp-url", "LENDING_AMQP_URL", "", "RabbitMQ URL, reminders are only logged if empty"},
	{"amqp-exchange", "LENDING_AMQP_EXCHANGE", "lending.reminders", "exchange for due-soon reminders"},
	{"rate-limit-rps", "LENDING_RATE_LIMIT_RPS", "10", "requests per second per member"},
	{"rate-limit-burst", "LENDING_RATE_LIMIT_BURST", "20", "request burst per member"},
	{"log-level", "LENDING_LOG_LEVEL", "info", "log level (debug, info, warn, error)"},
}

// LoadConfig loads configuration with precedence:
// 1. Command-line flags in args (highest priority).
// 2. Environment variables.
// 3. The .env file named by LENDING_ENV_FILE, default ".env". A missing file is fine.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (Config, error) {
	dotenv, err := readEnvFile(lookup(os.Getenv(envFileVar), ".env"))
	if err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet("lendingd", flag.ContinueOnError)
	flagValues := make(map[string]*string, len(settings))

	for _, s := range settings {
		flagValues[s.flagName] = flags.String(s.flagName, "", s.usage+" (env "+s.envVar+")")
	}

	if err := flags.Parse(args); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		envValue, _ := os.LookupEnv(s.envVar)
		values[s.flagName] = lookup(*flagValues[s.flagName], envValue, dotenv[s.envVar], s.def)
	}

	p := parser{values: values}
	cfg := Config{
		Store:              values["store"],
		DBAdapter:          values["db-adapter"],
		PostgresDSN:        values["postgres-dsn"],
		PostgresReplicaDSN: values["postgres-replica-dsn"],
		EventsTable:        values["events-table"],
		HTTPAddr:           values["http-addr"],
		OperationTimeout:   p.duration("operation-timeout"),
		LoanPeriod:         p.duration("loan-period"),
		FinePerDay:         p.int("fine-per-day"),
		LeaderboardSize:    p.int("leaderboard-size"),
		ClaimTokenKey:      values["claim-token-key"],
		ClaimTokenGrace:    p.duration("claim-token-grace"),
		ReminderWithinDays: p.int("reminder-within-days"),
		ReminderInterval:   p.duration("reminder-interval"),
		AMQPURL:            values["amqp-url"],
		AMQPExchange:       values["amqp-exchange"],
		RateLimitRPS:       p.float("rate-limit-rps"),
		RateLimitBurst:     p.int("rate-limit-burst"),
		LogLevel:           strings.ToLower(values["log-level"]),
	}

	if p.err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, p.err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	return cfg, nil
}

// LendingPolicy returns the lending rules configured here.
func (c Config) LendingPolicy() core.LendingPolicy {
	return core.LendingPolicy{
		LoanPeriod:        c.LoanPeriod,
		FinePerDay:        c.FinePerDay,
		LeaderboardSize:   c.LeaderboardSize,
		DueSoonWithinDays: c.ReminderWithinDays,
	}
}

// SlogLevel maps LogLevel to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// lookup returns the first non-empty value.
func lookup(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}

	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("reading %s: %w", path, err))
	}

	return values, nil
}

// parser converts raw values and keeps the first error.
type parser struct {
	values map[string]string
	err    error
}

func (p *parser) duration(key string) time.Duration {
	d, err := time.ParseDuration(p.values[key])
	p.keep(key, err)

	return d
}

func (p *parser) int(key string) int {
	i, err := strconv.Atoi(p.values[key])
	p.keep(key, err)

	return i
}

func (p *parser) float(key string) float64 {
	f, err := strconv.ParseFloat(p.values[key], 64)
	p.keep(key, err)

	return f
}

func (p *parser) keep(key string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s=%q: %w", key, p.values[key], err)
	}
}
