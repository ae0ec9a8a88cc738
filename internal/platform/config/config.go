package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration, read from the environment.
type Config struct {
	Server    Server
	Store     StoreConfig
	Redis     RedisConfig
	Mail      MailConfig
	Challenge ChallengeConfig
	Audit     AuditConfig
	Log       LogConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Port            int           `env:"PORT"             envDefault:"3000"`
	AdminToken      string        `env:"ADMIN_TOKEN"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Addr is the listen address derived from Port.
func (s Server) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	AttemptsBackendStore = "store"
	AttemptsBackendRedis = "redis"
)

type StoreConfig struct {
	Backend     string        `env:"STORE_BACKEND"    envDefault:"sqlite"`
	SQLitePath  string        `env:"SQLITE_PATH"      envDefault:"./data.db"`
	DatabaseURL string        `env:"DATABASE_URL"`
	TxTimeout   time.Duration `env:"STORE_TX_TIMEOUT" envDefault:"5s"`
	// AttemptsBackend selects where failed-answer counters live.
	AttemptsBackend string `env:"ATTEMPTS_BACKEND" envDefault:"store"`
}

type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE"      envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"   envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT"   envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT"  envDefault:"3s"`
}

type MailConfig struct {
	Enabled     bool          `env:"MAIL_ENABLED"      envDefault:"false"`
	Host        string        `env:"SMTP_HOST"         envDefault:"mail.skyparty.name.ng"`
	Port        int           `env:"SMTP_PORT"         envDefault:"587"`
	Username    string        `env:"SMTP_USER"`
	Password    string        `env:"SMTP_PASS"`
	From        string        `env:"MAIL_FROM"         envDefault:"invites@skyparty.name.ng"`
	QueueSize   int           `env:"MAIL_QUEUE_SIZE"   envDefault:"256"`
	SendTimeout time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
}

type ChallengeConfig struct {
	SupportEmail string `env:"SUPPORT_EMAIL"          envDefault:"support@app.skyparty.name.ng"`
	MaxAttempts  int    `env:"CHALLENGE_MAX_ATTEMPTS" envDefault:"4"`
	// AttemptTTL restarts a counter whose last failure is older than the TTL. Zero never expires.
	AttemptTTL       time.Duration `env:"CHALLENGE_ATTEMPT_TTL"   envDefault:"0s"`
	QuestionBankPath string        `env:"QUESTION_BANK_PATH"`
	CodeBytes        int           `env:"INVITE_CODE_BYTES"       envDefault:"8"`
	CodeMaxRetries   int           `env:"INVITE_CODE_MAX_RETRIES" envDefault:"3"`
}

const (
	AuditSinkLog    = "log"
	AuditSinkMemory = "memory"
	AuditSinkSQL    = "sql"
	AuditSinkKafka  = "kafka"
)

type AuditConfig struct {
	Sink         string   `env:"AUDIT_SINK"        envDefault:"log"`
	BufferSize   int      `env:"AUDIT_BUFFER_SIZE" envDefault:"1024"`
	KafkaBrokers []string `env:"KAFKA_BROKERS"     envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_AUDIT_TOPIC" envDefault:"skyparty.audit"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects inconsistent settings before anything is wired.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend))
	}

	switch c.Store.AttemptsBackend {
	case AttemptsBackendStore:
	case AttemptsBackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, errors.New("REDIS_URL is required when ATTEMPTS_BACKEND=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ATTEMPTS_BACKEND %q", c.Store.AttemptsBackend))
	}

	if c.Challenge.MaxAttempts < 1 {
		errs = append(errs, errors.New("CHALLENGE_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Challenge.AttemptTTL < 0 {
		errs = append(errs, errors.New("CHALLENGE_ATTEMPT_TTL must not be negative"))
	}
	if c.Challenge.CodeBytes < 8 {
		errs = append(errs, errors.New("INVITE_CODE_BYTES must be at least 8"))
	}
	if c.Challenge.CodeMaxRetries < 1 {
		errs = append(errs, errors.New("INVITE_CODE_MAX_RETRIES must be at least 1"))
	}

	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		errs = append(errs, errors.New("SMTP_HOST and MAIL_FROM are required when MAIL_ENABLED=true"))
	}

	switch c.Audit.Sink {
	case AuditSinkLog, AuditSinkMemory:
	case AuditSinkSQL:
		if c.Store.Backend == BackendMemory {
			errs = append(errs, errors.New("AUDIT_SINK=sql requires a sqlite or postgres STORE_BACKEND"))
		}
	case AuditSinkKafka:
		if len(c.Audit.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when AUDIT_SINK=kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown AUDIT_SINK %q", c.Audit.Sink))
	}

	return errors.Join(errs...)
}
