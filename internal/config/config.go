package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gait-quiz/internal/domain"
	"gait-quiz/internal/ledger"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Storage struct {
		Path string `yaml:"path"`
		Key  string `yaml:"key"`
	} `yaml:"storage"`
	Bank struct {
		Path  string `yaml:"path"`
		Sheet string `yaml:"sheet"`
		TTL   string `yaml:"ttl"`
	} `yaml:"bank"`
	Exams map[string]ExamOverride `yaml:"exams"`
}

// ExamOverride adjusts a built-in exam format.
type ExamOverride struct {
	Questions int    `yaml:"questions"`
	Duration  string `yaml:"duration"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Redis.Prefix = "gait:"
	cfg.Storage.Path = "data/ledger.db"
	cfg.Storage.Key = ledger.DefaultKey
	cfg.Bank.Path = "data/questions.json"
	cfg.Bank.TTL = "10m"
	return cfg
}

// Load reads YAML config from path on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, but a missing file yields Default().
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv loads a .env file if present and lets environment variables
// override file settings.
func ApplyEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	setString(&cfg.Postgres.URL, "POSTGRES_URL")
	setString(&cfg.Storage.Path, "LEDGER_PATH")
	setString(&cfg.Storage.Key, "LEDGER_KEY")
	setString(&cfg.Bank.Path, "BANK_PATH")
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// ExamSpecs applies the configured overrides to the built-in exam formats.
func (c Config) ExamSpecs() (map[domain.ExamType]domain.ExamSpec, error) {
	specs := domain.DefaultExamSpecs()
	for name, o := range c.Exams {
		spec, ok := specs[domain.ExamType(name)]
		if !ok {
			return nil, fmt.Errorf("exam %q: %w", name, domain.ErrUnknownExamType)
		}
		if o.Questions < 0 {
			return nil, fmt.Errorf("exam %q: questions must be positive", name)
		}
		if o.Questions > 0 {
			spec.Questions = o.Questions
		}
		spec.Duration = TTLDuration(o.Duration, spec.Duration)
		specs[spec.Type] = spec
	}
	return specs, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
