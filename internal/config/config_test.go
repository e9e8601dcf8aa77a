package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gait-quiz/internal/domain"
)

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: "9090"
bank:
  path: bank.xlsx
exams:
  A:
    questions: 100
    duration: 45m
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Bank.Path != "bank.xlsx" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Storage.Key != "gait_quiz_data" {
		t.Fatalf("expected default storage key, got %q", cfg.Storage.Key)
	}

	specs, err := cfg.ExamSpecs()
	if err != nil {
		t.Fatalf("exam specs: %v", err)
	}
	if a := specs[domain.ExamA]; a.Questions != 100 || a.Duration != 45*time.Minute || a.MaxScore != 990 {
		t.Fatalf("unexpected exam A spec %+v", a)
	}
	if b := specs[domain.ExamB]; b.Duration != 30*time.Minute {
		t.Fatalf("exam B should keep defaults, got %+v", b)
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Storage.Path != "data/ledger.db" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestExamSpecsRejectsUnknownType(t *testing.T) {
	cfg := Default()
	cfg.Exams = map[string]ExamOverride{"Z": {Questions: 10}}
	if _, err := cfg.ExamSpecs(); err == nil {
		t.Fatalf("expected unknown exam error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("BANK_PATH", "/tmp/bank.json")
	cfg := Default()
	ApplyEnv(&cfg)
	if cfg.Redis.Addr != "localhost:6380" || cfg.Bank.Path != "/tmp/bank.json" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestTTLDuration(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := TTLDuration("bogus", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for invalid, got %v", got)
	}
	if got := TTLDuration("90s", time.Minute); got != 90*time.Second {
		t.Fatalf("expected 90s, got %v", got)
	}
}
