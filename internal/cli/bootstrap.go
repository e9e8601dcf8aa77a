package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"gait-quiz/internal/app"
	"gait-quiz/internal/config"
	"gait-quiz/internal/domain"
	"gait-quiz/internal/infra/file"
	"gait-quiz/internal/infra/memory"
	pgloader "gait-quiz/internal/infra/postgres"
	redisstore "gait-quiz/internal/infra/redis"
	"gait-quiz/internal/infra/sqlite"
	"gait-quiz/internal/ledger"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
)

// environment is the wired application for one CLI invocation.
type environment struct {
	cfg     config.Config
	book    *ledger.Book
	service *app.QuizService
	closers []func()
}

func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadOptional(path)
	if err != nil {
		return cfg, err
	}
	config.ApplyEnv(&cfg)
	return cfg, nil
}

// bootstrap opens the ledger store, loads the question bank once and builds
// the quiz service.
func bootstrap(ctx context.Context, path string) (*environment, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	specs, err := cfg.ExamSpecs()
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		env.closers = append(env.closers, func() { _ = redisClient.Close() })
	}

	var store ledger.Store
	if redisClient != nil {
		store = redisstore.NewStore(redisClient, cfg.Redis.Prefix)
	} else {
		local, err := sqlite.Open(cfg.Storage.Path)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.closers = append(env.closers, func() { _ = local.Close() })
		store = local
	}

	var loader memory.BankLoader = file.NewBankLoader(cfg.Bank.Path).WithSheet(cfg.Bank.Sheet)
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			env.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		env.closers = append(env.closers, pool.Close)
		loader = pgloader.NewBankLoader(pool)
	}

	var bankRepo app.BankRepository
	if redisClient != nil {
		bankRepo = redisstore.NewBankRepository(redisClient, loader, config.TTLDuration(cfg.Bank.TTL, 10*time.Minute))
	} else {
		bankRepo = memory.NewBankRepository(loader)
	}

	bank := app.LoadBank(ctx, bankRepo)
	env.book = ledger.Open(ctx, store, cfg.Storage.Key, specs)
	env.service = app.NewQuizService(bank, env.book, app.NewEngine(specs))
	log.Printf("ready: %d questions in %d categories", len(bank), len(domain.Categories(bank)))
	return env, nil
}
