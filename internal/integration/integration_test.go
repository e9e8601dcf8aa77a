package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"gait-quiz/internal/app"
	"gait-quiz/internal/domain"
	pgloader "gait-quiz/internal/infra/postgres"
	"gait-quiz/internal/infra/postgres/migrations"
	infraredis "gait-quiz/internal/infra/redis"
	"gait-quiz/internal/ledger"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	bank := sampleBank()
	seedBank(t, ctx, pgURL, bank)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	bankRepo := infraredis.NewBankRepository(redisClient, pgloader.NewBankLoader(pool), 5*time.Minute)
	store := infraredis.NewStore(redisClient, "gait:")
	specs := domain.DefaultExamSpecs()

	loaded := app.LoadBank(ctx, bankRepo)
	if len(loaded) != len(bank) {
		t.Fatalf("expected %d questions from postgres, got %d", len(bank), len(loaded))
	}
	book := ledger.Open(ctx, store, "", specs)
	service := app.NewQuizService(loaded, book, app.NewEngine(specs))

	q, err := service.Start(ctx, domain.ModeSequential, "")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for {
		choice := bank[q.QuestionID-1].Answer
		if q.QuestionID == 2 {
			choice = (choice + 1) % domain.ChoiceCount
		}
		if _, err := service.Answer(ctx, choice); err != nil {
			t.Fatalf("answer: %v", err)
		}
		step, err := service.Advance(ctx)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if step.Result != nil {
			if step.Result.Score != 2 || !step.Result.Saved {
				t.Fatalf("unexpected result %+v", step.Result)
			}
			break
		}
		q = *step.Question
	}

	// a fresh book reads the same ledger back from redis
	reopened := ledger.Open(ctx, store, "", specs).Snapshot()
	if len(reopened.History) != 1 || !reopened.IsWrong(2) {
		t.Fatalf("ledger not persisted in redis: %+v", reopened)
	}

	cached, err := redisClient.Exists(ctx, "gait:bank").Result()
	if err != nil || cached != 1 {
		t.Fatalf("expected cached bank in redis, got %d err=%v", cached, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedBank(t *testing.T, ctx context.Context, dsn string, qs []domain.Question) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, migrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	n, err := pgloader.SeedBank(ctx, db, qs)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(qs) {
		t.Fatalf("expected %d seeded rows, got %d", len(qs), n)
	}
}

func sampleBank() []domain.Question {
	return []domain.Question{
		{ID: 1, Category: "gait", Question: "Which phase begins with initial contact?", Choices: []string{"swing", "stance", "float", "pre-swing"}, Answer: 1},
		{ID: 2, Category: "gait", Question: "Typical stance share of the gait cycle?", Choices: []string{"40%", "50%", "60%", "80%"}, Answer: 2},
		{ID: 3, Category: "anatomy", Question: "Primary hip extensor?", Choices: []string{"gluteus maximus", "iliopsoas", "sartorius", "gracilis"}, Answer: 0},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
