package app_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"gait-quiz/internal/app"
	"gait-quiz/internal/domain"
	"gait-quiz/internal/infra/memory"
	"gait-quiz/internal/ledger"
)

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func sampleBank() []domain.Question {
	cats := []string{"anatomy", "kinematics", "pathology"}
	qs := make([]domain.Question, 0, 6)
	for i := 1; i <= 6; i++ {
		qs = append(qs, domain.Question{
			ID:          i,
			Category:    cats[(i-1)%len(cats)],
			Question:    fmt.Sprintf("question %d", i),
			Choices:     []string{"a", "b", "c", "d"},
			Answer:      i % 4,
			Explanation: fmt.Sprintf("because %d", i),
		})
	}
	return qs
}

func bankOf(n int) []domain.Question {
	qs := make([]domain.Question, 0, n)
	for i := 1; i <= n; i++ {
		qs = append(qs, domain.Question{ID: i, Category: "c", Question: "q", Choices: []string{"a", "b", "c", "d"}})
	}
	return qs
}

func seededEngine(specs map[domain.ExamType]domain.ExamSpec) *app.Engine {
	return app.NewEngineWithRand(rand.New(rand.NewSource(42)), specs)
}

// shortSpecs keeps exams small enough to drive by hand.
func shortSpecs() map[domain.ExamType]domain.ExamSpec {
	specs := domain.DefaultExamSpecs()
	a := specs[domain.ExamA]
	a.Questions = 4
	a.Duration = 3 * time.Second
	specs[domain.ExamA] = a
	return specs
}

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

// fakeClock hands out manually driven tickers and remembers the latest.
type fakeClock struct {
	mu     sync.Mutex
	latest *fakeTicker
}

func (c *fakeClock) NewTicker(time.Duration) app.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latest = &fakeTicker{ch: make(chan time.Time)}
	return c.latest
}

// Tick delivers one tick to the latest ticker, or reports false when nobody
// is listening any more.
func (c *fakeClock) Tick() bool {
	c.mu.Lock()
	t := c.latest
	c.mu.Unlock()
	if t == nil {
		return false
	}
	select {
	case t.ch <- time.Time{}:
		return true
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

type testEnv struct {
	service *app.QuizService
	book    *ledger.Book
	store   *memory.Store
	clock   *fakeClock
}

func newTestEnv(t *testing.T, bank []domain.Question, specs map[domain.ExamType]domain.ExamSpec) testEnv {
	t.Helper()
	if specs == nil {
		specs = domain.DefaultExamSpecs()
	}
	store := memory.NewStore()
	book := ledger.OpenWithClock(context.Background(), store, "", specs, func() time.Time { return fixedNow })
	clock := &fakeClock{}
	service := app.NewQuizServiceWithTicker(bank, book, seededEngine(specs), clock.NewTicker)
	return testEnv{service: service, book: book, store: store, clock: clock}
}
