package memory

import (
	"context"
	"errors"
	"testing"

	"gait-quiz/internal/domain"
)

func TestBankRepositoryLoadsOnce(t *testing.T) {
	loader := &countingLoader{BankLoader: NewStaticBankLoader(sampleBank())}
	repo := NewBankRepository(loader)

	for i := 0; i < 3; i++ {
		qs, err := repo.GetBank(context.Background())
		if err != nil {
			t.Fatalf("get bank: %v", err)
		}
		if len(qs) != 2 {
			t.Fatalf("expected 2 questions, got %d", len(qs))
		}
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}
}

func TestBankRepositoryRemembersFailure(t *testing.T) {
	boom := errors.New("boom")
	loader := &countingLoader{BankLoader: failingLoader{err: boom}}
	repo := NewBankRepository(loader)

	if _, err := repo.GetBank(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.GetBank(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom again, got %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", loader.calls)
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) ([]domain.Question, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}

type failingLoader struct{ err error }

func (l failingLoader) LoadBank(context.Context) ([]domain.Question, error) {
	return nil, l.err
}

func sampleBank() []domain.Question {
	return []domain.Question{
		{ID: 1, Category: "Gait cycle", Question: "Which phase begins with initial contact?", Choices: []string{"swing", "stance", "flight", "pre-swing"}, Answer: 1},
		{ID: 2, Category: "Anatomy", Question: "Pick B", Choices: []string{"A", "B", "C", "D"}, Answer: 1},
	}
}
