package memory

import (
	"context"
	"sync"

	"gait-quiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the question bank from its source (file, database).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.Question, error)
}

// BankRepository loads the bank at most once and serves the cached copy
// afterwards. A failed load is remembered too; there are no retries.
type BankRepository struct {
	loader BankLoader
	sf     singleflight.Group

	mu     sync.RWMutex
	loaded bool
	bank   []domain.Question
	err    error
}

func NewBankRepository(loader BankLoader) *BankRepository {
	return &BankRepository{loader: loader}
}

func (r *BankRepository) GetBank(ctx context.Context) ([]domain.Question, error) {
	r.mu.RLock()
	if r.loaded {
		defer r.mu.RUnlock()
		return r.bank, r.err
	}
	r.mu.RUnlock()

	_, _, _ = r.sf.Do("bank", func() (interface{}, error) {
		r.mu.RLock()
		done := r.loaded
		r.mu.RUnlock()
		if done {
			return nil, nil
		}

		bank, err := r.loader.LoadBank(ctx)
		r.mu.Lock()
		r.loaded = true
		r.bank, r.err = bank, err
		r.mu.Unlock()
		return nil, nil
	})

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bank, r.err
}

// StaticBankLoader serves a fixed bank (tests, demos).
type StaticBankLoader struct {
	questions []domain.Question
}

func NewStaticBankLoader(questions []domain.Question) *StaticBankLoader {
	return &StaticBankLoader{questions: questions}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) ([]domain.Question, error) {
	return l.questions, nil
}
