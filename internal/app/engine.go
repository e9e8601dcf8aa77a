package app

import (
	"fmt"
	"math/rand"
	"time"

	"gait-quiz/internal/domain"
	"github.com/google/uuid"
)

// SessionConfig carries the inputs a session start needs besides the bank.
type SessionConfig struct {
	Category       string
	Exam           domain.ExamType
	WrongQuestions []int
	Bookmarks      []int
}

// Engine builds sessions. It owns the random source used for shuffling.
type Engine struct {
	rnd   *rand.Rand
	specs map[domain.ExamType]domain.ExamSpec
}

func NewEngine(specs map[domain.ExamType]domain.ExamSpec) *Engine {
	return NewEngineWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), specs)
}

// NewEngineWithRand lets tests pin the shuffle with a seeded source.
func NewEngineWithRand(rnd *rand.Rand, specs map[domain.ExamType]domain.ExamSpec) *Engine {
	if specs == nil {
		specs = domain.DefaultExamSpecs()
	}
	return &Engine{rnd: rnd, specs: specs}
}

// Spec returns the exam format for t.
func (e *Engine) Spec(t domain.ExamType) (domain.ExamSpec, bool) {
	spec, ok := e.specs[t]
	return spec, ok
}

// Start assembles the question list for mode and returns an in-progress
// session. On error no session is created.
func (e *Engine) Start(mode domain.Mode, bank []domain.Question, cfg SessionConfig) (*Session, error) {
	var questions []domain.Question
	switch mode {
	case domain.ModeSequential, domain.ModeRandom:
		questions = domain.FilterByCategory(bank, cfg.Category)
		if len(questions) == 0 {
			return nil, domain.ErrNoQuestions
		}
		if mode == domain.ModeRandom {
			questions = e.shuffle(questions)
		}
	case domain.ModeReview, domain.ModeBookmark:
		if len(bank) == 0 {
			return nil, domain.ErrNoQuestions
		}
		ids := cfg.WrongQuestions
		if mode == domain.ModeBookmark {
			ids = cfg.Bookmarks
		}
		questions = selectIDs(bank, ids)
		if len(questions) == 0 {
			return nil, domain.ErrNothingToDo
		}
		questions = e.shuffle(questions)
	case domain.ModeExam:
		spec, ok := e.specs[cfg.Exam]
		if !ok {
			return nil, fmt.Errorf("start exam %q: %w", cfg.Exam, domain.ErrUnknownExamType)
		}
		if len(bank) == 0 || spec.Questions <= 0 {
			return nil, domain.ErrNoQuestions
		}
		questions = e.fill(bank, spec.Questions)
	default:
		return nil, fmt.Errorf("start %q: %w", mode, domain.ErrUnknownMode)
	}

	s := &Session{
		id:        uuid.NewString(),
		mode:      mode,
		category:  cfg.Category,
		questions: questions,
		answers:   make([]domain.AnswerRecord, 0, len(questions)),
		state:     StateInProgress,
	}
	if mode == domain.ModeExam {
		s.exam = cfg.Exam
	}
	return s, nil
}

// shuffle returns a Fisher-Yates permuted copy of qs.
func (e *Engine) shuffle(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	copy(out, qs)
	e.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// fill concatenates fresh shuffles of bank until n questions are available,
// then truncates to exactly n.
func (e *Engine) fill(bank []domain.Question, n int) []domain.Question {
	out := make([]domain.Question, 0, n+len(bank))
	for len(out) < n {
		out = append(out, e.shuffle(bank)...)
	}
	return out[:n]
}

// selectIDs keeps bank order; duplicates in ids are ignored.
func selectIDs(bank []domain.Question, ids []int) []domain.Question {
	want := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]domain.Question, 0, len(want))
	for _, q := range bank {
		if _, ok := want[q.ID]; ok {
			out = append(out, q)
		}
	}
	return out
}
