package app_test

import (
	"errors"
	"testing"

	"gait-quiz/internal/app"
	"gait-quiz/internal/domain"
)

func TestSequentialKeepsBankOrderWithinCategory(t *testing.T) {
	engine := seededEngine(nil)
	s, err := engine.Start(domain.ModeSequential, sampleBank(), app.SessionConfig{Category: "kinematics"})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	qs := s.Questions()
	if len(qs) != 2 || qs[0].ID != 2 || qs[1].ID != 5 {
		t.Fatalf("expected questions 2 and 5 in order, got %+v", qs)
	}
	if s.State() != app.StateInProgress || s.Index() != 0 || s.Score() != 0 {
		t.Fatalf("unexpected initial state %s index=%d score=%d", s.State(), s.Index(), s.Score())
	}
}

func TestRandomIsPermutationOfFilteredBank(t *testing.T) {
	engine := seededEngine(nil)
	bank := bankOf(30)
	s, err := engine.Start(domain.ModeRandom, bank, app.SessionConfig{Category: domain.AllCategories})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	seen := map[int]int{}
	for _, q := range s.Questions() {
		seen[q.ID]++
	}
	if len(seen) != len(bank) {
		t.Fatalf("expected %d distinct questions, got %d", len(bank), len(seen))
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("question %d appears %d times", id, n)
		}
	}
}

func TestStartErrorsCreateNoSession(t *testing.T) {
	engine := seededEngine(nil)
	bank := sampleBank()

	cases := []struct {
		name string
		mode domain.Mode
		bank []domain.Question
		cfg  app.SessionConfig
		want error
	}{
		{"empty bank sequential", domain.ModeSequential, nil, app.SessionConfig{}, domain.ErrNoQuestions},
		{"empty category", domain.ModeRandom, bank, app.SessionConfig{Category: "nope"}, domain.ErrNoQuestions},
		{"empty bank review", domain.ModeReview, nil, app.SessionConfig{WrongQuestions: []int{1}}, domain.ErrNoQuestions},
		{"no wrong questions", domain.ModeReview, bank, app.SessionConfig{}, domain.ErrNothingToDo},
		{"stale bookmarks", domain.ModeBookmark, bank, app.SessionConfig{Bookmarks: []int{99}}, domain.ErrNothingToDo},
		{"empty bank exam", domain.ModeExam, nil, app.SessionConfig{Exam: domain.ExamA}, domain.ErrNoQuestions},
		{"unknown exam", domain.ModeExam, bank, app.SessionConfig{Exam: "Z"}, domain.ErrUnknownExamType},
		{"unknown mode", domain.Mode("marathon"), bank, app.SessionConfig{}, domain.ErrUnknownMode},
	}
	for _, tc := range cases {
		s, err := engine.Start(tc.mode, tc.bank, tc.cfg)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if s != nil {
			t.Fatalf("%s: expected no session", tc.name)
		}
	}
}

func TestReviewAndBookmarkSelectByID(t *testing.T) {
	engine := seededEngine(nil)
	bank := sampleBank()

	review, err := engine.Start(domain.ModeReview, bank, app.SessionConfig{WrongQuestions: []int{4, 1, 4}, Category: "pathology"})
	if err != nil {
		t.Fatalf("review start failed: %v", err)
	}
	if review.Total() != 2 {
		t.Fatalf("expected 2 review questions ignoring category, got %d", review.Total())
	}
	for _, q := range review.Questions() {
		if q.ID != 1 && q.ID != 4 {
			t.Fatalf("unexpected review question %d", q.ID)
		}
	}

	marked, err := engine.Start(domain.ModeBookmark, bank, app.SessionConfig{Bookmarks: []int{6}})
	if err != nil {
		t.Fatalf("bookmark start failed: %v", err)
	}
	if marked.Total() != 1 || marked.Questions()[0].ID != 6 {
		t.Fatalf("expected bookmarked question 6, got %+v", marked.Questions())
	}
}

func TestExamFillsFromSmallBank(t *testing.T) {
	engine := seededEngine(nil)
	s, err := engine.Start(domain.ModeExam, bankOf(50), app.SessionConfig{Exam: domain.ExamA})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if s.Total() != 160 {
		t.Fatalf("expected 160 questions, got %d", s.Total())
	}
	counts := map[int]int{}
	for _, q := range s.Questions() {
		counts[q.ID]++
	}
	if len(counts) != 50 {
		t.Fatalf("expected all 50 questions used, got %d", len(counts))
	}
	for id, n := range counts {
		if n != 3 && n != 4 {
			t.Fatalf("question %d appears %d times", id, n)
		}
	}
	if s.Exam() != domain.ExamA {
		t.Fatalf("expected exam A, got %q", s.Exam())
	}
}

func TestExamFromLargeBankHasNoRepeats(t *testing.T) {
	engine := seededEngine(nil)
	s, err := engine.Start(domain.ModeExam, bankOf(100), app.SessionConfig{Exam: domain.ExamB})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if s.Total() != 60 {
		t.Fatalf("expected 60 questions, got %d", s.Total())
	}
	seen := map[int]bool{}
	for _, q := range s.Questions() {
		if seen[q.ID] {
			t.Fatalf("question %d repeated", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSeededEnginesShuffleAlike(t *testing.T) {
	a, err := seededEngine(nil).Start(domain.ModeRandom, bankOf(20), app.SessionConfig{})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	b, err := seededEngine(nil).Start(domain.ModeRandom, bankOf(20), app.SessionConfig{})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	qa, qb := a.Questions(), b.Questions()
	for i := range qa {
		if qa[i].ID != qb[i].ID {
			t.Fatalf("same seed produced different order at %d", i)
		}
	}
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct session ids")
	}
}
