package domain

import (
	"fmt"
	"sort"
)

// Question is one multiple-choice item of the bank. Immutable once loaded.
type Question struct {
	ID          int      `json:"id"`
	Category    string   `json:"category"`
	Question    string   `json:"question"`
	Choices     []string `json:"choices"`
	Answer      int      `json:"answer"` // index into Choices
	Explanation string   `json:"explanation"`
}

// Bank is the question bank asset document.
type Bank struct {
	Questions []Question `json:"questions"`
}

// AnswerRecord is one submitted answer within a session.
type AnswerRecord struct {
	Question Question `json:"question"`
	Selected int      `json:"selected"`
	Correct  bool     `json:"correct"`
}

// Mode selects how a session draws its questions.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeRandom     Mode = "random"
	ModeReview     Mode = "review"
	ModeBookmark   Mode = "bookmark"
	ModeExam       Mode = "exam"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeSequential, ModeRandom, ModeReview, ModeBookmark, ModeExam:
		return true
	}
	return false
}

// SessionResult is what a completed session hands to the ledger.
type SessionResult struct {
	Mode    Mode
	Exam    ExamType
	Score   int
	Total   int
	Answers []AnswerRecord
}

// Categories returns the distinct categories of qs, sorted.
func Categories(qs []Question) []string {
	seen := make(map[string]struct{}, len(qs))
	out := make([]string, 0)
	for _, q := range qs {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	sort.Strings(out)
	return out
}

// FilterByCategory returns a copy of the questions in category. An empty
// category or "all" selects the whole bank.
func FilterByCategory(qs []Question, category string) []Question {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		if category == "" || category == AllCategories || q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// AllCategories is the filter value that selects every question.
const AllCategories = "all"

// ChoiceCount is the number of choices every question carries.
const ChoiceCount = 4

// Validate checks the structural invariants of a loaded question.
func (q Question) Validate() error {
	if len(q.Choices) != ChoiceCount {
		return fmt.Errorf("question %d has %d choices: %w", q.ID, len(q.Choices), ErrInvalidQuestion)
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		return fmt.Errorf("question %d answer %d out of range: %w", q.ID, q.Answer, ErrInvalidQuestion)
	}
	return nil
}

// CleanBank drops invalid and duplicate-id questions, keeping bank order.
// It returns the problems it skipped.
func CleanBank(qs []Question) ([]Question, []error) {
	out := make([]Question, 0, len(qs))
	seen := make(map[int]struct{}, len(qs))
	var problems []error
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if _, dup := seen[q.ID]; dup {
			problems = append(problems, fmt.Errorf("question %d: duplicate id: %w", q.ID, ErrInvalidQuestion))
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out, problems
}
