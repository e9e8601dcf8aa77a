package ledger

import (
	"encoding/json"
	"fmt"

	"gait-quiz/internal/domain"
)

// DateLayout is the calendar-day format used for history and exam entries.
const DateLayout = "2006-01-02"

// HistoryEntry summarizes one completed session.
type HistoryEntry struct {
	Date     string `json:"date"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	IsReview bool   `json:"isReview"`
}

// CategoryStat holds cumulative answer counters for a category.
type CategoryStat struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// ExamRecord is one completed mock exam.
type ExamRecord struct {
	Date    string          `json:"date"`
	Type    domain.ExamType `json:"type"`
	Score   int             `json:"score"`
	Rank    domain.Rank     `json:"rank"`
	Correct int             `json:"correct"`
	Total   int             `json:"total"`
}

// Ledger is the durable learning history.
type Ledger struct {
	History        []HistoryEntry          `json:"history"`
	WrongQuestions []int                   `json:"wrongQuestions"`
	CategoryStats  map[string]CategoryStat `json:"categoryStats"`
	ExamHistory    []ExamRecord            `json:"examHistory"`
	Bookmarks      []int                   `json:"bookmarks"`

	// top-level fields this version does not know about, kept verbatim
	extra map[string]json.RawMessage
}

// Default returns an empty ledger.
func Default() Ledger {
	return Ledger{
		History:        []HistoryEntry{},
		WrongQuestions: []int{},
		CategoryStats:  map[string]CategoryStat{},
		ExamHistory:    []ExamRecord{},
		Bookmarks:      []int{},
	}
}

// Clone returns a deep copy of l.
func (l Ledger) Clone() Ledger {
	out := Ledger{
		History:        append([]HistoryEntry{}, l.History...),
		WrongQuestions: append([]int{}, l.WrongQuestions...),
		CategoryStats:  make(map[string]CategoryStat, len(l.CategoryStats)),
		ExamHistory:    append([]ExamRecord{}, l.ExamHistory...),
		Bookmarks:      append([]int{}, l.Bookmarks...),
	}
	for k, v := range l.CategoryStats {
		out.CategoryStats[k] = v
	}
	if len(l.extra) > 0 {
		out.extra = make(map[string]json.RawMessage, len(l.extra))
		for k, v := range l.extra {
			out.extra[k] = append(json.RawMessage{}, v...)
		}
	}
	return out
}

// Apply folds a completed session into the ledger. specs is consulted for
// exam sessions only.
func (l *Ledger) Apply(result domain.SessionResult, date string, specs map[domain.ExamType]domain.ExamSpec) (*ExamRecord, error) {
	var exam *ExamRecord
	if result.Mode == domain.ModeExam {
		spec, ok := specs[result.Exam]
		if !ok {
			return nil, fmt.Errorf("finalize exam %q: %w", result.Exam, domain.ErrUnknownExamType)
		}
		score, rank := spec.Scale(result.Score, result.Total)
		exam = &ExamRecord{
			Date:    date,
			Type:    result.Exam,
			Score:   score,
			Rank:    rank,
			Correct: result.Score,
			Total:   result.Total,
		}
	}

	l.History = append(l.History, HistoryEntry{
		Date:     date,
		Correct:  result.Score,
		Total:    result.Total,
		IsReview: result.Mode == domain.ModeReview,
	})

	if l.CategoryStats == nil {
		l.CategoryStats = map[string]CategoryStat{}
	}
	for _, a := range result.Answers {
		id := a.Question.ID
		if a.Correct {
			l.WrongQuestions = removeID(l.WrongQuestions, id)
		} else {
			l.WrongQuestions = addID(l.WrongQuestions, id)
		}

		stat := l.CategoryStats[a.Question.Category]
		stat.Total++
		if a.Correct {
			stat.Correct++
		}
		l.CategoryStats[a.Question.Category] = stat
	}

	if exam != nil {
		l.ExamHistory = append(l.ExamHistory, *exam)
	}
	return exam, nil
}

// ToggleBookmark adds id when absent and removes it when present. It reports
// whether id is bookmarked afterwards.
func (l *Ledger) ToggleBookmark(id int) bool {
	if containsID(l.Bookmarks, id) {
		l.Bookmarks = removeID(l.Bookmarks, id)
		return false
	}
	l.Bookmarks = addID(l.Bookmarks, id)
	return true
}

// IsBookmarked reports whether id is in the bookmark set.
func (l Ledger) IsBookmarked(id int) bool {
	return containsID(l.Bookmarks, id)
}

// IsWrong reports whether id is flagged for review.
func (l Ledger) IsWrong(id int) bool {
	return containsID(l.WrongQuestions, id)
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func addID(ids []int, id int) []int {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}
