package domain

import (
	"math"
	"time"
)

// ExamType identifies a mock exam format.
type ExamType string

const (
	ExamA ExamType = "A"
	ExamB ExamType = "B"
)

// Rank is the medal awarded for a scaled exam score.
type Rank string

const (
	RankNone   Rank = ""
	RankGold   Rank = "gold"
	RankSilver Rank = "silver"
	RankBronze Rank = "bronze"
)

// ExamSpec describes length, time limit and score scale of an exam type.
type ExamSpec struct {
	Type      ExamType
	Questions int
	Duration  time.Duration
	MaxScore  int
	Gold      int
	Silver    int
	Bronze    int
}

// DefaultExamSpecs returns the built-in exam formats.
func DefaultExamSpecs() map[ExamType]ExamSpec {
	return map[ExamType]ExamSpec{
		ExamA: {Type: ExamA, Questions: 160, Duration: 60 * time.Minute, MaxScore: 990, Gold: 800, Silver: 600, Bronze: 400},
		ExamB: {Type: ExamB, Questions: 60, Duration: 30 * time.Minute, MaxScore: 300, Gold: 240, Silver: 180, Bronze: 120},
	}
}

// Scale converts a raw correct count into the exam's scaled score and rank.
func (s ExamSpec) Scale(raw, total int) (int, Rank) {
	if total <= 0 {
		return 0, RankNone
	}
	score := int(math.Round(float64(raw) * float64(s.MaxScore) / float64(total)))
	return score, s.RankFor(score)
}

// RankFor maps a scaled score to a rank using the exam thresholds.
func (s ExamSpec) RankFor(score int) Rank {
	switch {
	case score >= s.Gold:
		return RankGold
	case score >= s.Silver:
		return RankSilver
	case score >= s.Bronze:
		return RankBronze
	}
	return RankNone
}
