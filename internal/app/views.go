package app

import (
	"gait-quiz/internal/analytics"
	"gait-quiz/internal/domain"
)

// TimerView is the rendered countdown.
type TimerView struct {
	Display string `json:"display"`
	Seconds int    `json:"seconds"`
	Low     bool   `json:"low"`
}

// QuestionView is everything needed to render the current question.
type QuestionView struct {
	SessionID  string          `json:"sessionId"`
	Mode       domain.Mode     `json:"mode"`
	Exam       domain.ExamType `json:"exam,omitempty"`
	QuestionID int             `json:"questionId"`
	Number     int             `json:"number"`
	Total      int             `json:"total"`
	Progress   int             `json:"progress"` // percent
	Category   string          `json:"category"`
	Question   string          `json:"question"`
	Choices    []string        `json:"choices"`
	Bookmarked bool            `json:"bookmarked"`
	Score      int             `json:"score"`
	Timer      *TimerView      `json:"timer,omitempty"`
}

// AnswerView is the feedback for one answer.
type AnswerView struct {
	QuestionID  int    `json:"questionId"`
	Selected    int    `json:"selected"`
	Answer      int    `json:"answer"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
	Score       int    `json:"score"`
	Last        bool   `json:"last"`
}

// ExamView is the scaled result of a mock exam.
type ExamView struct {
	Type     domain.ExamType `json:"type"`
	Score    int             `json:"score"`
	MaxScore int             `json:"maxScore"`
	Rank     domain.Rank     `json:"rank"`
}

// ResultView is the end-of-session screen.
type ResultView struct {
	Mode       domain.Mode               `json:"mode"`
	Score      int                       `json:"score"`
	Total      int                       `json:"total"`
	Percent    int                       `json:"percent"`
	Categories []analytics.CategoryScore `json:"categories"`
	Exam       *ExamView                 `json:"exam,omitempty"`
	Saved      bool                      `json:"saved"`
}

// Step is the outcome of advance: the next question or the final result.
type Step struct {
	Question *QuestionView `json:"question,omitempty"`
	Result   *ResultView   `json:"result,omitempty"`
}

// Dashboard is the home screen.
type Dashboard struct {
	analytics.Summary
	Categories      []string `json:"categories"`
	Category        string   `json:"category"`
	QuestionCount   int      `json:"questionCount"`
	ReviewAvailable bool     `json:"reviewAvailable"`
}

// Update is pushed to subscribers outside the request/response flow.
type Update struct {
	Type   string      `json:"type"`
	Timer  *TimerView  `json:"timer,omitempty"`
	Result *ResultView `json:"result,omitempty"`
}

const (
	UpdateTimer     = "timer"
	UpdateCompleted = "completed"
)
