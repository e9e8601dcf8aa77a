package app

import "gait-quiz/internal/domain"

// State is a session's lifecycle position.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "in-progress"
	case StateCompleted:
		return "completed"
	}
	return "not-started"
}

// Session is one quiz run. It is not safe for concurrent use; QuizService
// serializes access.
type Session struct {
	id        string
	mode      domain.Mode
	exam      domain.ExamType
	category  string
	questions []domain.Question
	index     int
	score     int
	answers   []domain.AnswerRecord
	answered  bool // current question has an answer
	state     State
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Mode() domain.Mode     { return s.mode }
func (s *Session) Exam() domain.ExamType { return s.exam }
func (s *Session) Category() string      { return s.category }
func (s *Session) State() State          { return s.state }
func (s *Session) Index() int            { return s.index }
func (s *Session) Score() int            { return s.score }
func (s *Session) Total() int            { return len(s.questions) }

// Answered reports whether the current question already has an answer.
func (s *Session) Answered() bool { return s.answered }

// Questions returns a copy of the session's question list.
func (s *Session) Questions() []domain.Question {
	return append([]domain.Question(nil), s.questions...)
}

// Answers returns a copy of the answer log.
func (s *Session) Answers() []domain.AnswerRecord {
	return append([]domain.AnswerRecord(nil), s.answers...)
}

// Current returns the question at the cursor.
func (s *Session) Current() (domain.Question, bool) {
	if s.state != StateInProgress || s.index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

// Progress is the fraction of questions already passed, in [0,1].
func (s *Session) Progress() float64 {
	if len(s.questions) == 0 {
		return 0
	}
	if s.state == StateCompleted {
		return 1
	}
	return float64(s.index) / float64(len(s.questions))
}

// Answer records selected for the current question.
func (s *Session) Answer(selected int) (domain.AnswerRecord, error) {
	q, ok := s.Current()
	if !ok {
		return domain.AnswerRecord{}, domain.ErrSessionNotActive
	}
	if s.answered {
		return domain.AnswerRecord{}, domain.ErrAlreadyAnswered
	}
	if selected < 0 || selected >= len(q.Choices) {
		return domain.AnswerRecord{}, domain.ErrChoiceOutOfRange
	}

	rec := domain.AnswerRecord{Question: q, Selected: selected, Correct: selected == q.Answer}
	s.answers = append(s.answers, rec)
	if rec.Correct {
		s.score++
	}
	s.answered = true
	return rec, nil
}

// Advance moves past the answered current question. It reports true when the
// session has just completed.
func (s *Session) Advance() (bool, error) {
	if s.state != StateInProgress {
		return false, domain.ErrSessionNotActive
	}
	if !s.answered {
		return false, domain.ErrNotAnswered
	}
	s.index++
	s.answered = false
	if s.index >= len(s.questions) {
		s.state = StateCompleted
		return true, nil
	}
	return false, nil
}

// Expire force-completes the session. An unanswered current question is
// simply absent from the answer log.
func (s *Session) Expire() {
	if s.state == StateInProgress {
		s.state = StateCompleted
	}
}

// IsLast reports whether the cursor is on the final question.
func (s *Session) IsLast() bool {
	return s.index >= len(s.questions)-1
}

// Result summarizes the session for the ledger.
func (s *Session) Result() domain.SessionResult {
	return domain.SessionResult{
		Mode:    s.mode,
		Exam:    s.exam,
		Score:   s.score,
		Total:   len(s.questions),
		Answers: s.Answers(),
	}
}
