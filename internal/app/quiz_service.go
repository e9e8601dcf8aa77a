package app

import (
	"context"
	"log"
	"sync"
	"time"

	"gait-quiz/internal/analytics"
	"gait-quiz/internal/domain"
	"gait-quiz/internal/ledger"
)

// BankRepository returns the question bank.
type BankRepository interface {
	GetBank(ctx context.Context) ([]domain.Question, error)
}

// LoadBank fetches the bank once. A failure is logged and degrades to an
// empty bank so every later start reports no questions.
func LoadBank(ctx context.Context, repo BankRepository) []domain.Question {
	qs, err := repo.GetBank(ctx)
	if err != nil {
		log.Printf("question bank unavailable: %v", err)
		return []domain.Question{}
	}
	log.Printf("loaded %d questions", len(qs))
	return qs
}

type startRequest struct {
	mode domain.Mode
	cfg  SessionConfig
}

// QuizService is the intent boundary: every user intent and every timer tick
// runs under one mutex.
type QuizService struct {
	mu          sync.Mutex
	bank        []domain.Question
	byID        map[int]domain.Question
	book        *ledger.Book
	engine      *Engine
	newTicker   TickerFunc
	category    string
	session     *Session
	last        *startRequest
	timer       *Timer
	subscribers map[chan Update]struct{}
}

func NewQuizService(bank []domain.Question, book *ledger.Book, engine *Engine) *QuizService {
	return NewQuizServiceWithTicker(bank, book, engine, NewRealTicker)
}

// NewQuizServiceWithTicker lets tests drive the exam clock by hand.
func NewQuizServiceWithTicker(bank []domain.Question, book *ledger.Book, engine *Engine, newTicker TickerFunc) *QuizService {
	byID := make(map[int]domain.Question, len(bank))
	for _, q := range bank {
		byID[q.ID] = q
	}
	return &QuizService{
		bank:        bank,
		byID:        byID,
		book:        book,
		engine:      engine,
		newTicker:   newTicker,
		category:    domain.AllCategories,
		subscribers: make(map[chan Update]struct{}),
	}
}

// SetCategory changes the filter used by sequential and random starts and
// returns how many questions it selects.
func (s *QuizService) SetCategory(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if category == "" {
		category = domain.AllCategories
	}
	s.category = category
	return len(domain.FilterByCategory(s.bank, category))
}

// Start begins a new session, replacing any current one. exam is only
// consulted for domain.ModeExam.
func (s *QuizService) Start(ctx context.Context, mode domain.Mode, exam domain.ExamType) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.book.Snapshot()
	req := startRequest{
		mode: mode,
		cfg: SessionConfig{
			Category:       s.category,
			Exam:           exam,
			WrongQuestions: snap.WrongQuestions,
			Bookmarks:      snap.Bookmarks,
		},
	}
	return s.startLocked(req)
}

// Retry restarts the previous session's mode with the same options.
func (s *QuizService) Retry(ctx context.Context) (QuestionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return QuestionView{}, domain.ErrNothingToRetry
	}
	req := *s.last
	snap := s.book.Snapshot()
	req.cfg.WrongQuestions = snap.WrongQuestions
	req.cfg.Bookmarks = snap.Bookmarks
	return s.startLocked(req)
}

func (s *QuizService) startLocked(req startRequest) (QuestionView, error) {
	session, err := s.engine.Start(req.mode, s.bank, req.cfg)
	if err != nil {
		return QuestionView{}, err
	}

	s.stopTimerLocked()
	s.session = session
	s.last = &req

	if req.mode == domain.ModeExam {
		spec, _ := s.engine.Spec(req.cfg.Exam)
		s.timer = StartTimer(spec.Duration, s.newTicker, s.onTick)
	}
	log.Printf("session %s started: mode=%s questions=%d", session.ID(), session.Mode(), session.Total())
	return s.questionViewLocked(), nil
}

// Answer submits selected for the current question.
func (s *QuizService) Answer(ctx context.Context, selected int) (AnswerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return AnswerView{}, domain.ErrSessionNotActive
	}
	rec, err := s.session.Answer(selected)
	if err != nil {
		return AnswerView{}, err
	}
	return AnswerView{
		QuestionID:  rec.Question.ID,
		Selected:    rec.Selected,
		Answer:      rec.Question.Answer,
		Correct:     rec.Correct,
		Explanation: rec.Question.Explanation,
		Score:       s.session.Score(),
		Last:        s.session.IsLast(),
	}, nil
}

// Advance moves to the next question, or completes and records the session.
func (s *QuizService) Advance(ctx context.Context) (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return Step{}, domain.ErrSessionNotActive
	}
	done, err := s.session.Advance()
	if err != nil {
		return Step{}, err
	}
	if done {
		result := s.finishLocked(ctx)
		return Step{Result: &result}, nil
	}
	q := s.questionViewLocked()
	return Step{Question: &q}, nil
}

// Current returns the question at the cursor, if a session is in progress.
func (s *QuizService) Current() (QuestionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.State() != StateInProgress {
		return QuestionView{}, false
	}
	return s.questionViewLocked(), true
}

// Home abandons any running session without recording it.
func (s *QuizService) Home(ctx context.Context) Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimerLocked()
	s.session = nil
	return s.dashboardLocked()
}

// Dashboard returns the home screen values.
func (s *QuizService) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dashboardLocked()
}

// ToggleBookmark flips the bookmark on a question and reports the new state.
func (s *QuizService) ToggleBookmark(ctx context.Context, questionID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[questionID]; !ok {
		return false, domain.ErrQuestionNotFound
	}
	return s.book.ToggleBookmark(ctx, questionID)
}

// ClearData wipes the ledger. confirmed must come from an explicit user
// confirmation.
func (s *QuizService) ClearData(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.book.Clear(ctx); err != nil {
		return err
	}
	log.Printf("learning history cleared")
	return nil
}

// Subscribe returns a channel of timer and completion updates.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *QuizService) onTick(t *Timer, ev TimerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// ticks from a cancelled or replaced timer are dropped
	if s.timer != t || s.session == nil {
		return
	}
	if ev.Expired {
		s.session.Expire()
		result := s.finishLocked(context.Background())
		s.broadcastLocked(Update{Type: UpdateCompleted, Result: &result})
		return
	}
	view := timerView(ev.Remaining)
	s.broadcastLocked(Update{Type: UpdateTimer, Timer: &view})
}

func (s *QuizService) broadcastLocked(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// drop the oldest pending update so a slow reader never blocks the clock
			select {
			case <-ch:
			default:
			}
			ch <- u
		}
	}
}

func (s *QuizService) finishLocked(ctx context.Context) ResultView {
	s.stopTimerLocked()
	session := s.session
	result := session.Result()

	view := ResultView{
		Mode:       result.Mode,
		Score:      result.Score,
		Total:      result.Total,
		Percent:    analytics.Percent(result.Score, result.Total),
		Categories: analytics.SessionBreakdown(result.Answers),
	}
	exam, err := s.book.Finalize(ctx, result)
	if err != nil {
		log.Printf("session %s not recorded: %v", session.ID(), err)
	} else {
		view.Saved = true
	}
	if exam != nil {
		spec, _ := s.engine.Spec(exam.Type)
		view.Exam = &ExamView{Type: exam.Type, Score: exam.Score, MaxScore: spec.MaxScore, Rank: exam.Rank}
	}
	log.Printf("session %s completed: %d/%d", session.ID(), result.Score, result.Total)
	return view
}

func (s *QuizService) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *QuizService) questionViewLocked() QuestionView {
	q, _ := s.session.Current()
	snap := s.book.Snapshot()
	view := QuestionView{
		SessionID:  s.session.ID(),
		Mode:       s.session.Mode(),
		Exam:       s.session.Exam(),
		QuestionID: q.ID,
		Number:     s.session.Index() + 1,
		Total:      s.session.Total(),
		Progress:   analytics.Percent(s.session.Index(), s.session.Total()),
		Category:   q.Category,
		Question:   q.Question,
		Choices:    append([]string(nil), q.Choices...),
		Bookmarked: snap.IsBookmarked(q.ID),
		Score:      s.session.Score(),
	}
	if s.timer != nil {
		tv := timerView(s.timer.Remaining())
		view.Timer = &tv
	}
	return view
}

func (s *QuizService) dashboardLocked() Dashboard {
	snap := s.book.Snapshot()
	summary := analytics.Summarize(snap, s.book.Today())
	return Dashboard{
		Summary:         summary,
		Categories:      domain.Categories(s.bank),
		Category:        s.category,
		QuestionCount:   len(domain.FilterByCategory(s.bank, s.category)),
		ReviewAvailable: summary.ReviewCount > 0,
	}
}

func timerView(remaining time.Duration) TimerView {
	return TimerView{
		Display: FormatClock(remaining),
		Seconds: int(remaining / time.Second),
		Low:     remaining <= LowTimeThreshold,
	}
}
