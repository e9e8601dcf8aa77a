package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"gait-quiz/internal/domain"
)

// DefaultKey is the storage key the ledger blob lives under.
const DefaultKey = "gait_quiz_data"

// Store is the key/value persistence port (string values, get/set by key).
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Book owns the in-memory ledger and writes it back to the store after every
// mutation. A Book is not safe for concurrent use; callers serialize access.
type Book struct {
	store   Store
	key     string
	now     func() time.Time
	specs   map[domain.ExamType]domain.ExamSpec
	current Ledger
}

// Open loads the ledger under key. A missing, unreadable or malformed value
// yields an empty ledger; Open never fails.
func Open(ctx context.Context, store Store, key string, specs map[domain.ExamType]domain.ExamSpec) *Book {
	return OpenWithClock(ctx, store, key, specs, time.Now)
}

// OpenWithClock is Open with an injectable clock, for deterministic dates in tests.
func OpenWithClock(ctx context.Context, store Store, key string, specs map[domain.ExamType]domain.ExamSpec, now func() time.Time) *Book {
	if key == "" {
		key = DefaultKey
	}
	if specs == nil {
		specs = domain.DefaultExamSpecs()
	}
	b := &Book{store: store, key: key, now: now, specs: specs, current: Default()}
	b.current = b.read(ctx)
	return b
}

func (b *Book) read(ctx context.Context) Ledger {
	raw, ok, err := b.store.Get(ctx, b.key)
	if err != nil {
		log.Printf("ledger read failed, starting empty: %v", err)
		return Default()
	}
	if !ok {
		return Default()
	}
	l, err := Decode(raw)
	if err != nil {
		log.Printf("stored ledger is malformed, starting empty: %v", err)
		return Default()
	}
	return l
}

// Snapshot returns a copy of the current ledger.
func (b *Book) Snapshot() Ledger {
	return b.current.Clone()
}

// Today is the ledger's notion of the current calendar day.
func (b *Book) Today() time.Time {
	return b.now().UTC()
}

// Specs returns the exam formats used for scoring.
func (b *Book) Specs() map[domain.ExamType]domain.ExamSpec {
	return b.specs
}

// Finalize records a completed session and persists the ledger. Either the
// whole update is stored and becomes visible, or nothing changes.
func (b *Book) Finalize(ctx context.Context, result domain.SessionResult) (*ExamRecord, error) {
	next := b.current.Clone()
	exam, err := next.Apply(result, b.Today().Format(DateLayout), b.specs)
	if err != nil {
		return nil, err
	}
	if err := b.commit(ctx, next); err != nil {
		return nil, err
	}
	return exam, nil
}

// ToggleBookmark flips id in the bookmark set and persists. It reports
// whether id is bookmarked afterwards.
func (b *Book) ToggleBookmark(ctx context.Context, id int) (bool, error) {
	next := b.current.Clone()
	added := next.ToggleBookmark(id)
	if err := b.commit(ctx, next); err != nil {
		return b.current.IsBookmarked(id), err
	}
	return added, nil
}

// Clear resets the ledger to empty defaults. Irreversible; confirmation is the
// caller's job.
func (b *Book) Clear(ctx context.Context) error {
	return b.commit(ctx, Default())
}

func (b *Book) commit(ctx context.Context, next Ledger) error {
	raw, err := Encode(next)
	if err != nil {
		return err
	}
	if err := b.store.Set(ctx, b.key, raw); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	b.current = next
	return nil
}
