package app

import (
	"fmt"
	"sync"
	"time"
)

// LowTimeThreshold marks the point where the countdown turns "low".
const LowTimeThreshold = 5 * time.Minute

// Ticker is the periodic source a Timer counts down on.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewRealTicker wraps time.Ticker.
func NewRealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

// TimerEvent is delivered once per tick.
type TimerEvent struct {
	Remaining time.Duration
	Low       bool
	Expired   bool
}

// Timer counts an exam down one second per tick. At zero it delivers an
// Expired event and stops itself.
type Timer struct {
	mu        sync.Mutex
	remaining time.Duration
	stopped   bool
	quit      chan struct{}
	once      sync.Once
	ticker    Ticker
	onTick    func(*Timer, TimerEvent)
}

// StartTimer begins a countdown of d. onTick runs on the timer goroutine.
func StartTimer(d time.Duration, newTicker TickerFunc, onTick func(*Timer, TimerEvent)) *Timer {
	if newTicker == nil {
		newTicker = NewRealTicker
	}
	t := &Timer{
		remaining: d,
		quit:      make(chan struct{}),
		ticker:    newTicker(time.Second),
		onTick:    onTick,
	}
	go t.run()
	return t
}

func (t *Timer) run() {
	defer t.ticker.Stop()
	for {
		select {
		case <-t.quit:
			return
		case <-t.ticker.C():
			ev, ok := t.tick()
			if !ok {
				return
			}
			t.onTick(t, ev)
			if ev.Expired {
				return
			}
		}
	}
}

func (t *Timer) tick() (TimerEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return TimerEvent{}, false
	}
	t.remaining -= time.Second
	if t.remaining <= 0 {
		t.remaining = 0
		t.stopped = true
	}
	return TimerEvent{
		Remaining: t.remaining,
		Low:       t.remaining <= LowTimeThreshold,
		Expired:   t.remaining == 0,
	}, true
}

// Stop cancels the countdown. Safe to call more than once.
func (t *Timer) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
	t.once.Do(func() { close(t.quit) })
}

// Remaining is the time left on the clock.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Stopped reports whether the timer was cancelled or ran out.
func (t *Timer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// FormatClock renders d as MM:SS.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
