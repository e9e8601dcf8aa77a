// Package analytics derives display values from the ledger and session
// results. Every function is pure.
package analytics

import (
	"math"
	"sort"
	"time"

	"gait-quiz/internal/domain"
	"gait-quiz/internal/ledger"
)

// Tier is a category mastery band.
type Tier string

const (
	TierMastered  Tier = "mastered"
	TierLearning  Tier = "learning"
	TierNeedsWork Tier = "needs-work"
)

// CategoryRate is one row of the weak-category and mastery views.
type CategoryRate struct {
	Category string `json:"category"`
	Rate     int    `json:"rate"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Tier     Tier   `json:"tier"`
}

// Percent is round(100*part/whole), 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// OverallRate is the correct percentage across all recorded sessions.
func OverallRate(history []ledger.HistoryEntry) int {
	var correct, total int
	for _, h := range history {
		correct += h.Correct
		total += h.Total
	}
	return Percent(correct, total)
}

// CategoryRateOf is the correct percentage for one category's counters.
func CategoryRateOf(stat ledger.CategoryStat) int {
	return Percent(stat.Correct, stat.Total)
}

// TierFor maps a rate to its mastery band.
func TierFor(rate int) Tier {
	switch {
	case rate >= 80:
		return TierMastered
	case rate >= 60:
		return TierLearning
	}
	return TierNeedsWork
}

func rates(stats map[string]ledger.CategoryStat) []CategoryRate {
	out := make([]CategoryRate, 0, len(stats))
	for name, s := range stats {
		r := CategoryRateOf(s)
		out = append(out, CategoryRate{Category: name, Rate: r, Correct: s.Correct, Total: s.Total, Tier: TierFor(r)})
	}
	return out
}

// WeakCategories lists categories weakest first. Ties keep name order.
func WeakCategories(stats map[string]ledger.CategoryStat) []CategoryRate {
	out := rates(stats)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate < out[j].Rate
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Mastery lists categories strongest first.
func Mastery(stats map[string]ledger.CategoryStat) []CategoryRate {
	out := rates(stats)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rate != out[j].Rate {
			return out[i].Rate > out[j].Rate
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Streak counts consecutive active days ending today or yesterday.
func Streak(history []ledger.HistoryEntry, now time.Time) int {
	days := make(map[string]struct{}, len(history))
	for _, h := range history {
		days[h.Date] = struct{}{}
	}
	dates := make([]time.Time, 0, len(days))
	for d := range days {
		t, err := time.Parse(ledger.DateLayout, d)
		if err != nil {
			continue
		}
		dates = append(dates, t)
	}
	if len(dates) == 0 {
		return 0
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	today := truncateDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !dates[0].Equal(today) && !dates[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(dates); i++ {
		if !dates[i].Equal(dates[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// ExamScore scales a raw exam result and ranks it.
func ExamScore(spec domain.ExamSpec, raw, total int) (int, domain.Rank) {
	return spec.Scale(raw, total)
}

// DayBucket is one day of the trend series.
type DayBucket struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

// Series is the last-7-days trend; Max is the largest bucket total, for scaling.
type Series struct {
	Days []DayBucket `json:"days"`
	Max  int         `json:"max"`
}

// Last7Days aggregates history into seven daily buckets, oldest first,
// ending today.
func Last7Days(history []ledger.HistoryEntry, now time.Time) Series {
	today := truncateDay(now)
	s := Series{Days: make([]DayBucket, 7)}
	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		d := today.AddDate(0, 0, i-6).Format(ledger.DateLayout)
		s.Days[i] = DayBucket{Date: d}
		index[d] = i
	}
	for _, h := range history {
		if i, ok := index[h.Date]; ok {
			s.Days[i].Total += h.Total
			s.Days[i].Correct += h.Correct
		}
	}
	for _, d := range s.Days {
		if d.Total > s.Max {
			s.Max = d.Total
		}
	}
	return s
}

// CategoryScore is a per-category score within a single session.
type CategoryScore struct {
	Category string `json:"category"`
	Correct  int    `json:"correct"`
	Total    int    `json:"total"`
	Percent  int    `json:"percent"`
}

// SessionBreakdown groups one session's answers by category, sorted by name.
func SessionBreakdown(answers []domain.AnswerRecord) []CategoryScore {
	byCat := map[string]*CategoryScore{}
	for _, a := range answers {
		c, ok := byCat[a.Question.Category]
		if !ok {
			c = &CategoryScore{Category: a.Question.Category}
			byCat[a.Question.Category] = c
		}
		c.Total++
		if a.Correct {
			c.Correct++
		}
	}
	out := make([]CategoryScore, 0, len(byCat))
	for _, c := range byCat {
		c.Percent = Percent(c.Correct, c.Total)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// Summary is the dashboard aggregate.
type Summary struct {
	Sessions    int                 `json:"sessions"`
	OverallRate int                 `json:"overallRate"`
	ReviewCount int                 `json:"reviewCount"`
	Bookmarks   int                 `json:"bookmarks"`
	Streak      int                 `json:"streak"`
	Weak        []CategoryRate      `json:"weakCategories"`
	Mastery     []CategoryRate      `json:"mastery"`
	Trend       Series              `json:"trend"`
	Exams       []ledger.ExamRecord `json:"exams"`
}

// Summarize derives every dashboard value from l.
func Summarize(l ledger.Ledger, now time.Time) Summary {
	return Summary{
		Sessions:    len(l.History),
		OverallRate: OverallRate(l.History),
		ReviewCount: len(l.WrongQuestions),
		Bookmarks:   len(l.Bookmarks),
		Streak:      Streak(l.History, now),
		Weak:        WeakCategories(l.CategoryStats),
		Mastery:     Mastery(l.CategoryStats),
		Trend:       Last7Days(l.History, now),
		Exams:       append([]ledger.ExamRecord{}, l.ExamHistory...),
	}
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
