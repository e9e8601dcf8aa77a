package ledger

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is written into every encoded ledger.
//
//	1: history, wrongQuestions, categoryStats
//	2: adds examHistory and bookmarks
const SchemaVersion = 2

// Decode parses a stored ledger blob. Fields missing from older payloads
// default to empty collections and unknown fields are carried through to the
// next Encode. On malformed input it returns Default() and a non-nil error.
func Decode(raw string) (Ledger, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Default(), fmt.Errorf("decode ledger: %w", err)
	}

	l := Default()
	version := 1
	for key, value := range fields {
		var err error
		switch key {
		case "version":
			err = json.Unmarshal(value, &version)
		case "history":
			err = json.Unmarshal(value, &l.History)
		case "wrongQuestions":
			err = json.Unmarshal(value, &l.WrongQuestions)
		case "categoryStats":
			err = json.Unmarshal(value, &l.CategoryStats)
		case "examHistory":
			err = json.Unmarshal(value, &l.ExamHistory)
		case "bookmarks":
			err = json.Unmarshal(value, &l.Bookmarks)
		default:
			if l.extra == nil {
				l.extra = make(map[string]json.RawMessage)
			}
			l.extra[key] = value
		}
		if err != nil {
			return Default(), fmt.Errorf("decode ledger field %q: %w", key, err)
		}
	}

	upgrade(&l, version)
	normalize(&l)
	return l, nil
}

// Encode serializes l at the current schema version.
func Encode(l Ledger) (string, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode ledger: %w", err)
	}
	return string(data), nil
}

// MarshalJSON writes the known fields plus any preserved unknown ones.
func (l Ledger) MarshalJSON() ([]byte, error) {
	n := normalizedCopy(l)
	out := make(map[string]any, len(n.extra)+6)
	for k, v := range n.extra {
		out[k] = v
	}
	out["version"] = SchemaVersion
	out["history"] = n.History
	out["wrongQuestions"] = n.WrongQuestions
	out["categoryStats"] = n.CategoryStats
	out["examHistory"] = n.ExamHistory
	out["bookmarks"] = n.Bookmarks
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON; it applies the same upgrade
// rules as Decode.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(string(data))
	if err != nil {
		return err
	}
	*l = decoded
	return nil
}

// upgrade fills fields introduced after the stored version.
func upgrade(l *Ledger, from int) {
	if from < 2 {
		if l.ExamHistory == nil {
			l.ExamHistory = []ExamRecord{}
		}
		if l.Bookmarks == nil {
			l.Bookmarks = []int{}
		}
	}
}

// normalize restores collection invariants on data read from outside.
func normalize(l *Ledger) {
	if l.History == nil {
		l.History = []HistoryEntry{}
	}
	if l.ExamHistory == nil {
		l.ExamHistory = []ExamRecord{}
	}
	if l.CategoryStats == nil {
		l.CategoryStats = map[string]CategoryStat{}
	}
	l.WrongQuestions = dedupe(l.WrongQuestions)
	l.Bookmarks = dedupe(l.Bookmarks)
	for k, s := range l.CategoryStats {
		if s.Total < 0 {
			s.Total = 0
		}
		if s.Correct < 0 {
			s.Correct = 0
		}
		if s.Correct > s.Total {
			s.Correct = s.Total
		}
		l.CategoryStats[k] = s
	}
}

func normalizedCopy(l Ledger) Ledger {
	c := l.Clone()
	normalize(&c)
	return c
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		out = addID(out, id)
	}
	return out
}
