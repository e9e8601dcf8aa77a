package cli

import (
	"fmt"
	"io"
	"strings"

	"gait-quiz/internal/app"
	"gait-quiz/internal/domain"
)

var choiceLabels = []string{"A", "B", "C", "D"}

func renderDashboard(w io.Writer, d app.Dashboard) {
	fmt.Fprintf(w, "sessions: %d  overall: %d%%  to review: %d  bookmarks: %d  streak: %d day(s)\n",
		d.Sessions, d.OverallRate, d.ReviewCount, d.Bookmarks, d.Streak)
	fmt.Fprintf(w, "category: %s (%d questions)  available: %s\n",
		d.Category, d.QuestionCount, strings.Join(d.Categories, ", "))
	if len(d.Weak) == 0 {
		fmt.Fprintln(w, "no category data yet")
	}
	for _, c := range d.Weak {
		fmt.Fprintf(w, "  %-24s %3d%%  %d/%d  %s\n", c.Category, c.Rate, c.Correct, c.Total, c.Tier)
	}
	fmt.Fprint(w, "last 7 days:")
	for _, day := range d.Trend.Days {
		fmt.Fprintf(w, " %s=%d/%d", day.Date[5:], day.Correct, day.Total)
	}
	fmt.Fprintln(w)
	for _, e := range d.Exams {
		fmt.Fprintf(w, "  exam %s on %s: %d (%s) %d/%d\n", e.Type, e.Date, e.Score, rankLabel(e.Rank), e.Correct, e.Total)
	}
}

func renderQuestion(w io.Writer, q app.QuestionView) {
	header := fmt.Sprintf("[%d/%d] %s", q.Number, q.Total, q.Category)
	if q.Bookmarked {
		header += " *"
	}
	if q.Timer != nil {
		header += "  " + timerLabel(*q.Timer)
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, q.Question)
	for i, c := range q.Choices {
		fmt.Fprintf(w, "  %s) %s\n", choiceLabels[i%len(choiceLabels)], c)
	}
}

func renderAnswer(w io.Writer, a app.AnswerView) {
	if a.Correct {
		fmt.Fprintln(w, "correct!")
	} else {
		fmt.Fprintf(w, "incorrect, answer: %s\n", choiceLabels[a.Answer%len(choiceLabels)])
	}
	if a.Explanation != "" {
		fmt.Fprintln(w, a.Explanation)
	}
	if a.Last {
		fmt.Fprintln(w, "(next) to see results")
	}
}

func renderResult(w io.Writer, r app.ResultView) {
	fmt.Fprintf(w, "score: %d/%d (%d%%)\n", r.Score, r.Total, r.Percent)
	for _, c := range r.Categories {
		fmt.Fprintf(w, "  %-24s %d/%d (%d%%)\n", c.Category, c.Correct, c.Total, c.Percent)
	}
	if r.Exam != nil {
		fmt.Fprintf(w, "exam %s: %d/%d %s\n", r.Exam.Type, r.Exam.Score, r.Exam.MaxScore, rankLabel(r.Exam.Rank))
	}
	if !r.Saved {
		fmt.Fprintln(w, "warning: result could not be saved")
	}
}

func timerLabel(t app.TimerView) string {
	if t.Low {
		return "time left " + t.Display + " (!)"
	}
	return "time left " + t.Display
}

func rankLabel(r domain.Rank) string {
	if r == domain.RankNone {
		return "no rank"
	}
	return string(r)
}
