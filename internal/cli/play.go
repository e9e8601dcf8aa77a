package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gait-quiz/internal/app"
	"gait-quiz/internal/domain"
	"github.com/spf13/cobra"
)

const playHelp = `commands:
  seq | rand | review | marked | exam A | exam B   start a session
  cat <name|all>                                    change category filter
  1-4 or a-d                                        answer
  next      advance         mark    toggle bookmark on the current question
  retry     same mode again home    back to the dashboard
  stats     dashboard       clear   delete history (asks for confirmation)
  help      this text       quit
`

// NewPlayCmd runs the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer env.Close()
			return newTerminal(env.service, cmd.InOrStdin(), cmd.OutOrStdout()).run(cmd.Context())
		},
	}
}

// terminal is a line-oriented presentation adapter.
type terminal struct {
	service *app.QuizService
	in      *bufio.Scanner
	mu      sync.Mutex // guards out; timer updates print from another goroutine
	out     io.Writer
}

func newTerminal(service *app.QuizService, in io.Reader, out io.Writer) *terminal {
	return &terminal{service: service, in: bufio.NewScanner(in), out: out}
}

func (t *terminal) run(ctx context.Context) error {
	updates, cancel := t.service.Subscribe()
	watched := make(chan struct{})
	go func() {
		defer close(watched)
		t.watch(updates)
	}()
	defer func() {
		cancel()
		<-watched
	}()

	t.print(func(w io.Writer) {
		renderDashboard(w, t.service.Dashboard())
		fmt.Fprint(w, playHelp)
	})
	for t.in.Scan() {
		line := strings.TrimSpace(t.in.Text())
		if line == "" {
			continue
		}
		if quit := t.handle(ctx, line); quit {
			return nil
		}
	}
	return t.in.Err()
}

func (t *terminal) watch(updates <-chan app.Update) {
	for u := range updates {
		switch {
		case u.Type == app.UpdateCompleted && u.Result != nil:
			t.print(func(w io.Writer) {
				fmt.Fprintln(w, "time is up!")
				renderResult(w, *u.Result)
			})
		case u.Type == app.UpdateTimer && u.Timer != nil && u.Timer.Low && u.Timer.Seconds%60 == 0:
			t.print(func(w io.Writer) { fmt.Fprintln(w, timerLabel(*u.Timer)) })
		}
	}
}

func (t *terminal) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd, arg := strings.ToLower(fields[0]), ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch cmd {
	case "quit", "q", "exit":
		return true
	case "help", "?":
		t.print(func(w io.Writer) { fmt.Fprint(w, playHelp) })
	case "seq":
		t.start(ctx, domain.ModeSequential, "")
	case "rand":
		t.start(ctx, domain.ModeRandom, "")
	case "review":
		t.start(ctx, domain.ModeReview, "")
	case "marked":
		t.start(ctx, domain.ModeBookmark, "")
	case "exam":
		t.start(ctx, domain.ModeExam, domain.ExamType(strings.ToUpper(arg)))
	case "cat":
		n := t.service.SetCategory(arg)
		t.print(func(w io.Writer) { fmt.Fprintf(w, "category %q: %d questions\n", arg, n) })
	case "next", "n":
		step, err := t.service.Advance(ctx)
		if err != nil {
			t.fail(err)
			break
		}
		t.print(func(w io.Writer) {
			if step.Result != nil {
				renderResult(w, *step.Result)
				return
			}
			renderQuestion(w, *step.Question)
		})
	case "mark":
		q, ok := t.service.Current()
		if !ok {
			t.fail(domain.ErrSessionNotActive)
			break
		}
		on, err := t.service.ToggleBookmark(ctx, q.QuestionID)
		if err != nil {
			t.fail(err)
			break
		}
		t.print(func(w io.Writer) { fmt.Fprintf(w, "bookmark %s\n", map[bool]string{true: "added", false: "removed"}[on]) })
	case "retry":
		q, err := t.service.Retry(ctx)
		if err != nil {
			t.fail(err)
			break
		}
		t.print(func(w io.Writer) { renderQuestion(w, q) })
	case "home", "h":
		d := t.service.Home(ctx)
		t.print(func(w io.Writer) { renderDashboard(w, d) })
	case "stats":
		d := t.service.Dashboard()
		t.print(func(w io.Writer) { renderDashboard(w, d) })
	case "clear":
		t.print(func(w io.Writer) { fmt.Fprint(w, "delete all learning history? type yes: ") })
		confirmed := t.in.Scan() && strings.EqualFold(strings.TrimSpace(t.in.Text()), "yes")
		if err := t.service.ClearData(ctx, confirmed); err != nil {
			t.fail(err)
			break
		}
		t.print(func(w io.Writer) { fmt.Fprintln(w, "history deleted") })
	default:
		idx, ok := parseChoice(cmd)
		if !ok {
			t.fail(errors.New("unknown command, try help"))
			break
		}
		res, err := t.service.Answer(ctx, idx)
		if err != nil {
			t.fail(err)
			break
		}
		t.print(func(w io.Writer) { renderAnswer(w, res) })
	}
	return false
}

func (t *terminal) start(ctx context.Context, mode domain.Mode, exam domain.ExamType) {
	q, err := t.service.Start(ctx, mode, exam)
	if err != nil {
		t.fail(err)
		return
	}
	t.print(func(w io.Writer) { renderQuestion(w, q) })
}

func (t *terminal) fail(err error) {
	t.print(func(w io.Writer) { fmt.Fprintf(w, "error: %v\n", err) })
}

func (t *terminal) print(fn func(w io.Writer)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.out)
}

// parseChoice maps "1".."4" or "a".."d" to a zero-based index.
func parseChoice(s string) (int, bool) {
	if len(s) != 1 {
		return 0, false
	}
	c := s[0]
	switch {
	case c >= '1' && c < '1'+domain.ChoiceCount:
		return int(c - '1'), true
	case c >= 'a' && c < 'a'+domain.ChoiceCount:
		return int(c - 'a'), true
	}
	return 0, false
}
