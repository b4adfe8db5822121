package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"english-quiz-app/internal/app"
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/i18n"
	"english-quiz-app/internal/stats"
)

func newPlayCmd(opts *options) *cobra.Command {
	var name, mode, filter string
	cmd := &cobra.Command{
		Use:   "play [quiz]",
		Short: "Take a quiz in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			parsed, err := domain.ParseMode(mode)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				name = cfg.Quiz.Default
			}

			deps, err := buildStack(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer deps.Close()

			p := newPlayer(deps.service, domain.Language(cfg.Language), cmd.InOrStdin(), cmd.OutOrStdout())
			_, err = p.Play(cmd.Context(), name, parsed, filter)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "quiz", "", "quiz name (defaults to quiz.default)")
	cmd.Flags().StringVar(&mode, "mode", string(domain.ModeFull), "full, topic or difficulty")
	cmd.Flags().StringVar(&filter, "filter", "", "topic or difficulty to practice")
	return cmd
}

// player runs one quiz session over a line-oriented terminal.
type player struct {
	service *app.QuizService
	lang    domain.Language
	in      *bufio.Scanner
	out     io.Writer
}

func newPlayer(service *app.QuizService, lang domain.Language, in io.Reader, out io.Writer) *player {
	return &player{service: service, lang: lang, in: bufio.NewScanner(in), out: out}
}

// Play runs a session to completion. "q", "quit" or end of input stops early
// and still prints the partial results.
func (p *player) Play(ctx context.Context, name string, mode domain.Mode, filter string) (app.Summary, error) {
	snap, err := p.service.Start(ctx, name, mode, filter)
	if err != nil {
		return app.Summary{}, err
	}
	defer p.service.End(ctx, snap.ID)

	for snap.State == app.StateActive {
		p.showQuestion(snap)
		choice, ok := p.readChoice(len(snap.Current.Choices))
		if !ok {
			if snap, err = p.service.Quit(ctx, snap.ID); err != nil {
				return app.Summary{}, err
			}
			break
		}

		fb, err := p.service.Answer(ctx, snap.ID, choice, p.lang)
		if err != nil {
			return app.Summary{}, err
		}
		p.showFeedback(fb)

		if snap, err = p.service.Advance(ctx, snap.ID); err != nil {
			return app.Summary{}, err
		}
	}

	sum, err := p.service.Summary(ctx, snap.ID)
	if err != nil {
		return app.Summary{}, err
	}
	printResults(p.out, sum, p.lang)
	return sum, nil
}

func (p *player) showQuestion(snap app.Snapshot) {
	q := snap.Current
	fmt.Fprintf(p.out, "\n%s %d/%d\n", p.text("question"), q.Number, snap.Total)
	fmt.Fprintf(p.out, "%s: %s | %s: %s\n", p.text("topic"), q.Topic, p.text("difficulty"), q.Difficulty)
	fmt.Fprintln(p.out, strings.Repeat("-", 40))
	if q.Passage != "" {
		fmt.Fprintln(p.out, p.text("passage"))
		fmt.Fprintln(p.out, q.Passage)
		fmt.Fprintln(p.out, strings.Repeat("-", 40))
	}
	fmt.Fprintf(p.out, "%s\n\n", q.Prompt)
	for i, choice := range q.Choices {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, choice)
	}
}

// readChoice returns a zero-based choice, or false when the player quits.
func (p *player) readChoice(n int) (int, bool) {
	for {
		fmt.Fprintf(p.out, "\n%s", i18n.Textf("select_answer", p.lang, n))
		if !p.in.Scan() {
			return 0, false
		}
		input := strings.ToLower(strings.TrimSpace(p.in.Text()))
		if input == "q" || input == "quit" {
			return 0, false
		}
		v, err := strconv.Atoi(input)
		if err == nil && v >= 1 && v <= n {
			return v - 1, true
		}
		fmt.Fprintln(p.out, i18n.Textf("invalid_choice", p.lang, n))
	}
}

func (p *player) showFeedback(fb app.Feedback) {
	if fb.Correct {
		fmt.Fprintln(p.out, p.text("correct"))
	} else {
		fmt.Fprintln(p.out, i18n.Textf("incorrect", p.lang, fb.CorrectChoice))
	}
	if fb.Explanation != "" {
		fmt.Fprintf(p.out, "%s %s\n", p.text("explanation"), fb.Explanation)
	}
	fmt.Fprintf(p.out, "%s: %d/%d\n", p.text("score"), fb.Score, fb.Answered)
}

func (p *player) text(key string) string { return i18n.Text(key, p.lang) }

func printResults(out io.Writer, sum app.Summary, lang domain.Language) {
	fmt.Fprintf(out, "\n%s\n%s\n", strings.Repeat("=", 60), i18n.Text("quiz_results", lang))
	fmt.Fprintln(out, strings.Repeat("=", 60))
	if !sum.HasData {
		fmt.Fprintln(out, i18n.Text("no_questions_attempted", lang))
		return
	}
	fmt.Fprintf(out, "%s: %d/%d\n", i18n.Text("questions_attempted", lang), sum.Answered, sum.Total)
	fmt.Fprintf(out, "%s: %d\n", i18n.Text("correct_answers", lang), sum.Score)
	fmt.Fprintf(out, "%s: %.1f%%\n", i18n.Text("accuracy", lang), sum.Accuracy)
	fmt.Fprintln(out, i18n.Text(string(sum.Rating), lang))
	if sum.Quit && sum.Remaining > 0 {
		fmt.Fprintln(out, i18n.Textf("questions_remaining", lang, sum.Remaining))
	}

	fmt.Fprintf(out, "\n%s\n", i18n.Text("performance_breakdown", lang))
	printBuckets(out, i18n.Text("topic", lang), sum.Topics, lang)
	printBuckets(out, i18n.Text("difficulty", lang), sum.Difficulties, lang)
}

func printBuckets(out io.Writer, heading string, buckets []stats.Bucket, lang domain.Language) {
	fmt.Fprintf(out, "%s:\n", heading)
	for _, b := range buckets {
		pct, ok := b.Percent()
		if !ok {
			continue
		}
		fmt.Fprintf(out, "  %s: %d/%d (%.1f%%)\n", bucketLabel(b, lang), b.Correct, b.Total, pct)
	}
}

// bucketLabel localizes the canonical difficulty names.
func bucketLabel(b stats.Bucket, lang domain.Language) string {
	if b.Canonical {
		return i18n.Text(b.Name, lang)
	}
	return b.Name
}
