package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"english-quiz-app/internal/app"
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/i18n"
)

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [quiz]",
		Short: "Show question counts by topic and difficulty",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			name := cfg.Quiz.Default
			if len(args) == 1 {
				name = args[0]
			}

			deps, err := buildStack(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer deps.Close()

			report, err := deps.service.CollectionStats(cmd.Context(), name)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), report, domain.Language(cfg.Language))
			return nil
		},
	}
}

func printStats(out io.Writer, report app.CollectionReport, lang domain.Language) {
	unit := i18n.Text("questions_unit", lang)
	fmt.Fprintf(out, "%s\n", i18n.Text("quiz_statistics", lang))
	fmt.Fprintf(out, "%s: %s\n", i18n.Text("quiz_title", lang), report.Title)
	fmt.Fprintf(out, "%s: %d\n", i18n.Text("total_questions", lang), report.TotalQuestions)

	fmt.Fprintf(out, "\n%s:\n", i18n.Text("questions_by_topic", lang))
	for _, b := range report.TopicBuckets {
		fmt.Fprintf(out, "  %s: %d %s\n", b.Name, b.Total, unit)
	}
	fmt.Fprintf(out, "\n%s:\n", i18n.Text("questions_by_difficulty", lang))
	for _, b := range report.DifficultyBuckets {
		if b.Total == 0 {
			continue
		}
		fmt.Fprintf(out, "  %s: %d %s\n", bucketLabel(b, lang), b.Total, unit)
	}
}
