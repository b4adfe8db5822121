package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/i18n"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available quizzes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			deps, err := buildStack(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer deps.Close()

			entries, err := deps.service.Collections(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.Text("no_quiz_files", domain.Language(cfg.Language)))
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Title)
			}
			return w.Flush()
		},
	}
}
