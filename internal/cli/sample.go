package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/i18n"
	"english-quiz-app/internal/infra/filestore"
)

func newSampleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sample [path]",
		Short: "Write the built-in sample quiz as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Quiz.Dir, filestore.SampleFileName)
			if len(args) == 1 {
				path = args[0]
			}
			if err := filestore.Save(path, filestore.Sample()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.Textf("sample_created", domain.Language(cfg.Language), path))
			return nil
		},
	}
}
