package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"english-quiz-app/internal/config"
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/logging"
)

// options holds the persistent flags. Empty values leave config untouched.
type options struct {
	configPath string
	port       string
	dir        string
	lang       string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "quiz",
		Short:        "English quiz: YAML question banks, terminal play and a web backend",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.port, "port", "", "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "directory holding quiz files (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", "", "display language, e.g. zh_TW or en (overrides config)")

	cmd.AddCommand(
		newStartCmd(opts),
		newPlayCmd(opts),
		newStatsCmd(opts),
		newListCmd(opts),
		newSampleCmd(opts),
		newImportCmd(opts),
		newMigrateCmd(opts),
	)
	return cmd
}

// load reads config, applies flag overrides and builds the logger.
func (o *options) load() (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	if o.dir != "" {
		cfg.Quiz.Dir = o.dir
	}
	if o.lang != "" {
		cfg.Language = o.lang
	}
	if cfg.Language == "" {
		cfg.Language = string(domain.LangTraditionalChinese)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
