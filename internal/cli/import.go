package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"english-quiz-app/internal/config"
	"english-quiz-app/internal/domain"
	"english-quiz-app/internal/i18n"
	"english-quiz-app/internal/infra/filestore"
	"english-quiz-app/internal/infra/postgres"
	infraredis "english-quiz-app/internal/infra/redis"
	"english-quiz-app/internal/quiz"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		name   string
		remove bool
	)
	cmd := &cobra.Command{
		Use:   "import <path|name>",
		Short: "Validate a quiz file or topic directory and store it in Postgres",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			ctx := cmd.Context()

			db := postgres.OpenBun(cfg.Postgres.URL)
			defer db.Close()
			if _, err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			importer := postgres.NewImporter(db)

			if remove {
				if err := importer.Remove(ctx, args[0]); err != nil {
					return err
				}
				invalidateCached(ctx, cfg, args[0], log)
				log.WithField("collection", args[0]).Info("quiz removed")
				return nil
			}

			path := args[0]
			c, err := loadPath(path)
			if err != nil {
				return err
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			if err := importer.Import(ctx, name, c); err != nil {
				return err
			}
			invalidateCached(ctx, cfg, name, log)
			log.WithField("collection", name).Info("quiz imported")
			fmt.Fprintln(cmd.OutOrStdout(), i18n.Textf("imported", domain.Language(cfg.Language), name, c.Len()))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "collection name (defaults to the file or directory name)")
	cmd.Flags().BoolVar(&remove, "remove", false, "delete the named collection instead of importing")
	return cmd
}

// loadPath reads a single quiz file or merges a topic directory.
func loadPath(path string) (*quiz.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return filestore.LoadDir(path, "")
	}
	return filestore.Load(path)
}

// invalidateCached drops the Redis copy of name so servers reload it.
func invalidateCached(ctx context.Context, cfg config.Config, name string, log logrus.FieldLogger) {
	if cfg.Redis.Addr == "" {
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	if err := infraredis.NewCollectionRepository(client, nil, 0, log).Invalidate(ctx, name); err != nil {
		log.WithError(err).WithField("collection", name).Warn("invalidate cached collection")
	}
}
