package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"english-quiz-app/internal/config"
	"english-quiz-app/internal/domain"
	transport "english-quiz-app/internal/transport/http"
)

func newStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz web backend (JSON API and websocket)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *options) error {
	cfg, log, err := opts.load()
	if err != nil {
		return err
	}
	if cfg.Postgres.URL != "" && cfg.Quiz.Source == sourcePostgres {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}
	}

	warnDefaultSecret(cfg, log)

	deps, err := buildStack(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	lang := domain.Language(cfg.Language)

	handler := transport.NewRouter(transport.RouterConfig{
		Sessions: transport.NewSessionHandler(deps.service, transport.NewCookieStore(cfg.Server.SessionSecret), lang, cfg.Quiz.Default),
		WS:       transport.NewWSHandler(deps.service, lang, cfg.Quiz.Default),
		Logger:   log,
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", port).Info("starting quiz web backend")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-stop:
		log.Info("shutting down server")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server")
	case err := <-errCh:
		log.WithError(err).Error("server failed")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func warnDefaultSecret(cfg config.Config, log logrus.FieldLogger) {
	if cfg.Server.SessionSecret == "" || cfg.Server.SessionSecret == config.DefaultSessionSecret {
		log.WithField("env", config.EnvPrefix+"_SERVER_SESSION_SECRET").
			Warn("server.session_secret is not set; session cookies are signed with the built-in default")
	}
}
