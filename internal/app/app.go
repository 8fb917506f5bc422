package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/orgball2608/community-feed-bot/internal/api"
	"github.com/orgball2608/community-feed-bot/internal/api/apiimpl"
	"github.com/orgball2608/community-feed-bot/internal/cleanup"
	"github.com/orgball2608/community-feed-bot/internal/cleanup/cleanupimpl"
	"github.com/orgball2608/community-feed-bot/internal/command"
	"github.com/orgball2608/community-feed-bot/internal/command/commandimpl"
	"github.com/orgball2608/community-feed-bot/internal/composer"
	"github.com/orgball2608/community-feed-bot/internal/feed"
	_ "github.com/orgball2608/community-feed-bot/internal/migrations"
	"github.com/orgball2608/community-feed-bot/internal/notify"
	"github.com/orgball2608/community-feed-bot/internal/pgx"
	"github.com/orgball2608/community-feed-bot/internal/ratelimit"
	repositories "github.com/orgball2608/community-feed-bot/internal/repositories/fx"
	"github.com/orgball2608/community-feed-bot/internal/session"
	"github.com/orgball2608/community-feed-bot/internal/storage"
	"github.com/orgball2608/community-feed-bot/internal/storage/minioimpl"
	"github.com/orgball2608/community-feed-bot/internal/telegram"
	"github.com/orgball2608/community-feed-bot/internal/telegram/telegramimpl"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"github.com/orgball2608/community-feed-bot/pkg/retry"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			apiimpl.New,
			fx.As(new(api.Client)),
		),
		fx.Annotate(
			minioimpl.New,
			fx.As(new(storage.Client)),
		),
		fx.Annotate(
			telegramimpl.New,
			fx.As(new(telegram.Client)),
			fx.As(new(notify.Notifier)),
		),
	),
	fx.Provide(
		fx.Annotate(
			session.New,
			fx.As(fx.Self()),
			fx.As(new(composer.Session)),
			fx.As(new(commandimpl.Session)),
		),
		fx.Annotate(
			feed.New,
			fx.As(fx.Self()),
			fx.As(new(composer.Feed)),
			fx.As(new(commandimpl.Feed)),
		),
		fx.Annotate(
			composer.New,
			fx.As(new(commandimpl.Composer)),
		),
		fx.Annotate(
			ratelimit.New,
			fx.As(new(ratelimit.Limiter)),
		),
		fx.Annotate(
			commandimpl.New,
			fx.As(new(command.Client)),
		),
		fx.Annotate(
			cleanupimpl.New,
			fx.As(new(cleanup.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func migrate(c *config.Config) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", c.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	return goose.Up(db, filepath.Join(wd, "internal", "migrations"))
}

type runOpts struct {
	fx.In

	LC       fx.Lifecycle
	Logger   logger.Logger
	Config   *config.Config
	Telegram telegram.Client
	Session  *session.Manager
	Feed     *feed.Feed
	Command  command.Client
	Cleanup  cleanup.Client
}

func run(opts runOpts) {
	log := opts.Logger.WithComponent("App")
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler: healthMux(log),
	}

	opts.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHttpServer(log, server)

			go func() {
				opts.Session.Initialize(ctx)
				if err := opts.Feed.Load(ctx); err != nil {
					opts.Telegram.SendMessageToUser("Could not load the feed: " + err.Error())
				}
			}()

			if err := opts.Cleanup.Schedule(ctx); err != nil {
				log.Error("Cleanup schedule error", "Error", err)
				opts.Telegram.SendMessageToUser("Cleanup schedule error: " + err.Error())
			}

			go retry.Supervise(ctx, log, "command handler", opts.Command.HandleCommand, retry.DefaultConfig())

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			opts.Session.Close()
			err := server.Shutdown(stopCtx)
			logger.Flush()
			return err
		},
	})
}

func startHttpServer(log logger.Logger, server *http.Server) {
	log.Info(fmt.Sprintf("Starting server on %s", server.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Server failed to start", "Error", err)
	}
}

func healthMux(log logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})
	return mux
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Debug("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
