package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"
	"github.com/panoramablock/zico-x-bot/internal/dedup"
	"github.com/panoramablock/zico-x-bot/internal/harvester"
	"github.com/panoramablock/zico-x-bot/internal/harvester/harvesterimpl"
	_ "github.com/panoramablock/zico-x-bot/internal/migrations"
	"github.com/panoramablock/zico-x-bot/internal/pgx"
	"github.com/panoramablock/zico-x-bot/internal/pipeline"
	"github.com/panoramablock/zico-x-bot/internal/pipeline/pipelineimpl"
	"github.com/panoramablock/zico-x-bot/internal/platform"
	"github.com/panoramablock/zico-x-bot/internal/platform/platformimpl"
	"github.com/panoramablock/zico-x-bot/internal/publisher"
	"github.com/panoramablock/zico-x-bot/internal/publisher/publisherimpl"
	repositories "github.com/panoramablock/zico-x-bot/internal/repositories/fx"
	"github.com/panoramablock/zico-x-bot/internal/scheduler"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
	"github.com/pressly/goose/v3"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		func() clockwork.Clock { return clockwork.NewRealClock() },
		func(log logger.Logger, cfg *config.Config) (*scheduler.Scheduler, error) {
			return scheduler.New(log, cfg.Scheduler.PoolSize)
		},
	),
	fx.Provide(
		fx.Annotate(
			platformimpl.New,
			fx.As(new(platform.Client)),
		),
		fx.Annotate(
			dedup.New,
			fx.As(new(dedup.Checker)),
		),
		fx.Annotate(
			harvesterimpl.New,
			fx.As(new(harvester.Client)),
		),
		fx.Annotate(
			publisherimpl.New,
			fx.As(new(publisher.Client)),
		),
		fx.Annotate(
			pipelineimpl.New,
			fx.As(new(pipeline.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

// migrate applies the registered goose migrations before the pipeline
// touches the store.
func migrate(cfg *config.Config, log logger.Logger) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if err := goose.Up(db, filepath.Join(wd, "internal", "migrations")); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	log.Info("Migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, pipe pipeline.Client) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go startHTTPServer(log, cfg)

			go func() {
				if err := pipe.Run(ctx); err != nil {
					log.Error("Pipeline stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func startHTTPServer(log logger.Logger, cfg *config.Config) {
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.App.Port), nil); err != nil {
		log.Error("Server failed to start", "error", err)
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, log logger.Logger) {
	log.Debug("Health check request received", "method", r.Method, "url", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Error("Failed to write response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
