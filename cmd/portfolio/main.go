package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/olguin/portfolio/cmd/portfolio/cli"
	"github.com/olguin/portfolio/internal/app"
	"github.com/olguin/portfolio/internal/casestudy"
	casestudyhttp "github.com/olguin/portfolio/internal/casestudy/http"
	"github.com/olguin/portfolio/internal/charts"
	"github.com/olguin/portfolio/internal/observability"
	"github.com/olguin/portfolio/internal/platform/cache"
	"github.com/olguin/portfolio/internal/shared"
	"github.com/olguin/portfolio/internal/site"
	"github.com/olguin/portfolio/internal/view"
	"github.com/olguin/portfolio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "jobs" {
		if err := runJobs(ctx, cfg, os.Args[2:]); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	redisOpts := cache.Options{Addr: cfg.RedisAddr}
	redisClient, err := cache.New(ctx, redisOpts)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "portfolio_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine(cfg.SiteName)
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	catalog, err := casestudy.DefaultCatalog()
	if err != nil {
		logger.Error("load catalog", slog.Any("error", err))
		os.Exit(1)
	}
	metrics := observability.NewMetrics()
	renderCache := casestudy.NewCache(redisClient, cfg.RenderCacheTTL, catalog.Digest())
	service := casestudy.NewService(catalog, charts.Renderer{Observe: metrics.ChartRendered}, renderCache)

	jobClient := jobs.NewClient(redisOpts.QueueOpt())
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	// Fragments rendered from a previous catalog are dropped once per deploy.
	if _, err := jobClient.EnqueueCachePurge(ctx); err != nil {
		logger.Warn("enqueue cache purge", slog.Any("error", err))
	}

	inspector := asynq.NewInspector(redisOpts.QueueOpt())
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		SiteHandler: site.NewHandler(logger, service, templates, csrfManager, jobClient, metrics,
			site.Options{ContactLimit: cfg.RateLimitContact}),
		CaseStudyHandler: casestudyhttp.NewHandler(logger, service, templates),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("catalog", catalog.Digest()))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

// runJobs implements "portfolio jobs stats|scheduled|trigger <type>".
func runJobs(ctx context.Context, cfg *app.Config, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	size := fs.Int("n", 10, "number of scheduled tasks to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	jobsCLI := cli.NewJobsCLI(cache.Options{Addr: cfg.RedisAddr}.QueueOpt())
	defer jobsCLI.Close()

	switch fs.Arg(0) {
	case "stats":
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		return cli.WriteStats(os.Stdout, stats)
	case "scheduled":
		tasks, err := jobsCLI.ListScheduled(ctx, *size)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			fmt.Printf("%s %s %s\n", task.ID, task.Type, task.NextProcessAt.Format(time.RFC3339))
		}
		return nil
	case "trigger":
		info, err := jobsCLI.Trigger(ctx, fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s as %s\n", info.Type, info.ID)
		return nil
	default:
		return fmt.Errorf("usage: portfolio jobs [-n N] stats|scheduled|trigger <type>")
	}
}
