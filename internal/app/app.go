package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/petanque-league/internal/config"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/account/firebaseauth"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/petanque-league/internal/infrastructure/notify"
	"github.com/riskibarqy/petanque-league/internal/interfaces/httpapi"
	"github.com/riskibarqy/petanque-league/internal/platform/logging"
	"github.com/riskibarqy/petanque-league/internal/platform/metrics"
	"github.com/riskibarqy/petanque-league/internal/usecase"
)

// App is the API process: HTTP server, sync runner and the weekly trigger.
type App struct {
	Core    *Core
	Server  *http.Server
	Runner  *usecase.SyncRunner
	Metrics *metrics.Recorder

	cron   *jobqueue.CronTrigger
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	core, err := NewCore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	runner, err := usecase.NewSyncRunner(core.Reconcile, usecase.SyncRunnerConfig{
		CycleTimeout: cfg.SyncCycleTimeout,
		Logger:       logger.Component("sync"),
		Metrics:      recorder,
		Notifier:     NewNotifier(cfg, logger),
	})
	if err != nil {
		_ = core.Close()
		return nil, err
	}

	a := &App{Core: core, Runner: runner, Metrics: recorder, logger: logger}

	if cfg.SyncCronEnabled {
		a.cron, err = jobqueue.NewCronTrigger(cfg.SyncCronSpec, newDispatcher(cfg, runner, logger), cfg.SyncCycleTimeout, logger.Component("cron"))
		if err != nil {
			a.close()
			return nil, err
		}
	}

	verifier, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	handler := httpapi.NewHandler(core.Teams, core.Schedule, core.Matches, core.Standings, runner, core.HealthChecks(), logger)
	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		MetricsHandler:     recorder.Handler(),
		Metrics:            recorder,
	})

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return a, nil
}

// Start schedules the weekly trigger. The caller runs Server.ListenAndServe.
func (a *App) Start() {
	if a.cron != nil {
		a.cron.Start()
	}
}

// Shutdown stops accepting work, waits for an in-flight cycle and releases storage.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.cron != nil {
		if err := a.cron.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop sync trigger: %w", err))
		}
	}
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	a.Runner.Wait()
	a.close()
	return errors.Join(errs...)
}

func (a *App) close() {
	a.Runner.Close()
	if err := a.Core.Close(); err != nil {
		a.logger.Error("close storage failed", "error", err)
	}
}

// NewNotifier returns the Resend notifier when mail is configured.
func NewNotifier(cfg config.Config, logger *logging.Logger) usecase.SyncNotifier {
	if !cfg.NotifyEnabled {
		return notify.Noop{}
	}
	return notify.NewResendNotifier(notify.ResendConfig{
		APIKey:     cfg.ResendAPIKey,
		From:       cfg.NotifyFrom,
		To:         cfg.NotifyTo,
		LeagueName: cfg.LeagueName,
	}, logger)
}

// newDispatcher sends cron triggers through QStash when enabled; the job calls back into the runner.
func newDispatcher(cfg config.Config, runner *usecase.SyncRunner, logger *logging.Logger) usecase.SyncDispatcher {
	if !cfg.QStashEnabled {
		return runner
	}
	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          cfg.QStashBaseURL,
		Token:            cfg.QStashToken,
		TargetBaseURL:    cfg.QStashTargetBaseURL,
		Retries:          cfg.QStashRetries,
		InternalJobToken: cfg.InternalJobToken,
		CircuitBreaker:   cfg.QStashCircuit,
	}, logger)
	return usecase.NewQueueDispatcher(publisher, cfg.QStashDelay)
}

// newVerifier returns a nil interface when auth is disabled; RequireAuth then answers 503.
func newVerifier(ctx context.Context, cfg config.Config, logger *logging.Logger) (httpapi.TokenVerifier, error) {
	switch cfg.AuthProvider {
	case config.AuthFirebase:
		verifier, err := firebaseauth.NewVerifier(ctx, firebaseauth.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsJSON: cfg.FirebaseCredentialsJSON,
			CheckRevoked:    cfg.FirebaseCheckRevoked,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init firebase verifier: %w", err)
		}
		return verifier, nil
	case config.AuthAnubis:
		return anubis.NewClient(
			&http.Client{Timeout: cfg.AnubisTimeout},
			cfg.AnubisBaseURL,
			cfg.AnubisIntrospectURL,
			cfg.AnubisAdminKey,
			cfg.AnubisCircuit,
			logger,
		), nil
	default:
		logger.Warn("bearer auth disabled", "auth_provider", cfg.AuthProvider)
		return nil, nil
	}
}
