package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/legisdesk/casetriage/pkg/cli/config"
	httpctrl "github.com/legisdesk/casetriage/pkg/controller/http"
	"github.com/legisdesk/casetriage/pkg/usecase"
	"github.com/legisdesk/casetriage/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var env string
	var dailyLimit int
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var taxCfg config.Taxonomy

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CASETRIAGE_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "env",
			Usage:       "Deployment environment (production or development); the daily quota applies only in production",
			Value:       "development",
			Sources:     cli.EnvVars("CASETRIAGE_ENV"),
			Destination: &env,
		},
		&cli.IntFlag{
			Name:        "daily-limit",
			Usage:       "Generation requests allowed per address per day in production",
			Value:       httpctrl.DefaultDailyLimit,
			Sources:     cli.EnvVars("CASETRIAGE_DAILY_LIMIT"),
			Destination: &dailyLimit,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, taxCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if env != "production" && env != "development" {
				return goerr.New("invalid environment", goerr.V("env", env))
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			tax, err := taxCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure taxonomy")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			uc := usecase.New(repo, tax, llm)

			limiter := httpctrl.NewDailyLimiter(dailyLimit, env == "production")
			handler := httpctrl.New(uc, httpctrl.WithDailyLimiter(limiter))

			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"env", env,
					"daily_limit", dailyLimit,
					"backend", repoCfg.Backend(),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
