package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/eventworks/taskflow/pkg/cli/config"
	httpctrl "github.com/eventworks/taskflow/pkg/controller/http"
	"github.com/eventworks/taskflow/pkg/domain/model"
	"github.com/eventworks/taskflow/pkg/domain/types"
	"github.com/eventworks/taskflow/pkg/usecase"
	"github.com/eventworks/taskflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthEventID string
	var noAuthPersonID string
	var appCfg config.App
	var repoCfg config.Repository
	var fulfillCfg config.Fulfillment

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TASKFLOW_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth-event-id",
			Usage:       "Skip token authentication and run every request as an actor of the specified event (development only)",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKFLOW_NO_AUTH_EVENT_ID"),
			Destination: &noAuthEventID,
		},
		&cli.StringFlag{
			Name:        "no-auth-person-id",
			Usage:       "Person ID used together with --no-auth-event-id",
			Category:    "Authentication",
			Sources:     cli.EnvVars("TASKFLOW_NO_AUTH_PERSON_ID"),
			Destination: &noAuthPersonID,
		},
	}

	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, fulfillCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			appData, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
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

			if appData != nil {
				if err := appData.Seed(ctx, repo); err != nil {
					return goerr.Wrap(err, "failed to seed task definitions")
				}
				logging.Default().Info("Seeded repository from config",
					"definitions", len(appData.Definitions),
					"tasks", len(appData.Tasks),
					"actors", len(appData.Actors))
			}

			fulfiller, err := fulfillCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure fulfillment backend")
			}

			uc := usecase.New(repo, usecase.WithFulfiller(fulfiller))

			var resolver httpctrl.ActorResolver
			if noAuthEventID != "" {
				logging.Default().Warn("Running in no-auth mode (development only)",
					"event_id", noAuthEventID, "person_id", noAuthPersonID)
				resolver = fixedActorResolver{
					actor: model.Actor{
						EventID: types.EventID(noAuthEventID),
						Person: model.Person{
							ID: types.PersonID(noAuthPersonID),
						},
					},
				}
			} else if appData != nil && len(appData.Actors) > 0 {
				resolver = appData.ActorResolver()
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithActorResolver(resolver)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
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

// fixedActorResolver maps every request to the same actor, ignoring the token.
type fixedActorResolver struct {
	actor model.Actor
}

func (r fixedActorResolver) Resolve(ctx context.Context, token string) (model.Actor, error) {
	return r.actor, nil
}
