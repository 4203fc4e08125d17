package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/eventworks/taskflow/pkg/cli/config"
	"github.com/eventworks/taskflow/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.App

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file",
		Flags:   appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			appData, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}
			if appData == nil {
				return goerr.New("no configuration file specified")
			}

			logger.Info("Configuration validation passed",
				"definitions", len(appData.Definitions),
				"tasks", len(appData.Tasks),
				"actors", len(appData.Actors),
			)
			for _, d := range appData.Definitions {
				logger.Info("Task definition validated",
					"id", d.ID,
					"name", d.Name,
					"needs_approval", d.NeedsApproval,
				)
			}

			return nil
		},
	}
}
