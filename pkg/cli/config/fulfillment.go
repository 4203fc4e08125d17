package config

import (
	"time"

	"github.com/eventworks/taskflow/pkg/domain/interfaces"
	"github.com/eventworks/taskflow/pkg/service/fulfillment"
	"github.com/eventworks/taskflow/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Fulfillment holds CLI flags for the fulfillment backend
type Fulfillment struct {
	mode    string
	timeout time.Duration
}

// Flags returns CLI flags for fulfillment configuration
func (f *Fulfillment) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "fulfillment-mode",
			Usage:       "Fulfillment backend (webhook or log)",
			Value:       "webhook",
			Sources:     cli.EnvVars("TASKFLOW_FULFILLMENT_MODE"),
			Destination: &f.mode,
		},
		&cli.DurationFlag{
			Name:        "fulfillment-timeout",
			Usage:       "Timeout of a single fulfillment delivery",
			Value:       fulfillment.DefaultTimeout,
			Sources:     cli.EnvVars("TASKFLOW_FULFILLMENT_TIMEOUT"),
			Destination: &f.timeout,
		},
	}
}

// Configure returns the fulfillment backend for the configured mode
func (f *Fulfillment) Configure() (interfaces.Fulfiller, error) {
	switch f.mode {
	case "webhook":
		return fulfillment.NewWebhook(fulfillment.WithTimeout(f.timeout)), nil

	case "log":
		logging.Default().Info("Using log-only fulfillment (development mode)")
		return fulfillment.NewLog(), nil

	default:
		return nil, goerr.New("invalid fulfillment mode", goerr.V("mode", f.mode))
	}
}
