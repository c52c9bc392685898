package app

import (
	"context"

	"github.com/infinidash-io/dash-manager/internal/core/ports"
)

// Application runs a single ensure pass and reports the outcome.
type Application struct {
	Ensurer  ports.DashEnsurer
	Reporter ports.Reporter
	Logger   ports.Logger
}

func NewApplication(ensurer ports.DashEnsurer, reporter ports.Reporter, logger ports.Logger) *Application {
	return &Application{
		Ensurer:  ensurer,
		Reporter: reporter,
		Logger:   logger,
	}
}

func (a *Application) Run(ctx context.Context) error {
	a.Logger.Infof(ctx, "Starting Dash ensure pass...")

	result, err := a.Ensurer.Ensure(ctx)
	if err != nil {
		a.Logger.Errorf(ctx, err, "Ensure pass failed")
		return err
	}

	if err := a.Reporter.Report(ctx, result); err != nil {
		a.Logger.Errorf(ctx, err, "Failed to report result")
		return err
	}

	a.Logger.Infof(ctx, "Ensure pass finished (changed=%t)", result.Changed)
	return nil
}
