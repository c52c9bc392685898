package ports

import (
	"context"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
)

// DashEnsurer drives a single declarative pass: converge the remote Dash
// toward the configured desired state and report what happened.
type DashEnsurer interface {
	Ensure(ctx context.Context) (*domain.EnsureResult, error)
}
