package ports

import (
	"context"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, result *domain.EnsureResult) error
}
