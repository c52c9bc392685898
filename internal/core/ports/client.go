package ports

import (
	"context"
	"time"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
)

type CreateDashInput struct {
	Name   string
	Config map[string]any
	Tags   map[string]string
}

// DashClient is the surface of the Infinidash service this tool consumes.
// Describe methods return an error with CodeResourceNotFound when no
// matching Dash exists.
type DashClient interface {
	DescribeDash(ctx context.Context, dashID string) (*domain.Dash, error)
	DescribeDashByName(ctx context.Context, name string) (*domain.Dash, error)
	CreateDash(ctx context.Context, input CreateDashInput) (*domain.Dash, error)
	DeleteDash(ctx context.Context, dashID string) error
	TagDash(ctx context.Context, dashID string, tags map[string]string) error
	UntagDash(ctx context.Context, dashID string, tagKeys []string) error
	WaitUntilAvailable(ctx context.Context, dashID string, timeout time.Duration) (*domain.Dash, error)
}
