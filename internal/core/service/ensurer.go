package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	"github.com/infinidash-io/dash-manager/internal/core/ports"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
)

// Params are the resolved declarative inputs for a single ensure pass.
type Params struct {
	Name          string
	DashID        string
	DesiredState  domain.DesiredState
	DesiredConfig map[string]any
	Tags          map[string]string
	PurgeTags     bool
	Wait          bool
	WaitTimeout   time.Duration
	CheckMode     bool
}

// Ensurer converges a single Dash toward the desired state. It implements
// ports.DashEnsurer.
type Ensurer struct {
	params Params
	client ports.DashClient
	logger ports.Logger
}

var _ ports.DashEnsurer = (*Ensurer)(nil)

func NewEnsurer(params Params, client ports.DashClient, logger ports.Logger) (*Ensurer, error) {
	if client == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "dash client cannot be nil")
	}
	if logger == nil {
		return nil, apperrors.New(apperrors.CodeInternal, "logger cannot be nil")
	}
	if !params.DesiredState.Valid() {
		return nil, apperrors.New(apperrors.CodeConfigValidation,
			fmt.Sprintf("invalid desired state %q", params.DesiredState))
	}
	return &Ensurer{params: params, client: client, logger: logger}, nil
}

func (e *Ensurer) Ensure(ctx context.Context) (*domain.EnsureResult, error) {
	switch e.params.DesiredState {
	case domain.StateAbsent:
		return e.ensureAbsent(ctx)
	default:
		return e.ensurePresent(ctx)
	}
}

// ensurePresent looks the Dash up by ID when one was given, by name
// otherwise, and creates it only when no match exists.
func (e *Ensurer) ensurePresent(ctx context.Context) (*domain.EnsureResult, error) {
	result := &domain.EnsureResult{State: domain.StatePresent, CheckMode: e.params.CheckMode}

	existing, err := e.findExisting(ctx)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		e.logger.Infof(ctx, "Dash %s already exists, no create needed", existing.ID)
		result.Dash = existing

		if e.params.DesiredConfig != nil {
			if diff := cmp.Diff(e.params.DesiredConfig, existing.Config); diff != "" {
				e.logger.Warnf(ctx, "Dash %s config differs from the supplied config; the service has no update operation", existing.ID)
				result.ConfigDrift = diff
			}
		}

		changed, err := e.reconcileTags(ctx, existing)
		if err != nil {
			return nil, err
		}
		result.Changed = changed
		return result, nil
	}

	result.Changed = true
	if e.params.CheckMode {
		e.logger.Infof(ctx, "Check mode: would create Dash %q", e.params.Name)
		result.Dash = &domain.Dash{Name: e.params.Name}
		return result, nil
	}

	dash, err := e.client.CreateDash(ctx, ports.CreateDashInput{
		Name:   e.params.Name,
		Config: e.params.DesiredConfig,
		Tags:   e.params.Tags,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePlatformAPIError, "Dash creation failed")
	}
	e.logger.Infof(ctx, "Created Dash %s", dash.ID)

	if e.params.Wait {
		dash, err = e.client.WaitUntilAvailable(ctx, dash.ID, e.params.WaitTimeout)
		if err != nil {
			return nil, err
		}
		e.logger.Infof(ctx, "Dash %s is available", dash.ID)
	}

	result.Dash = dash
	return result, nil
}

// ensureAbsent deletes the Dash when it exists. The service ignores wait
// timeouts on delete, so no waiter runs here.
func (e *Ensurer) ensureAbsent(ctx context.Context) (*domain.EnsureResult, error) {
	result := &domain.EnsureResult{State: domain.StateAbsent, CheckMode: e.params.CheckMode}

	existing, err := e.client.DescribeDash(ctx, e.params.DashID)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeResourceNotFound) {
			e.logger.Infof(ctx, "Dash %s does not exist, nothing to delete", e.params.DashID)
			return result, nil
		}
		return nil, err
	}

	result.Changed = true
	if e.params.CheckMode {
		e.logger.Infof(ctx, "Check mode: would delete Dash %s", existing.ID)
		return result, nil
	}

	if err := e.client.DeleteDash(ctx, existing.ID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodePlatformAPIError,
			fmt.Sprintf("failed to delete Dash '%s'", existing.ID))
	}
	e.logger.Infof(ctx, "Deleted Dash %s", existing.ID)
	return result, nil
}

func (e *Ensurer) findExisting(ctx context.Context) (*domain.Dash, error) {
	var (
		dash *domain.Dash
		err  error
	)
	if e.params.DashID != "" {
		dash, err = e.client.DescribeDash(ctx, e.params.DashID)
	} else {
		dash, err = e.client.DescribeDashByName(ctx, e.params.Name)
	}
	if err != nil {
		if apperrors.Is(err, apperrors.CodeResourceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return dash, nil
}

// reconcileTags applies desired tags to an existing Dash. Tag and untag are
// independent calls, so they run concurrently. Returns whether anything
// changed (or would change, in check mode).
func (e *Ensurer) reconcileTags(ctx context.Context, dash *domain.Dash) (bool, error) {
	toAdd, toRemove := diffTags(dash.Tags, e.params.Tags, e.params.PurgeTags)
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return false, nil
	}

	if e.params.CheckMode {
		e.logger.Infof(ctx, "Check mode: would set %d and remove %d tags on Dash %s", len(toAdd), len(toRemove), dash.ID)
		return true, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	if len(toAdd) > 0 {
		g.Go(func() error {
			return e.client.TagDash(gCtx, dash.ID, toAdd)
		})
	}
	if len(toRemove) > 0 {
		g.Go(func() error {
			return e.client.UntagDash(gCtx, dash.ID, toRemove)
		})
	}
	if err := g.Wait(); err != nil {
		return false, apperrors.Wrap(err, apperrors.CodePlatformAPIError,
			fmt.Sprintf("failed to update tags on Dash '%s'", dash.ID))
	}

	if dash.Tags == nil {
		dash.Tags = make(map[string]string, len(toAdd))
	}
	for k, v := range toAdd {
		dash.Tags[k] = v
	}
	for _, k := range toRemove {
		delete(dash.Tags, k)
	}

	e.logger.Infof(ctx, "Updated tags on Dash %s (%d set, %d removed)", dash.ID, len(toAdd), len(toRemove))
	return true, nil
}

// diffTags computes the tag operations needed to move current toward
// desired. With purge, keys absent from desired are removed; a nil desired
// map with purge unset means tags are left untouched.
func diffTags(current, desired map[string]string, purge bool) (map[string]string, []string) {
	if desired == nil && !purge {
		return nil, nil
	}

	toAdd := make(map[string]string)
	for k, v := range desired {
		if cur, ok := current[k]; !ok || cur != v {
			toAdd[k] = v
		}
	}

	var toRemove []string
	if purge {
		for k := range current {
			if _, ok := desired[k]; !ok {
				toRemove = append(toRemove, k)
			}
		}
	}

	if len(toAdd) == 0 {
		toAdd = nil
	}
	return toAdd, toRemove
}
