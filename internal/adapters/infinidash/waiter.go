package infinidash

import (
	"context"
	"fmt"
	"time"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
)

// WaitUntilAvailable polls DescribeDashes until the Dash reports an
// available status or the timeout elapses. A not-found response is treated
// as transient: describe consistency lags create on this service.
func (c *Client) WaitUntilAvailable(ctx context.Context, dashID string, timeout time.Duration) (*domain.Dash, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.logger.Debugf(ctx, "Waiting up to %s for Dash %s to become available", timeout, dashID)

	for {
		dash, err := c.DescribeDash(waitCtx, dashID)
		switch {
		case err == nil:
			switch dash.Status {
			case domain.StatusAvailable:
				return dash, nil
			case domain.StatusDeleting, domain.StatusDeleted:
				return nil, apperrors.New(apperrors.CodePlatformAPIError,
					fmt.Sprintf("Dash '%s' entered status '%s' while waiting for it to become available", dashID, dash.Status))
			default:
				c.logger.Debugf(waitCtx, "Dash %s status is '%s', still waiting", dashID, dash.Status)
			}
		case apperrors.Is(err, apperrors.CodeResourceNotFound):
			c.logger.Debugf(waitCtx, "Dash %s not visible yet, still waiting", dashID)
		case waitCtx.Err() != nil && ctx.Err() == nil:
			return nil, c.timeoutError(dashID, timeout, err)
		default:
			return nil, err
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, apperrors.Wrap(ctx.Err(), apperrors.CodePlatformAPIError,
					fmt.Sprintf("cancelled while waiting for Dash '%s'", dashID))
			}
			return nil, c.timeoutError(dashID, timeout, waitCtx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) timeoutError(dashID string, timeout time.Duration, cause error) error {
	return apperrors.WrapUserFacing(cause, apperrors.CodeWaitTimeout,
		fmt.Sprintf("timed out after %s waiting for Dash '%s' to become available", timeout, dashID),
		"Increase wait_timeout or check the Dash status in the console.")
}
