package shared

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/infinidash-io/dash-manager/internal/core/ports"
)

// RateLimiter defines an interface for rate-limiting Infinidash API calls.
type RateLimiter interface {
	// Wait blocks until the rate limit allows proceeding, or returns an error.
	Wait(ctx context.Context, logger ports.Logger) error
}

// ErrorHandler defines an interface for handling errors from Infinidash API calls.
type ErrorHandler interface {
	// Handle processes an error, potentially wrapping or transforming it.
	// Operation and resourceID provide context about where the error occurred.
	Handle(operation, resourceID string, err error, ctx context.Context) error
}

// STSClientInterface defines the method needed from the AWS SDK STS client.
type STSClientInterface interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}
