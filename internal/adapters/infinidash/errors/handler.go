package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"

	"github.com/infinidash-io/dash-manager/internal/errors"
)

// HandleServiceError maps Infinidash API failures to application error codes.
// operation: the API operation that failed (e.g. "CreateDash")
// resourceID: the Dash identifier involved, if any
// err: the original error
// ctx: the context, to check for cancellation
func HandleServiceError(operation string, resourceID string, err error, ctx context.Context) error {
	if err == nil {
		return errors.New(errors.CodeInternal, fmt.Sprintf("unexpected nil error in Infinidash error handler for %s", operation))
	}

	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), errors.CodePlatformAPIError,
			fmt.Sprintf("context canceled during Infinidash %s call", operation))
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return errors.Wrap(err, errors.CodePlatformAPIError,
			fmt.Sprintf("context canceled during Infinidash %s call", operation))
	}

	target := operation
	if resourceID != "" {
		target = fmt.Sprintf("%s for Dash '%s'", operation, resourceID)
	}

	var apiErr smithy.APIError
	if stderrs.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "DashNotFoundException", "ResourceNotFoundException":
			return errors.Wrap(err, errors.CodeResourceNotFound,
				fmt.Sprintf("Dash '%s' not found", resourceID))
		case "DashAlreadyExistsException":
			return errors.Wrap(err, errors.CodeResourceConflict,
				fmt.Sprintf("Dash '%s' already exists", resourceID))
		case "ThrottlingException", "TooManyRequestsException", "RequestLimitExceeded":
			return errors.Wrap(err, errors.CodeThrottled,
				fmt.Sprintf("Infinidash API throttled %s", target))
		case "AccessDeniedException", "UnrecognizedClientException", "InvalidSignatureException", "ExpiredTokenException":
			return errors.Wrap(err, errors.CodePlatformAuth,
				fmt.Sprintf("authentication error during %s", target))
		}
	}

	errMsg := err.Error()

	if strings.Contains(errMsg, "AuthFailure") ||
		strings.Contains(errMsg, "UnauthorizedOperation") ||
		strings.Contains(errMsg, "AccessDenied") {
		return errors.Wrap(err, errors.CodePlatformAuth,
			fmt.Sprintf("authentication error during %s", target))
	}

	if strings.Contains(errMsg, "NotFound") ||
		strings.Contains(errMsg, "not found") ||
		strings.Contains(errMsg, "not exist") {
		return errors.Wrap(err, errors.CodeResourceNotFound,
			fmt.Sprintf("Dash '%s' not found", resourceID))
	}

	return errors.Wrap(err, errors.CodePlatformAPIError,
		fmt.Sprintf("Infinidash %s failed", target))
}

// DefaultErrorHandler implements the shared.ErrorHandler interface.
type DefaultErrorHandler struct{}

func (d *DefaultErrorHandler) Handle(operation, resourceID string, err error, ctx context.Context) error {
	return HandleServiceError(operation, resourceID, err, ctx)
}
