package infinidash

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	iderrors "github.com/infinidash-io/dash-manager/internal/adapters/infinidash/errors"
	"github.com/infinidash-io/dash-manager/internal/adapters/infinidash/limiter"
	"github.com/infinidash-io/dash-manager/internal/adapters/infinidash/shared"
	"github.com/infinidash-io/dash-manager/internal/core/domain"
	"github.com/infinidash-io/dash-manager/internal/core/ports"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
)

const (
	serviceName  = "dash"
	targetPrefix = "Infinidash_20210625"
	contentType  = "application/x-amz-json-1.1"

	opDescribeDashes = "DescribeDashes"
	opCreateDash     = "CreateDash"
	opDeleteDash     = "DeleteDash"
	opTagDash        = "TagDash"
	opUntagDash      = "UntagDash"

	defaultPollInterval = 5 * time.Second
	defaultRetryWait    = 500 * time.Millisecond
	defaultRetryMaxWait = 10 * time.Second

	// Hash of an empty payload, per SigV4.
	emptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// The x-amz-json content type is opaque to resty's automatic JSON
// handling, so the client runs its own codec.
var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is an SDK-style client for the Infinidash JSON API, implementing
// ports.DashClient. Requests are SigV4-signed; retry/backoff for throttled
// and server-side failures is delegated to the underlying HTTP client.
type Client struct {
	http         *resty.Client
	signer       *v4.Signer
	creds        aws.CredentialsProvider
	region       string
	limiter      shared.RateLimiter
	errorHandler shared.ErrorHandler
	logger       ports.Logger
	pollInterval time.Duration
}

var _ ports.DashClient = (*Client)(nil)

// ClientOption configures optional Client behavior.
type ClientOption func(*Client)

// WithEndpoint overrides the service endpoint, e.g. for local testing.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.http.SetBaseURL(endpoint)
		}
	}
}

// WithRateLimiter provides an option to set a custom rate limiter.
func WithRateLimiter(l shared.RateLimiter) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.limiter = l
		}
	}
}

// WithErrorHandler provides an option to set a custom error handler.
func WithErrorHandler(h shared.ErrorHandler) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithPollInterval sets the waiter poll interval.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// WithMaxRetries sets the transport-level retry count.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.http.SetRetryCount(n)
		}
	}
}

func NewClient(awsCfg aws.Config, logger ports.Logger, opts ...ClientOption) *Client {
	c := &Client{
		signer:       v4.NewSigner(),
		creds:        awsCfg.Credentials,
		region:       awsCfg.Region,
		limiter:      &limiter.DefaultRateLimiter{},
		errorHandler: &iderrors.DefaultErrorHandler{},
		logger:       logger,
		pollInterval: defaultPollInterval,
	}

	c.http = resty.New().
		SetBaseURL(fmt.Sprintf("https://%s.%s.amazonaws.com", serviceName, awsCfg.Region)).
		SetHeader("Content-Type", contentType).
		SetRetryCount(4).
		SetRetryWaitTime(defaultRetryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(retryable).
		SetPreRequestHook(c.signRequest)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// retryable retries throttling and server-side failures, never other
// client errors. Backoff itself is the HTTP client's concern.
func retryable(resp *resty.Response, err error) bool {
	if err != nil {
		return false
	}
	if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500 {
		return true
	}
	return resp.IsError() && bytes.Contains(resp.Body(), []byte(ErrCodeThrottling))
}

func (c *Client) signRequest(_ *resty.Client, req *http.Request) error {
	ctx := req.Context()

	creds, err := c.creds.Retrieve(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodePlatformAuth, "failed to retrieve AWS credentials")
	}

	payloadHash := emptyPayloadHash
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to read request body for signing")
		}
		data, err := io.ReadAll(body)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "failed to read request body for signing")
		}
		sum := sha256.Sum256(data)
		payloadHash = hex.EncodeToString(sum[:])
	}

	if err := c.signer.SignHTTP(ctx, creds, req, payloadHash, serviceName, c.region, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "failed to sign Infinidash request")
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, operation, resourceID string, input, output any) error {
	if err := c.limiter.Wait(ctx, c.logger); err != nil {
		return err
	}

	c.logger.Debugf(ctx, "Calling Infinidash %s", operation)

	payload, err := jsonCodec.Marshal(input)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal,
			fmt.Sprintf("failed to encode %s request", operation))
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Amz-Target", fmt.Sprintf("%s.%s", targetPrefix, operation)).
		SetBody(payload).
		Post("/")
	if err != nil {
		return c.errorHandler.Handle(operation, resourceID, err, ctx)
	}

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if uerr := jsonCodec.Unmarshal(resp.Body(), apiErr); uerr == nil && apiErr.Type != "" {
			return c.errorHandler.Handle(operation, resourceID, apiErr, ctx)
		}
		return c.errorHandler.Handle(operation, resourceID,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode(), resp.String()), ctx)
	}

	if output != nil && len(resp.Body()) > 0 {
		if err := jsonCodec.Unmarshal(resp.Body(), output); err != nil {
			return apperrors.Wrap(err, apperrors.CodePlatformAPIError,
				fmt.Sprintf("failed to decode %s response", operation))
		}
	}

	return nil
}

func (c *Client) DescribeDash(ctx context.Context, dashID string) (*domain.Dash, error) {
	output := &DescribeDashesOutput{}
	input := &DescribeDashesInput{DashIds: []string{dashID}}
	if err := c.invoke(ctx, opDescribeDashes, dashID, input, output); err != nil {
		return nil, err
	}
	if len(output.Dashes) == 0 {
		return nil, apperrors.New(apperrors.CodeResourceNotFound,
			fmt.Sprintf("Dash '%s' not found (empty response)", dashID))
	}
	return mapDashToDomain(output.Dashes[0]), nil
}

func (c *Client) DescribeDashByName(ctx context.Context, name string) (*domain.Dash, error) {
	output := &DescribeDashesOutput{}
	input := &DescribeDashesInput{DashNames: []string{name}}
	if err := c.invoke(ctx, opDescribeDashes, name, input, output); err != nil {
		return nil, err
	}
	if len(output.Dashes) == 0 {
		return nil, apperrors.New(apperrors.CodeResourceNotFound,
			fmt.Sprintf("Dash named '%s' not found (empty response)", name))
	}
	return mapDashToDomain(output.Dashes[0]), nil
}

func (c *Client) CreateDash(ctx context.Context, input ports.CreateDashInput) (*domain.Dash, error) {
	output := &CreateDashOutput{}
	wireInput := &CreateDashInput{
		DashName:   input.Name,
		DashConfig: input.Config,
		Tags:       input.Tags,
	}
	if err := c.invoke(ctx, opCreateDash, input.Name, wireInput, output); err != nil {
		return nil, err
	}
	return mapDashToDomain(output.Dash), nil
}

func (c *Client) DeleteDash(ctx context.Context, dashID string) error {
	return c.invoke(ctx, opDeleteDash, dashID, &DeleteDashInput{DashId: dashID}, &DeleteDashOutput{})
}

func (c *Client) TagDash(ctx context.Context, dashID string, tags map[string]string) error {
	if len(tags) == 0 {
		return nil
	}
	return c.invoke(ctx, opTagDash, dashID, &TagDashInput{DashId: dashID, Tags: tags}, &TagDashOutput{})
}

func (c *Client) UntagDash(ctx context.Context, dashID string, tagKeys []string) error {
	if len(tagKeys) == 0 {
		return nil
	}
	return c.invoke(ctx, opUntagDash, dashID, &UntagDashInput{DashId: dashID, TagKeys: tagKeys}, &UntagDashOutput{})
}
