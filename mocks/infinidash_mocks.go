package mocks

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/stretchr/testify/mock"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	ports "github.com/infinidash-io/dash-manager/internal/core/ports"
)

// MockDashClient is a mock implementation of ports.DashClient
type MockDashClient struct {
	mock.Mock
}

func (m *MockDashClient) DescribeDash(ctx context.Context, dashID string) (*domain.Dash, error) {
	args := m.Called(ctx, dashID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dash), args.Error(1)
}

func (m *MockDashClient) DescribeDashByName(ctx context.Context, name string) (*domain.Dash, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dash), args.Error(1)
}

func (m *MockDashClient) CreateDash(ctx context.Context, input ports.CreateDashInput) (*domain.Dash, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dash), args.Error(1)
}

func (m *MockDashClient) DeleteDash(ctx context.Context, dashID string) error {
	args := m.Called(ctx, dashID)
	return args.Error(0)
}

func (m *MockDashClient) TagDash(ctx context.Context, dashID string, tags map[string]string) error {
	args := m.Called(ctx, dashID, tags)
	return args.Error(0)
}

func (m *MockDashClient) UntagDash(ctx context.Context, dashID string, tagKeys []string) error {
	args := m.Called(ctx, dashID, tagKeys)
	return args.Error(0)
}

func (m *MockDashClient) WaitUntilAvailable(ctx context.Context, dashID string, timeout time.Duration) (*domain.Dash, error) {
	args := m.Called(ctx, dashID, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dash), args.Error(1)
}

// MockSTSClient is a mock implementation of the STS client
type MockSTSClient struct {
	mock.Mock
}

func (m *MockSTSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sts.GetCallerIdentityOutput), args.Error(1)
}

// MockRateLimiter is a mock implementation of shared.RateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Wait(ctx context.Context, logger ports.Logger) error {
	args := m.Called(ctx, logger)
	return args.Error(0)
}

// MockErrorHandler is a mock implementation of shared.ErrorHandler
type MockErrorHandler struct {
	mock.Mock
}

func (m *MockErrorHandler) Handle(operation, resourceID string, err error, ctx context.Context) error {
	args := m.Called(operation, resourceID, err, ctx)
	return args.Error(0)
}

// MockDashEnsurer is a mock implementation of ports.DashEnsurer
type MockDashEnsurer struct {
	mock.Mock
}

func (m *MockDashEnsurer) Ensure(ctx context.Context) (*domain.EnsureResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EnsureResult), args.Error(1)
}

// MockReporter is a mock implementation of ports.Reporter
type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Report(ctx context.Context, result *domain.EnsureResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// MockLogger is a no-op friendly mock implementation of ports.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debugf(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *MockLogger) Infof(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *MockLogger) Warnf(ctx context.Context, format string, args ...any) {
	m.Called(ctx, format, args)
}

func (m *MockLogger) Errorf(ctx context.Context, err error, format string, args ...any) {
	m.Called(ctx, err, format, args)
}

func (m *MockLogger) WithFields(fields map[string]any) ports.Logger {
	args := m.Called(fields)
	if args.Get(0) == nil {
		return m
	}
	return args.Get(0).(ports.Logger)
}
