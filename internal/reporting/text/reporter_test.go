package text

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	"github.com/infinidash-io/dash-manager/mocks"
)

func newTestReporter(t *testing.T) (*Reporter, *bytes.Buffer) {
	t.Helper()
	logger := new(mocks.MockLogger)
	logger.On("Debugf", mock.Anything, mock.Anything, mock.Anything).Maybe().Return()

	r, err := NewReporter(Config{NoColor: true}, logger)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	r.writer = buf
	return r, buf
}

func TestReportChangedDash(t *testing.T) {
	r, buf := newTestReporter(t)

	result := &domain.EnsureResult{
		Changed: true,
		State:   domain.StatePresent,
		Dash: &domain.Dash{
			ID:     "dash-0123456789abcdef0",
			Name:   "InfinidashRawks",
			Status: domain.StatusAvailable,
			Tags:   map[string]string{"Env": "prod", "Team": "core"},
		},
	}

	require.NoError(t, r.Report(context.Background(), result))

	out := buf.String()
	assert.Contains(t, out, "[CHANGED]")
	assert.Contains(t, out, "InfinidashRawks")
	assert.Contains(t, out, "dash-0123456789abcdef0")
	assert.Contains(t, out, "Env=prod")
}

func TestReportNoChange(t *testing.T) {
	r, buf := newTestReporter(t)

	result := &domain.EnsureResult{Changed: false, State: domain.StateAbsent}

	require.NoError(t, r.Report(context.Background(), result))
	assert.Contains(t, buf.String(), "[OK]")
}

func TestReportCheckModeAndDrift(t *testing.T) {
	r, buf := newTestReporter(t)

	result := &domain.EnsureResult{
		Changed:     true,
		State:       domain.StatePresent,
		CheckMode:   true,
		Dash:        &domain.Dash{Name: "InfinidashRawks"},
		ConfigDrift: "- ReplicaCount: 3\n+ ReplicaCount: 5",
	}

	require.NoError(t, r.Report(context.Background(), result))

	out := buf.String()
	assert.Contains(t, out, "check mode")
	assert.Contains(t, out, "ReplicaCount")
}
