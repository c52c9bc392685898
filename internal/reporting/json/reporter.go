package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	"github.com/infinidash-io/dash-manager/internal/core/ports"
	"github.com/infinidash-io/dash-manager/pkg/convert"
)

const ReporterTypeJSON = "json"

type Config struct {
	// Compact disables indentation for machine consumers.
	Compact bool `yaml:"compact" mapstructure:"compact"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

// jsonResult is the normalized result record. Config keys are converted to
// snake_case to match the rest of the record.
type jsonResult struct {
	Changed     bool              `json:"changed"`
	State       string            `json:"state"`
	CheckMode   bool              `json:"check_mode,omitempty"`
	ID          string            `json:"id,omitempty"`
	ARN         string            `json:"arn,omitempty"`
	Name        string            `json:"name,omitempty"`
	Status      string            `json:"status,omitempty"`
	CreatedTime string            `json:"created_time,omitempty"`
	Config      map[string]any    `json:"config,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	ConfigDrift string            `json:"config_drift,omitempty"`
}

func (r *Reporter) Report(ctx context.Context, result *domain.EnsureResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	record := jsonResult{
		Changed:     result.Changed,
		State:       result.State.String(),
		CheckMode:   result.CheckMode,
		ConfigDrift: result.ConfigDrift,
	}

	if result.Dash != nil {
		record.ID = result.Dash.ID
		record.ARN = result.Dash.ARN
		record.Name = result.Dash.Name
		record.Status = result.Dash.Status.String()
		record.CreatedTime = result.Dash.CreatedTime
		record.Config = convert.SnakeCaseKeys(result.Dash.Config)
		record.Tags = result.Dash.Tags
	}

	encoder := json.NewEncoder(r.writer)
	if !r.config.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(record); err != nil {
		r.logger.Errorf(ctx, err, "Failed to encode JSON result")
		return fmt.Errorf("failed to encode JSON result: %w", err)
	}

	r.logger.Debugf(ctx, "JSON result successfully written.")
	return nil
}
