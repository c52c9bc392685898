package text

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	"github.com/infinidash-io/dash-manager/internal/core/ports"
)

const ReporterTypeText = "text"

type Config struct {
	NoColor bool `yaml:"no_color" mapstructure:"no_color"`
}

type Reporter struct {
	config Config
	writer io.Writer
	logger ports.Logger
}

func NewReporter(cfg Config, logger ports.Logger) (*Reporter, error) {
	if cfg.NoColor || !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	return &Reporter{
		config: cfg,
		writer: os.Stdout,
		logger: logger,
	}, nil
}

func isTerminal(f *os.File) bool {
	stat, _ := f.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func (r *Reporter) Report(ctx context.Context, result *domain.EnsureResult) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	status := green("[OK]")
	if result.Changed {
		status = yellow("[CHANGED]")
	}
	if result.CheckMode {
		status += cyan(" (check mode)")
	}

	fmt.Fprintf(r.writer, "%s state=%s\n", status, result.State)

	if result.Dash != nil {
		tw := tabwriter.NewWriter(r.writer, 0, 8, 2, ' ', 0)
		fmt.Fprintf(tw, "Name:\t%s\n", result.Dash.Name)
		if result.Dash.ID != "" {
			fmt.Fprintf(tw, "ID:\t%s\n", result.Dash.ID)
		}
		if result.Dash.ARN != "" {
			fmt.Fprintf(tw, "ARN:\t%s\n", result.Dash.ARN)
		}
		if result.Dash.Status != "" {
			fmt.Fprintf(tw, "Status:\t%s\n", result.Dash.Status)
		}
		if result.Dash.CreatedTime != "" {
			fmt.Fprintf(tw, "Created:\t%s\n", result.Dash.CreatedTime)
		}
		if len(result.Dash.Tags) > 0 {
			keys := make([]string, 0, len(result.Dash.Tags))
			for k := range result.Dash.Tags {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(tw, "Tag:\t%s=%s\n", k, result.Dash.Tags[k])
			}
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if result.ConfigDrift != "" {
		fmt.Fprintf(r.writer, "%s\n%s\n", yellow("Config differs from the supplied document (no update API, create-only):"), result.ConfigDrift)
	}

	r.logger.Debugf(ctx, "Text result successfully written.")
	return nil
}
