package config

import (
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/infinidash-io/dash-manager/internal/core/domain"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
	"github.com/infinidash-io/dash-manager/internal/log"
	"github.com/infinidash-io/dash-manager/internal/reporting/json"
	"github.com/infinidash-io/dash-manager/internal/reporting/text"
)

var jsonParser = jsoniter.ConfigCompatibleWithStandardLibrary

type Config struct {
	Settings SettingsConfig `yaml:"settings" mapstructure:"settings"`
	AWS      AWSConfig      `yaml:"aws" mapstructure:"aws"`
	Dash     DashConfig     `yaml:"dash" mapstructure:"dash"`
}

type SettingsConfig struct {
	LogLevel     log.Level  `yaml:"log_level" mapstructure:"log_level"`
	LogFormat    log.Format `yaml:"log_format" mapstructure:"log_format"`
	ReporterType string     `yaml:"reporter" mapstructure:"reporter" validate:"omitempty,oneof=json text"`
	CheckMode    bool       `yaml:"check_mode" mapstructure:"check_mode"`
	APIRateLimit int        `yaml:"api_rate_limit" mapstructure:"api_rate_limit" validate:"gte=0,lte=100"`
}

type AWSConfig struct {
	Region          string `yaml:"region" mapstructure:"region"`
	Profile         string `yaml:"profile" mapstructure:"profile"`
	AccessKeyID     string `yaml:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" mapstructure:"secret_access_key"`
	Endpoint        string `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,url"`
	MaxRetries      int    `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// DashConfig mirrors the declarative parameters of the managed resource.
// DashConfigJSON and ConfigFile are mutually exclusive sources for the
// service-side configuration document; when neither is set the service
// applies its own default policy.
type DashConfig struct {
	Name           string              `yaml:"name" mapstructure:"name"`
	DashID         string              `yaml:"dash_id" mapstructure:"dash_id"`
	DashConfigJSON string              `yaml:"dash_config" mapstructure:"dash_config"`
	ConfigFile     string              `yaml:"config_file" mapstructure:"config_file"`
	State          domain.DesiredState `yaml:"state" mapstructure:"state" validate:"required,oneof=present absent"`
	Tags           map[string]string   `yaml:"tags" mapstructure:"tags"`
	PurgeTags      bool                `yaml:"purge_tags" mapstructure:"purge_tags"`
	Wait           bool                `yaml:"wait" mapstructure:"wait"`
	WaitTimeout    int                 `yaml:"wait_timeout" mapstructure:"wait_timeout" validate:"gte=0"`
}

const DefaultWaitTimeoutSeconds = 320

func DefaultConfig() *Config {
	return &Config{
		Settings: SettingsConfig{
			LogLevel:     log.LevelInfo,
			LogFormat:    log.FormatText,
			ReporterType: json.ReporterTypeJSON,
		},
		AWS: AWSConfig{
			MaxRetries: 4,
		},
		Dash: DashConfig{
			State:       domain.StatePresent,
			Wait:        true,
			WaitTimeout: DefaultWaitTimeoutSeconds,
		},
	}
}

// Validate enforces the semantic constraints the struct tags cannot express.
func (c *Config) Validate() error {
	if !c.Dash.State.Valid() {
		return apperrors.NewUserFacing(apperrors.CodeConfigValidation,
			fmt.Sprintf("invalid state %q", c.Dash.State),
			"Use 'present' or 'absent'.")
	}

	if c.Dash.DashConfigJSON != "" && c.Dash.ConfigFile != "" {
		return apperrors.NewUserFacing(apperrors.CodeConfigValidation,
			"dash_config and config_file are mutually exclusive",
			"Provide the dash configuration inline or as a file, not both.")
	}

	switch c.Dash.State {
	case domain.StatePresent:
		if c.Dash.Name == "" {
			return apperrors.NewUserFacing(apperrors.CodeConfigValidation,
				"name is required when state is present",
				"Set dash.name to the name of the Dash to create.")
		}
	case domain.StateAbsent:
		if c.Dash.DashID == "" {
			return apperrors.NewUserFacing(apperrors.CodeConfigValidation,
				"dash_id is required when state is absent",
				"Set dash.dash_id to the ID of the Dash to delete.")
		}
	}

	switch c.Settings.ReporterType {
	case "", json.ReporterTypeJSON, text.ReporterTypeText:
	default:
		return apperrors.NewUserFacing(apperrors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type %q", c.Settings.ReporterType),
			"Supported reporters: json, text.")
	}

	return nil
}

// ResolveDashConfig returns the desired service-side configuration document
// from whichever source was supplied, or nil when neither was.
func (c *Config) ResolveDashConfig() (map[string]any, error) {
	if c.Dash.DashConfigJSON != "" {
		var doc map[string]any
		if err := jsonParser.UnmarshalFromString(c.Dash.DashConfigJSON, &doc); err != nil {
			return nil, apperrors.WrapUserFacing(err, apperrors.CodeConfigParseError,
				"dash_config is not valid JSON",
				"Check the inline dash_config document for syntax errors.")
		}
		return doc, nil
	}

	if c.Dash.ConfigFile != "" {
		data, err := os.ReadFile(c.Dash.ConfigFile)
		if err != nil {
			return nil, apperrors.WrapUserFacing(err, apperrors.CodeConfigReadError,
				fmt.Sprintf("failed to read config file %q", c.Dash.ConfigFile),
				"Check that the file exists and is readable.")
		}
		var doc map[string]any
		if err := jsonParser.Unmarshal(data, &doc); err != nil {
			return nil, apperrors.WrapUserFacing(err, apperrors.CodeConfigParseError,
				fmt.Sprintf("config file %q is not valid JSON", c.Dash.ConfigFile),
				"Check the config file for syntax errors.")
		}
		return doc, nil
	}

	return nil, nil
}

func (c *Config) WaitTimeout() time.Duration {
	if c.Dash.WaitTimeout <= 0 {
		return DefaultWaitTimeoutSeconds * time.Second
	}
	return time.Duration(c.Dash.WaitTimeout) * time.Second
}
