package app

import (
	"context"
	stderrs "errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/infinidash-io/dash-manager/internal/adapters/infinidash"
	"github.com/infinidash-io/dash-manager/internal/adapters/infinidash/limiter"
	"github.com/infinidash-io/dash-manager/internal/adapters/infinidash/shared"
	"github.com/infinidash-io/dash-manager/internal/config"
	"github.com/infinidash-io/dash-manager/internal/core/ports"
	"github.com/infinidash-io/dash-manager/internal/core/service"
	"github.com/infinidash-io/dash-manager/internal/errors"
	"github.com/infinidash-io/dash-manager/internal/log"
	"github.com/infinidash-io/dash-manager/internal/reporting/json"
	"github.com/infinidash-io/dash-manager/internal/reporting/text"
)

// BuildApplicationFromViper wires the full application: config, logger,
// AWS credentials, the Infinidash client and the ensure service.
func BuildApplicationFromViper(ctx context.Context, v *viper.Viper) (*Application, error) {
	cfg := config.DefaultConfig()
	err := v.Unmarshal(cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigParseError, "failed to unmarshal configuration")
	}

	logCfg := log.Config{Level: cfg.Settings.LogLevel, Format: cfg.Settings.LogFormat}
	logger, err := log.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to initialize logger: %v\n", err)
		return nil, errors.Wrap(err, errors.CodeInternal, "logger initialization failed")
	}
	logger.Infof(ctx, "Logger initialized (Level: %s, Format: %s)", cfg.Settings.LogLevel, cfg.Settings.LogFormat)
	if v.ConfigFileUsed() != "" {
		logger.Debugf(ctx, "Using configuration file: %s", v.ConfigFileUsed())
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(ctx, cfg); err != nil {
		var details strings.Builder
		details.WriteString("Configuration validation failed:")
		var validationErrors validator.ValidationErrors
		if stderrs.As(err, &validationErrors) {
			for _, fe := range validationErrors {
				details.WriteString(fmt.Sprintf("\n - Field '%s': Failed on '%s' validation (value: '%v')", fe.Namespace(), fe.Tag(), fe.Value()))
			}
		} else {
			details.WriteString(fmt.Sprintf("\n - %v", err))
		}
		wrappedErr := errors.NewUserFacing(errors.CodeConfigValidation, details.String(), "Please check your configuration file or flags.")
		logger.Errorf(ctx, wrappedErr, "Configuration validation failed")
		return nil, wrappedErr
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorf(ctx, err, "Configuration validation failed")
		return nil, err
	}
	logger.Debugf(ctx, "Configuration validated successfully")

	limiter.Initialize(cfg.Settings.APIRateLimit, logger)

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "AWS configuration loaded (region: %s)", awsCfg.Region)

	accountID, err := preflightIdentity(ctx, sts.NewFromConfig(awsCfg), logger)
	if err != nil {
		return nil, err
	}
	logger.Infof(ctx, "Authenticated to AWS account %s", accountID)

	client := infinidash.NewClient(awsCfg, logger.WithFields(map[string]any{"component": "infinidash"}),
		infinidash.WithEndpoint(cfg.AWS.Endpoint),
		infinidash.WithMaxRetries(cfg.AWS.MaxRetries),
	)

	desiredConfig, err := cfg.ResolveDashConfig()
	if err != nil {
		logger.Errorf(ctx, err, "Failed to resolve dash configuration")
		return nil, err
	}

	ensurer, err := service.NewEnsurer(service.Params{
		Name:          cfg.Dash.Name,
		DashID:        cfg.Dash.DashID,
		DesiredState:  cfg.Dash.State,
		DesiredConfig: desiredConfig,
		Tags:          cfg.Dash.Tags,
		PurgeTags:     cfg.Dash.PurgeTags,
		Wait:          cfg.Dash.Wait,
		WaitTimeout:   cfg.WaitTimeout(),
		CheckMode:     cfg.Settings.CheckMode,
	}, client, logger.WithFields(map[string]any{"component": "ensurer"}))
	if err != nil {
		return nil, err
	}

	var reporter ports.Reporter
	switch cfg.Settings.ReporterType {
	case text.ReporterTypeText:
		reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": text.ReporterTypeText})
		reporter, err = text.NewReporter(text.Config{}, reportLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize Text reporter")
		}
	case json.ReporterTypeJSON, "":
		reportLog := logger.WithFields(map[string]any{"component": "reporter", "type": json.ReporterTypeJSON})
		reporter, err = json.NewReporter(json.Config{}, reportLog)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInternal, "failed to initialize JSON reporter")
		}
	default:
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("unsupported reporter type: %s", cfg.Settings.ReporterType), "Supported: json, text")
	}

	return NewApplication(ensurer, reporter, logger), nil
}

func loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.AWS.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWS.Region))
	}
	if cfg.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.AWS.Profile))
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, errors.Wrap(err, errors.CodeConfigValidation, "failed to load AWS configuration")
	}
	return awsCfg, nil
}

// preflightIdentity verifies credentials are usable before any Infinidash
// call, so auth problems surface as one clear error instead of a failed
// resource operation.
func preflightIdentity(ctx context.Context, client shared.STSClientInterface, logger ports.Logger) (string, error) {
	output, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.WrapUserFacing(err, errors.CodePlatformAuth,
			"failed to verify AWS credentials",
			"Check your AWS credentials, profile and region configuration.")
	}
	if output.Account == nil {
		return "", errors.New(errors.CodePlatformAuth, "AWS caller identity response did not contain an account ID")
	}
	logger.Debugf(ctx, "Caller identity verified")
	return aws.ToString(output.Account), nil
}
