package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/infinidash-io/dash-manager/internal/app"
	apperrors "github.com/infinidash-io/dash-manager/internal/errors"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dash-manager",
	Short: "Creates and deletes AWS Infinidash Dashes.",
	Long: `Dash Manager ensures an AWS Infinidash Dash matches a desired declarative
state: 'present' creates the Dash (from an inline JSON config or a config
file) when it does not exist, 'absent' deletes it. The outcome is reported
as a normalized result record.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		application, bootstrapErr := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
		if bootstrapErr != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Application initialization failed: %v\n", bootstrapErr)
			if appErr := (*apperrors.AppError)(nil); errors.As(bootstrapErr, &appErr) {
				if appErr.IsUserFacing {
					fmt.Fprintf(os.Stderr, "Error Details: %s\n", appErr.Message)
					if appErr.SuggestedAction != "" {
						fmt.Fprintf(os.Stderr, "Suggestion: %s\n", appErr.SuggestedAction)
					}
				}
			}
			return bootstrapErr
		}

		runErr := application.Run(cmd.Context())
		if runErr != nil {
			userMsg, suggestion, _ := apperrors.GetUserFacingMessage(runErr)
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
			if suggestion != "" {
				fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
			}
			return runErr
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .dash-manager.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")
	rootCmd.PersistentFlags().String("reporter", "", "Result output format (json, text)")
	rootCmd.PersistentFlags().Bool("check", false, "Report what would change without calling the service")

	rootCmd.Flags().String("name", "", "Name to give the Dash")
	rootCmd.Flags().String("dash-id", "", "Dash ID, required when state is absent")
	rootCmd.Flags().String("dash-config", "", "Inline JSON Dash configuration (mutually exclusive with --config-file)")
	rootCmd.Flags().String("config-file", "", "Path to a JSON Dash configuration file (mutually exclusive with --dash-config)")
	rootCmd.Flags().String("state", "present", "Desired state: present or absent")
	rootCmd.Flags().StringToString("tags", nil, "Tags to apply to the Dash (key=value)")
	rootCmd.Flags().Bool("purge-tags", false, "Remove tags not listed in --tags")
	rootCmd.Flags().Bool("wait", true, "Wait for the Dash to become available before returning")
	rootCmd.Flags().Int("wait-timeout", 320, "Seconds to wait for the Dash status (ignored for deletes)")
	rootCmd.Flags().String("region", "", "AWS region")
	rootCmd.Flags().String("profile", "", "AWS shared config profile")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("settings.reporter", rootCmd.PersistentFlags().Lookup("reporter"))
	viper.BindPFlag("settings.check_mode", rootCmd.PersistentFlags().Lookup("check"))

	viper.BindPFlag("dash.name", rootCmd.Flags().Lookup("name"))
	viper.BindPFlag("dash.dash_id", rootCmd.Flags().Lookup("dash-id"))
	viper.BindPFlag("dash.dash_config", rootCmd.Flags().Lookup("dash-config"))
	viper.BindPFlag("dash.config_file", rootCmd.Flags().Lookup("config-file"))
	viper.BindPFlag("dash.state", rootCmd.Flags().Lookup("state"))
	viper.BindPFlag("dash.tags", rootCmd.Flags().Lookup("tags"))
	viper.BindPFlag("dash.purge_tags", rootCmd.Flags().Lookup("purge-tags"))
	viper.BindPFlag("dash.wait", rootCmd.Flags().Lookup("wait"))
	viper.BindPFlag("dash.wait_timeout", rootCmd.Flags().Lookup("wait-timeout"))
	viper.BindPFlag("aws.region", rootCmd.Flags().Lookup("region"))
	viper.BindPFlag("aws.profile", rootCmd.Flags().Lookup("profile"))

	viper.SetEnvPrefix("INFINIDASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".dash-manager")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using configuration file:", viper.ConfigFileUsed())
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found, using defaults and environment variables.")
		} else {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}

	return nil
}
