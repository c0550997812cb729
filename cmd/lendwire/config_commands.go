package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lendwire/internal/config"
	"lendwire/internal/tier"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api_bind = %q\n", cfg.Server.APIBind)
			fmt.Fprintf(out, "data_dir = %q\n", cfg.Server.DataDir)
			fmt.Fprintf(out, "log_dir = %q\n", cfg.Server.LogDir)
			fmt.Fprintf(out, "socket_path = %q\n", cfg.Server.SocketPath)
			fmt.Fprintf(out, "api_token_set = %s\n", yesNo(strings.TrimSpace(cfg.Server.APIToken) != ""))
			fmt.Fprintf(out, "small_threshold = %s\n", tier.FormatAmount(cfg.Lending.SmallThreshold))
			fmt.Fprintf(out, "large_threshold = %s\n", tier.FormatAmount(cfg.Lending.LargeThreshold))
			fmt.Fprintf(out, "seed_sample_data = %t\n", cfg.Lending.SeedSampleData)
			for _, tr := range tier.AllTiers() {
				fmt.Fprintf(out, "webhook_%s_set = %s\n", tr, yesNo(cfg.WebhookURL(string(tr)) != ""))
			}
			fmt.Fprintf(out, "notification_queue_size = %d\n", cfg.Notifications.QueueSize)
			fmt.Fprintf(out, "log_format = %q\n", cfg.Logging.Format)
			fmt.Fprintf(out, "log_level = %q\n", cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set the Slack webhook URLs (or export SLACK_WEBHOOK_URL_SMALL, SLACK_WEBHOOK_URL_MEDIUM, SLACK_WEBHOOK_URL_LARGE) before running lendwired.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load("")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			thresholds := cfg.Thresholds()
			for _, tr := range tier.AllTiers() {
				configured := yesNo(cfg.WebhookURL(string(tr)) != "")
				fmt.Fprintf(out, "%s tier (%s): webhook configured: %s\n", tr, thresholds.Description(tr), configured)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
