package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sccompanion/sc-companion/internal/config"
	"github.com/sccompanion/sc-companion/internal/pathutil"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage companion.conf",
		Long: `Configuration management commands for sc-companion.

Commands:
  init          - Write a default companion.conf
  show          - Display current configuration
  path          - Show configuration file path
  install-root  - Set or clear the preferred installation root`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())
	configCmd.AddCommand(newConfigInstallRootCmd())

	return configCmd
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Configuration already exists at: %s\n", path)
					fmt.Fprintln(cmd.OutOrStdout(), "Use --force to overwrite.")
					return nil
				}
			}

			if err := config.Save(config.NewConfig(), path); err != nil {
				return err
			}
			GetLogger().Info().Str("path", path).Msg("Configuration written")
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the merged configuration.

Priority: environment (SC_COMPANION_*) > companion.conf > defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "[app]")
			fmt.Fprintf(out, "  instance_id:      %s\n", cfg.App.InstanceID)
			fmt.Fprintf(out, "  debug:            %t\n", cfg.App.Debug)
			fmt.Fprintf(out, "  file_logging:     %t\n", cfg.App.FileLogging)
			fmt.Fprintln(out, "[discovery]")
			fmt.Fprintf(out, "  install_root:     %s\n", orUnset(cfg.Discovery.InstallRoot))
			fmt.Fprintf(out, "  appdata_override: %s\n", orUnset(cfg.Discovery.AppDataOverride))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Log directory: %s\n", config.LogDirectory())
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, path)
			if _, err := os.Stat(path); err != nil {
				fmt.Fprintln(out, "Status: file does not exist (defaults in use)")
			}
			return nil
		},
	}
}

// newConfigInstallRootCmd creates the 'config install-root' command.
func newConfigInstallRootCmd() *cobra.Command {
	var clearRoot bool

	cmd := &cobra.Command{
		Use:   "install-root [dir]",
		Short: "Set the installation root tried before registry lookups",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !clearRoot && len(args) == 0 {
				return fmt.Errorf("directory argument required (or --clear)")
			}

			path, err := configPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if clearRoot {
				cfg.Discovery.InstallRoot = ""
			} else {
				root, err := pathutil.Resolve(args[0])
				if err != nil {
					return err
				}
				if info, err := os.Stat(root); err != nil || !info.IsDir() {
					return fmt.Errorf("%s is not a directory", root)
				}
				cfg.Discovery.InstallRoot = root
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "install_root = %s\n", orUnset(cfg.Discovery.InstallRoot))
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearRoot, "clear", false, "Remove the configured installation root")
	return cmd
}

func orUnset(s string) string {
	if s == "" {
		return "<not set>"
	}
	return s
}
