package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/flatcar/nebraska-sub000/pkg/config"
	"github.com/flatcar/nebraska-sub000/pkg/constants"
	"github.com/flatcar/nebraska-sub000/pkg/display"
	"github.com/flatcar/nebraska-sub000/pkg/errors"
	"github.com/flatcar/nebraska-sub000/pkg/verbose"
)

var (
	configShowDefaultsFlag bool
	configInitFlag         bool
	configValidateFlag     bool
)

var writeFileFunc = os.WriteFile

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, create or validate configuration",
	Long: `Show the effective configuration, or create and validate a .fleetview.yml.

Without flags the effective configuration is printed as YAML.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configShowDefaultsFlag, "show-defaults", false, "Show default configuration")
	configCmd.Flags().BoolVar(&configInitFlag, "init", false, "Create .fleetview.yml template")
	configCmd.Flags().BoolVar(&configValidateFlag, "validate", false, "Validate configuration file and report every problem")
}

// runConfig executes the config command with the specified flags.
//
// Behavior depends on flags:
//   - --init: Creates a .fleetview.yml template file
//   - --validate: Validates the configuration file
//   - --show-defaults: Displays the default configuration
//   - none: Displays the effective configuration
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Command line arguments
//
// Returns:
//   - error: Returns error on validation or file operation failure
func runConfig(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	if configInitFlag {
		return createConfigTemplate(cmd)
	}

	if configValidateFlag {
		return validateConfigFile(cmd)
	}

	if configShowDefaultsFlag {
		_, _ = fmt.Fprint(w, config.GetDefaultConfig())
		return nil
	}

	workDir, err := getwdFunc()
	if err != nil {
		workDir = "."
	}
	cfg, err := loadConfigFunc(configFlag, workDir)
	if err != nil {
		return err
	}

	data, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	source := cfg.SourcePath
	if source == "" {
		source = "built-in defaults"
	}
	_, _ = fmt.Fprintf(w, "# source: %s\n", source)
	_, _ = fmt.Fprint(w, string(data))
	return nil
}

// configPath returns --config, or .fleetview.yml in the working directory.
func configPath() string {
	if configFlag != "" {
		return configFlag
	}
	workDir, err := getwdFunc()
	if err != nil {
		workDir = "."
	}
	return filepath.Join(workDir, config.ConfigFileName)
}

// validateConfigFile validates the configuration file and reports every problem.
//
// Returns:
//   - error: ExitError with ExitConfigError code when the file has errors
func validateConfigFile(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	path := configPath()

	result, err := config.ValidateFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if result.HasErrors() {
		_, _ = fmt.Fprintf(w, "%s Configuration validation failed for: %s\n\n", constants.IconDanger, path)
		for _, e := range result.Errors {
			msg := e.Error()
			if verbose.IsEnabled() {
				msg = e.VerboseError()
			}
			_, _ = fmt.Fprintf(w, "  ERROR: %s\n", msg)
		}
		for _, warning := range result.Warnings {
			_, _ = fmt.Fprintf(w, "  WARNING: %s\n", warning)
		}
		if !verbose.IsEnabled() {
			_, _ = fmt.Fprintln(w)
			display.PrintHint(w, "Run with --verbose for the expected values")
		}
		verbose.Infof("Exit code %d (config error): configuration validation failed for %s", errors.ExitConfigError, path)
		return errors.NewExitErrorf(errors.ExitConfigError, "configuration validation failed")
	}

	if len(result.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "%s Configuration valid with warnings: %s\n\n", constants.IconWarning, path)
		for _, warning := range result.Warnings {
			_, _ = fmt.Fprintf(w, "  WARNING: %s\n", warning)
		}
		return nil
	}

	_, _ = fmt.Fprintf(w, "%s Configuration valid: %s\n", constants.IconSuccess, path)
	return nil
}

// createConfigTemplate writes the commented template to .fleetview.yml in the working directory.
//
// Returns:
//   - error: the file already exists or cannot be written
func createConfigTemplate(cmd *cobra.Command) error {
	workDir, err := getwdFunc()
	if err != nil {
		workDir = "."
	}
	path := filepath.Join(workDir, config.ConfigFileName)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := writeFileFunc(path, []byte(config.GetTemplateConfig()), 0o600); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created configuration template: %s\n", path)
	return nil
}
