package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ffupdater/internal/apps"
	"ffupdater/internal/config"
	"ffupdater/internal/output"
	"ffupdater/internal/ui"
)

// ConfigCmd is the parent command for settings management.
var ConfigCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"c"},
	Short:   "Manage settings",
	Long:    "Show, initialise or locate the ffupdater settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigShow()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return RunConfigInit(force)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigPath()
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing settings file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configPathCmd)
}

// RunConfigShow prints the settings in effect.
func RunConfigShow() error {
	s, path, err := loadSettings()
	if err != nil {
		return output.Fail(err)
	}

	output.Print(s, func() {
		ui.ShowHeader("Settings")
		ui.ShowField("File", path)
		ui.ShowField("Automatic check", strconv.FormatBool(s.AutomaticCheck))
		ui.ShowField("Interval", fmt.Sprintf("%d minutes", s.CheckIntervalMinutes))
		ui.ShowField("Minimum", fmt.Sprintf("%d minutes", s.MinIntervalMinutes))
		ui.ShowField("Version URL", s.VersionURL)
		ui.ShowField("Language", s.Language)
		ui.ShowField("Installed", formatInstalled(s))
		ui.ShowField("Disabled", strings.Join(s.Disabled, ", "))
		ui.ShowField("Desktop", strconv.FormatBool(s.Notifiers.Desktop))
		ui.ShowField("Webhooks", strconv.Itoa(len(s.Notifiers.Webhooks)))
		ui.ShowField("Hook", s.Notifiers.Hook)
		ui.ShowField("Metrics", s.MetricsAddr)
	})
	return nil
}

func formatInstalled(s *config.Settings) string {
	installed := s.InstalledVersions()
	var parts []string
	for _, a := range apps.All() {
		if v, ok := installed[a]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", a, v))
		}
	}
	return strings.Join(parts, ", ")
}

// RunConfigInit writes the default settings to the resolved path.
func RunConfigInit(force bool) error {
	path := config.ResolvePath(ConfigPath)
	if _, err := os.Stat(path); err == nil && !force {
		return output.Fail(fmt.Errorf("%s already exists (use --force to overwrite)", path))
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return output.Fail(err)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return output.Fail(fmt.Errorf("write settings: %w", err))
	}

	output.Print(map[string]string{"path": path}, func() {
		ui.ShowSuccess("Settings written to %s", path)
	})
	return nil
}

// RunConfigPath prints where settings are read from.
func RunConfigPath() {
	path := config.ResolvePath(ConfigPath)
	output.Print(map[string]string{"path": path}, func() {
		fmt.Fprintln(ui.Out, path)
	})
}
