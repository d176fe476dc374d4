package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ffupdater/internal/commands"
	"ffupdater/internal/config"
	"ffupdater/internal/logger"
	"ffupdater/internal/output"
)

var (
	jsonFlag     bool
	configFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:           "ffupdater",
	Short:         "Check installed Firefox for Android builds for updates",
	Long:          "ffupdater fetches the published Firefox for Android versions, compares them with the installed ones and notifies when updates are available",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Settings file (default ./ffupdater.yaml or ~/.ffupdater/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(commands.VersionsCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.NotifyCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

// setup applies the global flags before any subcommand runs.
func setup(cmd *cobra.Command, args []string) {
	output.JSONMode = jsonFlag
	commands.ConfigPath = configFlag

	level := logLevelFlag
	if level == "" {
		// settings errors surface later in the subcommand itself
		if s, err := config.Load(config.ResolvePath(configFlag)); err == nil {
			level = s.LogLevel
		}
	}

	l := logger.New(logger.Config{
		Level:  level,
		Pretty: term.IsTerminal(int(os.Stderr.Fd())),
	})
	commands.Logger = l
	log.Logger = l
}

func main() {
	rootCmd.PersistentPreRun = setup

	if err := rootCmd.Execute(); err != nil {
		if !output.JSONMode {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
