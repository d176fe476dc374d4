package commands

import (
	"github.com/spf13/cobra"
)

// VersionsCmd fetches and prints the published browser versions.
var VersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Show the latest published browser versions",
	Long:  "Fetch the version document and print the release, beta and nightly versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		return RunVersions(cmd.Context(), url)
	},
}

// CheckCmd runs one update check for the installed apps.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check installed apps for updates",
	Long:  "Compare the installed versions from the configuration with the latest published versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sendNotification, _ := cmd.Flags().GetBool("notify")
		return RunCheck(cmd.Context(), sendNotification)
	},
}

// RunCmd runs the background update checker.
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background update checker",
	Long:  "Schedule the recurring update check and keep running until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now, _ := cmd.Flags().GetBool("now")
		return RunDaemon(cmd.Context(), now)
	},
}

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ffupdater version",
	Long:  "Show the version of the ffupdater CLI",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		RunVersion()
	},
}

func init() {
	VersionsCmd.Flags().String("url", "", "Version document URL (defaults to the configured version_url)")
	CheckCmd.Flags().Bool("notify", false, "Send the update notification when updates are available")
	RunCmd.Flags().Bool("now", false, "Run one check immediately after starting")
}
