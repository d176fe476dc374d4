package commands

import (
	"github.com/spf13/cobra"
)

// NotifyCmd is the parent command for notification management.
var NotifyCmd = &cobra.Command{
	Use:     "notify",
	Aliases: []string{"n"},
	Short:   "Manage update notifications",
	Long:    "List and test the configured desktop, webhook and hook notifiers",
}

// notifyListCmd lists the configured notifiers.
var notifyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifiers",
	Long:  "List the notifiers an update notification is delivered to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunNotifyList()
	},
}

// notifyTestCmd sends the update notification to every notifier.
var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Send the update notification to every configured notifier",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunNotifyTest()
	},
}

func init() {
	NotifyCmd.AddCommand(notifyListCmd)
	NotifyCmd.AddCommand(notifyTestCmd)
}
