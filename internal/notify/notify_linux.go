//go:build linux

package notify

import (
	"os/exec"

	"github.com/rs/zerolog/log"
)

type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

func (l *linuxNotifier) Send(n Notification) error {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		log.Warn().Str("notifier", "linux").Msg("notify-send not found, skipping desktop notification")
		return nil
	}

	args := []string{"--app-name=ffupdater", n.Title, n.Message}
	if n.Sound {
		args = append(args, "--hint=string:sound-name:message-new-instant")
	}
	return exec.Command(path, args...).Run()
}

func (l *linuxNotifier) Name() string { return "linux" }
