//go:build !darwin && !linux && !windows

package notify

import (
	"runtime"

	"github.com/rs/zerolog/log"
)

// unsupportedNotifier drops desktop notifications on platforms without a
// notification command.
type unsupportedNotifier struct{}

func newPlatformNotifier() Notifier {
	return &unsupportedNotifier{}
}

func (n *unsupportedNotifier) Send(msg Notification) error {
	log.Debug().Str("os", runtime.GOOS).Str("title", msg.Title).Msg("desktop notifications unsupported, dropping")
	return nil
}

func (n *unsupportedNotifier) Name() string { return "unsupported" }
