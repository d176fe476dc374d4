//go:build windows

package commands

import (
	"context"
	"os"
	"os/signal"
)

// signalContext returns a context cancelled on interrupt.
// On Windows, only os.Interrupt is available (SIGTERM is not supported).
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt)
}
