package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// HookPayload is the JSON structure passed to hook scripts via stdin.
type HookPayload struct {
	Event     string `json:"event"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HookRunner executes a shell hook script with a JSON payload on stdin.
type HookRunner struct {
	ScriptPath string
	Timeout    time.Duration
}

// NewHookRunner creates a HookRunner for the given script path.
func NewHookRunner(scriptPath string) *HookRunner {
	return &HookRunner{ScriptPath: scriptPath, Timeout: 30 * time.Second}
}

// Send implements Notifier by running the hook with an update payload.
func (h *HookRunner) Send(n Notification) error {
	return h.Execute(HookPayload{
		Event:     "update_available",
		Title:     n.Title,
		Message:   n.Message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Name returns the name of this notifier.
func (h *HookRunner) Name() string { return "hook" }

// Execute runs the hook script with the configured timeout.
// The JSON-encoded payload is passed via stdin.
func (h *HookRunner) Execute(payload HookPayload) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.ScriptPath)
	cmd.WaitDelay = time.Second

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("hook marshal payload: %w", err)
	}
	cmd.Stdin = strings.NewReader(string(data))

	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook timed out after %s: %s", h.Timeout, h.ScriptPath)
	}
	if err != nil {
		return fmt.Errorf("hook execution failed: %w (output: %s)", err, string(output))
	}
	return nil
}
