package notify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestHookRunner_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}

	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "output.json")

	// Create a script that reads stdin and writes to a file
	scriptPath := filepath.Join(tmpDir, "hook.sh")
	script := "#!/bin/sh\ncat > " + outputFile + "\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}

	runner := NewHookRunner(scriptPath)
	if err := runner.Send(Notification{Title: "Browser updates available", Message: "Firefox 68.0"}); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	// Verify the payload was received
	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var received HookPayload
	if err := json.Unmarshal(data, &received); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}

	if received.Event != "update_available" {
		t.Errorf("Event = %q, want %q", received.Event, "update_available")
	}
	if received.Title != "Browser updates available" {
		t.Errorf("Title = %q, want %q", received.Title, "Browser updates available")
	}
	if received.Message != "Firefox 68.0" {
		t.Errorf("Message = %q, want %q", received.Message, "Firefox 68.0")
	}
	if _, err := time.Parse(time.RFC3339, received.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", received.Timestamp, err)
	}
}

func TestHookRunner_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}
	if testing.Short() {
		t.Skip("skipping timeout test in short mode")
	}

	tmpDir := t.TempDir()
	scriptPath := filepath.Join(tmpDir, "slow.sh")
	script := "#!/bin/sh\nsleep 60\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}

	runner := NewHookRunner(scriptPath)
	runner.Timeout = 500 * time.Millisecond

	err := runner.Execute(HookPayload{Event: "update_available"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !contains(err.Error(), "timed out") && !contains(err.Error(), "killed") {
		t.Errorf("expected timeout-related error, got: %v", err)
	}
}

func TestHookRunner_NonExistent(t *testing.T) {
	runner := NewHookRunner("/nonexistent/path/hook.sh")
	err := runner.Execute(HookPayload{Event: "update_available"})
	if err == nil {
		t.Fatal("expected error for non-existent script, got nil")
	}
}

func TestHookRunner_ExitError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}

	tmpDir := t.TempDir()
	scriptPath := filepath.Join(tmpDir, "fail.sh")
	script := "#!/bin/sh\nexit 1\n"
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}

	runner := NewHookRunner(scriptPath)
	err := runner.Execute(HookPayload{Event: "update_available"})
	if err == nil {
		t.Fatal("expected error for exit code 1, got nil")
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
