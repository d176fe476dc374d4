package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONMode controls whether output is JSON or human-readable
var JSONMode bool

// Out receives JSON output.
var Out io.Writer = os.Stdout

// Result represents a generic result for JSON output
type Result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Print outputs data. In JSON mode, marshals to JSON. Otherwise calls the textFn.
func Print(data interface{}, textFn func()) {
	if JSONMode {
		writeJSON(Result{Success: true, Data: data})
		return
	}
	textFn()
}

// Fail reports err and returns it, so callers can `return output.Fail(err)`
// from a cobra RunE. In JSON mode the error is also written as a result.
func Fail(err error) error {
	if JSONMode {
		writeJSON(Result{Success: false, Error: err.Error()})
	}
	return err
}

func writeJSON(r Result) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(Out, string(out))
}
