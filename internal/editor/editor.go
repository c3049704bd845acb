// Package editor hands a record file over to the user's text editor.
package editor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// fallback is used when neither configuration nor environment names an editor.
const fallback = "vi"

// Resolve picks the editor command: the configured command if non-empty,
// else $VISUAL, else $EDITOR, else vi.
func Resolve(configured string) string {
	if configured != "" {
		return configured
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return fallback
}

// Launch runs the editor command on path with the terminal attached and
// blocks until the editor exits. The command may carry arguments
// ("code --wait"); the record path is appended last.
func Launch(ctx context.Context, command, path string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("editor: empty command")
	}
	args := append(fields[1:], path)

	cmd := exec.CommandContext(ctx, fields[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor: %s: %w", fields[0], err)
	}
	return nil
}
