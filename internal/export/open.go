package export

import (
	"context"
	"os/exec"
	"runtime"
)

// OpenInViewer asks the platform to display the artifact. Failures are
// returned but callers treat them as advisory; the review session works
// without a viewer.
func OpenInViewer(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "cmd", "/c", "start", "", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}
	return cmd.Start()
}
