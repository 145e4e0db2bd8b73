// Package platform holds the small host-OS integrations marquill needs:
// launching the default browser for the account connect flow and managing
// temp files for downloaded images.
package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser launches the system default browser at url. The connect flow
// finishes out of band; the caller refreshes its session afterwards.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	// Release the child so a lingering browser process never blocks exit.
	go func() { _ = cmd.Wait() }()
	return nil
}
