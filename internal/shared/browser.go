package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// launchers maps GOOS values to the command that hands a URL to the
// platform's default browser.
var launchers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

var osName = func() string { return runtime.GOOS }

// OpenBrowser hands url to the platform's default browser without waiting
// for the launcher process to exit.
func OpenBrowser(url string) error {
	name := osName()
	launcher, ok := launchers[name]
	if !ok {
		return fmt.Errorf("no browser launcher for platform %q", name)
	}

	args := append(append([]string(nil), launcher...), url)
	if err := exec.Command(args[0], args[1:]...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
