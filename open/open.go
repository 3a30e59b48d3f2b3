// Package open hands files, directories and locators to the system default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Start opens target with the default handler without waiting for it.
func Start(target string) error {
	cmd, err := Command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the handler invocation for target on goos.
func Command(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), nil
	case "darwin":
		return exec.Command("open", target), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", target), nil
	case "android":
		return exec.Command("termux-open", target), nil
	default:
		return nil, fmt.Errorf("opening files is not supported on %s", goos)
	}
}
