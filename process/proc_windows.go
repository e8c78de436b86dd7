//go:build windows

package process

import (
	"os"
	"os/exec"
	"strconv"
)

// DefaultShell ...
var DefaultShell = []string{"cmd", "/C"}

func prepareProcessTree(cmd *exec.Cmd) {}

// killProcessGroup relies on taskkill /T, Windows has no process groups to signal.
func killProcessGroup(pid int) error {
	return exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}

func signalName(state *os.ProcessState) string {
	return ""
}
