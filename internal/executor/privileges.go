package executor

import (
	"errors"
	"os"
	"os/exec"
)

// ErrNoPrivileges is returned when a command asks for sudo but the process
// is not root and sudo is not installed.
var ErrNoPrivileges = errors.New("root privileges required, but not running as root and sudo is not available")

// IsRoot reports whether the process runs with effective UID 0. Sudo is
// skipped for root.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// HasSudo reports whether sudo is on PATH.
func HasSudo() bool {
	_, err := exec.LookPath("sudo")
	return err == nil
}

// CheckPrivileges returns ErrNoPrivileges if needsSudo is set and the
// process can neither run as root nor elevate with sudo.
func CheckPrivileges(needsSudo bool) error {
	if !needsSudo || IsRoot() || HasSudo() {
		return nil
	}
	return ErrNoPrivileges
}
