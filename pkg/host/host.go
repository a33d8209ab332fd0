// Package host reports which Linux distribution the installer runs on and
// which package-manager executables it can reach.
package host

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// osReleasePath is read by Detect; tests point it elsewhere.
var osReleasePath = "/etc/os-release"

// Info contains information parsed from /etc/os-release.
type Info struct {
	ID         string   // Distribution ID (e.g., "arch", "endeavouros")
	IDLike     []string // Related distributions
	VersionID  string   // Version number, empty on rolling releases
	PrettyName string   // Human-readable name
	Arch       string
}

// Detect reads the distribution from /etc/os-release, falling back to the
// distribution-specific release files.
func Detect() *Info {
	info := &Info{Arch: runtime.GOARCH}

	if f, err := os.Open(osReleasePath); err == nil {
		defer f.Close()
		if err := parseOSRelease(f, info); err == nil && info.ID != "" {
			return info
		}
	}

	if err := parseReleaseFiles(info); err == nil {
		return info
	}

	// Return unknown if nothing works
	info.ID = "unknown"
	info.PrettyName = "Unknown " + runtime.GOOS
	return info
}

// parseOSRelease parses the KEY=value lines of an os-release file.
func parseOSRelease(r io.Reader, info *Info) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")

		switch key {
		case "ID":
			info.ID = value
		case "ID_LIKE":
			info.IDLike = strings.Fields(value)
		case "VERSION_ID":
			info.VersionID = value
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}

	if info.PrettyName == "" && info.ID != "" {
		info.PrettyName = info.ID
	}

	return scanner.Err()
}

// parseReleaseFiles checks distribution-specific release files.
func parseReleaseFiles(info *Info) error {
	releaseFiles := []struct {
		path   string
		distro string
		pretty string
	}{
		{"/etc/arch-release", "arch", "Arch Linux"},
		{"/etc/debian_version", "debian", "Debian"},
		{"/etc/fedora-release", "fedora", "Fedora"},
		{"/etc/alpine-release", "alpine", "Alpine Linux"},
	}

	for _, rf := range releaseFiles {
		if _, err := os.Stat(rf.path); err == nil {
			info.ID = rf.distro
			info.PrettyName = rf.pretty
			return nil
		}
	}

	return os.ErrNotExist
}

// Available splits executables into those found on PATH and those missing,
// preserving input order.
func Available(executables []string) (found, missing []string) {
	for _, name := range executables {
		if _, err := exec.LookPath(name); err == nil {
			found = append(found, name)
		} else {
			missing = append(missing, name)
		}
	}
	return found, missing
}
