// Package manifest describes what a bootstrap run installs: package-manager
// invocations and custom install scripts.
package manifest

// Package is one installable unit handed to a package manager.
type Package struct {
	Flags []string `json:"flags" yaml:"flags"`
	App   string   `json:"package" yaml:"package"`
}

// PackageManager groups the packages installed with one package manager binary.
type PackageManager struct {
	// Kind is the executable to invoke (pacman, yay, ...). Whether it exists
	// on the host is only checked when the step runs.
	Kind     string    `json:"type" yaml:"type"`
	Sudo     bool      `json:"sudo" yaml:"sudo"`
	Packages []Package `json:"packages" yaml:"packages"`
}

// LocalStep is a script already on disk at Path/Name.
type LocalStep struct {
	Prioritize bool   `json:"prioritize" yaml:"prioritize"`
	Name       string `json:"name" yaml:"name"`
	Message    string `json:"message" yaml:"message"`
	Path       string `json:"path" yaml:"path"`
}

// WebStep is a script downloaded from URL when it runs.
type WebStep struct {
	Prioritize bool   `json:"prioritize" yaml:"prioritize"`
	URL        string `json:"url" yaml:"url"`
	Name       string `json:"name" yaml:"name"`
	Message    string `json:"message" yaml:"message"`
}

// CustomKind tells which payload of a CustomStep is populated.
type CustomKind string

const (
	CustomLocal CustomKind = "local"
	CustomWeb   CustomKind = "web"
)

// CustomStep is either a LocalStep or a WebStep, never both.
// Build one with NewLocal or NewWeb.
type CustomStep struct {
	kind  CustomKind
	local LocalStep
	web   WebStep
}

// NewLocal wraps a local script.
func NewLocal(s LocalStep) CustomStep {
	return CustomStep{kind: CustomLocal, local: s}
}

// NewWeb wraps a downloaded script.
func NewWeb(s WebStep) CustomStep {
	return CustomStep{kind: CustomWeb, web: s}
}

// Kind returns which variant is populated.
func (c CustomStep) Kind() CustomKind {
	return c.kind
}

// Local returns the local payload; ok is false for web steps.
func (c CustomStep) Local() (LocalStep, bool) {
	return c.local, c.kind == CustomLocal
}

// Web returns the web payload; ok is false for local steps.
func (c CustomStep) Web() (WebStep, bool) {
	return c.web, c.kind == CustomWeb
}

// Name returns the script file name.
func (c CustomStep) Name() string {
	if c.kind == CustomWeb {
		return c.web.Name
	}
	return c.local.Name
}

// Message returns the text shown before the script runs.
func (c CustomStep) Message() string {
	if c.kind == CustomWeb {
		return c.web.Message
	}
	return c.local.Message
}

// Prioritized reports whether the step runs before all package installs.
func (c CustomStep) Prioritized() bool {
	if c.kind == CustomWeb {
		return c.web.Prioritize
	}
	return c.local.Prioritize
}

// Manifest is the root of a loaded manifest. It is not modified after Load.
type Manifest struct {
	PackageManagers []PackageManager
	Custom          []CustomStep
}

// IsEmpty reports whether the manifest installs nothing.
func (m *Manifest) IsEmpty() bool {
	if m == nil {
		return true
	}
	for _, pm := range m.PackageManagers {
		if len(pm.Packages) > 0 {
			return false
		}
	}
	return len(m.Custom) == 0
}
