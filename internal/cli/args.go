package cli

import (
	"fmt"
	"strings"
)

// RunConfig is the run configuration built from the command line.
type RunConfig struct {
	// Targets restricts package-manager steps to these kinds.
	Targets []string
	// Order forces group and custom step order by key.
	Order []string
	Help  bool

	DryRun      bool
	Yes         bool
	Interactive bool
	Verbose     bool
	NoColor     bool
	ConfigPath  string
}

// ParseArgs resolves raw command-line arguments into a RunConfig and the
// manifest source. Unknown flags and surplus arguments are returned as
// warnings instead of errors.
//
// Flag values are given as key=value, with lists separated by commas:
//
//	--target=pacman,yay --order=custom,package_manager manifest.json
func ParseArgs(args []string) (RunConfig, string, []string, error) {
	var cfg RunConfig

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			cfg.Help = true
			return cfg, "", nil, nil
		}
	}

	var (
		source   string
		warnings []string
	)

	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			if source == "" {
				source = arg
			} else {
				warnings = append(warnings, fmt.Sprintf("extra argument ignored: %s", arg))
			}
			continue
		}

		key, raw, hasValue := strings.Cut(arg, "=")

		switch key {
		case "--target", "-t", "--order":
			values := splitList(raw)
			if len(values) == 0 {
				return cfg, "", warnings, fmt.Errorf("%w: %s", ErrMissingFlagValue, key)
			}
			if key == "--order" {
				cfg.Order = values
			} else {
				cfg.Targets = values
			}
		case "--config":
			path := strings.TrimSpace(raw)
			if path == "" {
				return cfg, "", warnings, fmt.Errorf("%w: %s", ErrMissingFlagValue, key)
			}
			cfg.ConfigPath = path
		case "--dry-run", "-n", "--yes", "-y", "--interactive", "-i", "--verbose", "-v", "--no-color":
			if hasValue {
				warnings = append(warnings, fmt.Sprintf("%s takes no value, ignoring %q", key, raw))
			}
			setBool(&cfg, key)
		default:
			warnings = append(warnings, fmt.Sprintf("%v: %s", ErrUnknownFlag, arg))
		}
	}

	if source == "" {
		return cfg, "", warnings, ErrMissingManifestSource
	}

	return cfg, source, warnings, nil
}

func setBool(cfg *RunConfig, key string) {
	switch key {
	case "--dry-run", "-n":
		cfg.DryRun = true
	case "--yes", "-y":
		cfg.Yes = true
	case "--interactive", "-i":
		cfg.Interactive = true
	case "--verbose", "-v":
		cfg.Verbose = true
	case "--no-color":
		cfg.NoColor = true
	}
}

// splitList splits a comma-separated value list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
