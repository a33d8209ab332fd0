package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a manifest document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// fetchTimeout bounds a manifest download.
const fetchTimeout = 30 * time.Second

// maxManifestSize caps how much of a remote manifest is read.
const maxManifestSize = 8 << 20

// document mirrors the on-disk layout before validation.
type document struct {
	PackageManager []rawManager `json:"package_manager" yaml:"package_manager"`
	Custom         []rawCustom  `json:"custom" yaml:"custom"`
}

type rawManager struct {
	Type     *string      `json:"type" yaml:"type"`
	Sudo     bool         `json:"sudo" yaml:"sudo"`
	Packages []rawPackage `json:"packages" yaml:"packages"`
}

type rawPackage struct {
	Flags   []string `json:"flags" yaml:"flags"`
	Package *string  `json:"package" yaml:"package"`
}

type rawCustom struct {
	Local *LocalStep `json:"local" yaml:"local"`
	Web   *WebStep   `json:"web" yaml:"web"`
}

// Load reads a manifest from source. The source is tried as an http(s) URL
// first and as a local file path when that fails.
func Load(ctx context.Context, source string) (*Manifest, error) {
	data, err := read(ctx, source)
	if err != nil {
		return nil, err
	}
	return Parse(data, DetectFormat(source))
}

// DetectFormat picks the decoder from the source's extension. Anything that is
// not .yaml or .yml is treated as JSON.
func DetectFormat(source string) Format {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// read returns the raw manifest bytes from a URL or a file.
func read(ctx context.Context, source string) ([]byte, error) {
	var fetchErr error
	if isURL(source) {
		data, err := fetch(ctx, source)
		if err == nil {
			return data, nil
		}
		fetchErr = err
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if fetchErr != nil {
			return nil, fmt.Errorf("%w: %s: %v; %v", ErrManifestUnreachable, source, fetchErr, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrManifestUnreachable, err)
	}
	return data, nil
}

func isURL(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: HTTP status %d", rawURL, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}

// Parse decodes and validates a whole manifest document. Nothing is returned
// unless every entry is valid.
func Parse(data []byte, format Format) (*Manifest, error) {
	data = NormalizeNewlines(data)

	var doc document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %v", ErrManifestMalformed, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: empty document", ErrManifestMalformed)
			}
			return nil, fmt.Errorf("%w: %v", ErrManifestMalformed, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: trailing data after document", ErrManifestMalformed)
		}
	}

	return doc.validate()
}

func (d *document) validate() (*Manifest, error) {
	m := &Manifest{}

	for i, rm := range d.PackageManager {
		if rm.Type == nil || strings.TrimSpace(*rm.Type) == "" {
			return nil, fmt.Errorf("%w: package_manager[%d]: missing \"type\"", ErrManifestMalformed, i)
		}
		pm := PackageManager{Kind: *rm.Type, Sudo: rm.Sudo}
		for j, rp := range rm.Packages {
			if rp.Package == nil || strings.TrimSpace(*rp.Package) == "" {
				return nil, fmt.Errorf("%w: package_manager[%d].packages[%d]: missing \"package\"", ErrManifestMalformed, i, j)
			}
			pm.Packages = append(pm.Packages, Package{
				Flags: append([]string(nil), rp.Flags...),
				App:   *rp.Package,
			})
		}
		m.PackageManagers = append(m.PackageManagers, pm)
	}

	for i, rc := range d.Custom {
		step, err := rc.toStep()
		if err != nil {
			return nil, fmt.Errorf("%w: custom[%d]: %v", ErrManifestMalformed, i, err)
		}
		m.Custom = append(m.Custom, step)
	}

	return m, nil
}

func (c rawCustom) toStep() (CustomStep, error) {
	switch {
	case c.Local == nil && c.Web == nil:
		return CustomStep{}, errors.New("neither \"local\" nor \"web\" is set")
	case c.Local != nil && c.Web != nil:
		return CustomStep{}, errors.New("both \"local\" and \"web\" are set")
	case c.Local != nil:
		if c.Local.Name == "" {
			return CustomStep{}, errors.New("local: missing \"name\"")
		}
		if c.Local.Path == "" {
			return CustomStep{}, errors.New("local: missing \"path\"")
		}
		return NewLocal(*c.Local), nil
	default:
		if c.Web.URL == "" {
			return CustomStep{}, errors.New("web: missing \"url\"")
		}
		if c.Web.Name == "" {
			return CustomStep{}, errors.New("web: missing \"name\"")
		}
		if strings.ContainsRune(c.Web.Name, '/') {
			return CustomStep{}, fmt.Errorf("web: name %q must be a plain file name", c.Web.Name)
		}
		if !isURL(c.Web.URL) {
			return CustomStep{}, fmt.Errorf("web: %q is not an http(s) URL", c.Web.URL)
		}
		return NewWeb(*c.Web), nil
	}
}
