package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleJSON = `{
  "package_manager": [
    {"type": "pacman", "sudo": true, "packages": [
      {"flags": ["-S", "--needed", "--noconfirm"], "package": "git"},
      {"flags": ["-S"], "package": "neovim"}
    ]},
    {"type": "yay", "sudo": false, "packages": [
      {"flags": ["-S"], "package": "spotify"}
    ]}
  ],
  "custom": [
    {"web": {"prioritize": true, "url": "https://example.com/yay.sh", "name": "yay.sh", "message": "Building yay"}},
    {"local": {"prioritize": false, "name": "dotfiles.sh", "message": "Linking dotfiles", "path": "/opt/setup"}}
  ]
}`

func TestParseJSON(t *testing.T) {
	m, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(m.PackageManagers) != 2 {
		t.Fatalf("expected 2 package managers, got %d", len(m.PackageManagers))
	}

	pacman := m.PackageManagers[0]
	if pacman.Kind != "pacman" || !pacman.Sudo {
		t.Errorf("unexpected first manager: %+v", pacman)
	}
	if len(pacman.Packages) != 2 || pacman.Packages[1].App != "neovim" {
		t.Errorf("unexpected pacman packages: %+v", pacman.Packages)
	}
	if got := pacman.Packages[0].Flags; !reflect.DeepEqual(got, []string{"-S", "--needed", "--noconfirm"}) {
		t.Errorf("unexpected flags: %v", got)
	}

	if len(m.Custom) != 2 {
		t.Fatalf("expected 2 custom steps, got %d", len(m.Custom))
	}

	web, ok := m.Custom[0].Web()
	if !ok {
		t.Fatal("custom[0] should be a web step")
	}
	if web.URL != "https://example.com/yay.sh" || !m.Custom[0].Prioritized() {
		t.Errorf("unexpected web step: %+v", web)
	}

	local, ok := m.Custom[1].Local()
	if !ok {
		t.Fatal("custom[1] should be a local step")
	}
	if local.Path != "/opt/setup" || m.Custom[1].Name() != "dotfiles.sh" {
		t.Errorf("unexpected local step: %+v", local)
	}
	if m.Custom[1].Message() != "Linking dotfiles" {
		t.Errorf("Message() = %q", m.Custom[1].Message())
	}
}

func TestParseYAMLMatchesJSON(t *testing.T) {
	yamlDoc := `
package_manager:
  - type: pacman
    sudo: true
    packages:
      - flags: ["-S", "--needed", "--noconfirm"]
        package: git
      - flags: ["-S"]
        package: neovim
  - type: yay
    sudo: false
    packages:
      - flags: ["-S"]
        package: spotify
custom:
  - web:
      prioritize: true
      url: https://example.com/yay.sh
      name: yay.sh
      message: Building yay
  - local:
      prioritize: false
      name: dotfiles.sh
      message: Linking dotfiles
      path: /opt/setup
`
	fromYAML, err := Parse([]byte(yamlDoc), FormatYAML)
	if err != nil {
		t.Fatalf("Parse(yaml) error: %v", err)
	}
	fromJSON, err := Parse([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Parse(json) error: %v", err)
	}

	if !reflect.DeepEqual(fromYAML, fromJSON) {
		t.Errorf("YAML and JSON manifests differ:\n%+v\n%+v", fromYAML, fromJSON)
	}
}

func TestParseOptionalSections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty object", `{}`},
		{"null sections", `{"package_manager": null, "custom": null}`},
		{"empty sections", `{"package_manager": [], "custom": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.doc), FormatJSON)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if !m.IsEmpty() {
				t.Errorf("expected empty manifest, got %+v", m)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `package_manager: nope`},
		{"empty input", ``},
		{"custom with no variant", `{"custom": [{}]}`},
		{"custom with null variants", `{"custom": [{"local": null, "web": null}]}`},
		{"custom with both variants", `{"custom": [{"local": {"name": "a", "path": "/x"}, "web": {"url": "https://e.com/a", "name": "a"}}]}`},
		{"local without path", `{"custom": [{"local": {"name": "a"}}]}`},
		{"web without url", `{"custom": [{"web": {"name": "a"}}]}`},
		{"web with relative url", `{"custom": [{"web": {"url": "/a.sh", "name": "a.sh"}}]}`},
		{"web name with slash", `{"custom": [{"web": {"url": "https://e.com/a", "name": "../a"}}]}`},
		{"manager without type", `{"package_manager": [{"sudo": true, "packages": []}]}`},
		{"package without name", `{"package_manager": [{"type": "pacman", "packages": [{"flags": []}]}]}`},
		{"wrong type for sudo", `{"package_manager": [{"type": "pacman", "sudo": "yes"}]}`},
		{"unknown field", `{"package_manager": [], "extras": []}`},
		{"trailing data", `{} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.doc), FormatJSON)
			if !errors.Is(err, ErrManifestMalformed) {
				t.Fatalf("Parse() error = %v, want ErrManifestMalformed", err)
			}
			if m != nil {
				t.Errorf("Parse() should not return a partial manifest, got %+v", m)
			}
		})
	}
}

func TestParseNormalizesLineEndings(t *testing.T) {
	doc := "{\r\n  \"package_manager\": [\r\n    {\"type\": \"echo\", \"packages\": [{\"package\": \"hi\"}]}\r\n  ]\r\n}\r\n"
	m, err := Parse([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if m.PackageManagers[0].Packages[0].App != "hi" {
		t.Errorf("unexpected manifest: %+v", m)
	}
}

func TestNormalizeNewlines(t *testing.T) {
	got := string(NormalizeNewlines([]byte("a\r\nb\rc\n")))
	if got != "a\nb\nc\n" {
		t.Errorf("NormalizeNewlines() = %q", got)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		source string
		want   Format
	}{
		{"packages.json", FormatJSON},
		{"packages", FormatJSON},
		{"/etc/setup/packages.yaml", FormatYAML},
		{"setup.YML", FormatYAML},
		{"https://example.com/manifest.yml?ref=main", FormatYAML},
		{"https://example.com/manifest.json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			if got := DetectFormat(tt.source); got != tt.want {
				t.Errorf("DetectFormat(%q) = %s, want %s", tt.source, got, tt.want)
			}
		})
	}
}

func TestLoadFileAndURLAgree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.json")
	if err := os.WriteFile(path, []byte(sampleJSON), 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	ctx := context.Background()

	fromFile, err := Load(ctx, path)
	if err != nil {
		t.Fatalf("Load(file) error: %v", err)
	}
	fromURL, err := Load(ctx, srv.URL+"/packages.json")
	if err != nil {
		t.Fatalf("Load(url) error: %v", err)
	}

	if !reflect.DeepEqual(fromFile, fromURL) {
		t.Errorf("file and URL manifests differ:\n%+v\n%+v", fromFile, fromURL)
	}
}

func TestLoadUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	tests := []struct {
		name   string
		source string
	}{
		{"missing file", filepath.Join(t.TempDir(), "nope.json")},
		{"http 404", srv.URL + "/missing.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.source)
			if !errors.Is(err, ErrManifestUnreachable) {
				t.Errorf("Load() error = %v, want ErrManifestUnreachable", err)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.json")
	if err := os.WriteFile(path, []byte(`{"custom": [{}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), path)
	if !errors.Is(err, ErrManifestMalformed) {
		t.Errorf("Load() error = %v, want ErrManifestMalformed", err)
	}
}
