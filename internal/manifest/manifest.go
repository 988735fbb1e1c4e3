// Package manifest loads and validates plugin.yaml, the descriptor the host
// reads before loading a plugin library.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/errors"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// DefaultFile is the manifest file name looked up next to the plugin sources.
const DefaultFile = "plugin.yaml"

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Manifest describes a plugin package.
type Manifest struct {
	ID          string      `json:"id" yaml:"id" validate:"required,plugin_id"`
	Name        string      `json:"name" yaml:"name" validate:"required"`
	Version     string      `json:"version" yaml:"version" validate:"required,semver"`
	Description string      `json:"description" yaml:"description,omitempty"`
	Author      string      `json:"author" yaml:"author,omitempty"`
	APIVersion  string      `json:"api_version" yaml:"api_version" validate:"required"`
	Library     string      `json:"library" yaml:"library" validate:"required"`
	EntryPoints EntryPoints `json:"entry_points" yaml:"entry_points"`
	Commands    []string    `json:"commands" yaml:"commands,omitempty" validate:"unique,dive,identifier"`
	Frontend    string      `json:"frontend" yaml:"frontend,omitempty"`
}

// EntryPoints names the exported construction and destruction symbols.
type EntryPoints struct {
	Create  string `json:"create" yaml:"create" validate:"required,identifier"`
	Destroy string `json:"destroy" yaml:"destroy" validate:"required,identifier,nefield=Create"`
}

// Load reads, defaults and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewParseError(path, 0, err)
	}

	m, err := Parse(data)
	if err != nil {
		var parseErr *apperrors.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes manifest bytes, applies defaults and validates the result.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.NewParseError(DefaultFile, extractLine(err), err)
	}

	m.applyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) applyDefaults() {
	if m.APIVersion == "" {
		m.APIVersion = sdk.APIVersion
	}
	if m.EntryPoints.Create == "" {
		m.EntryPoints.Create = sdk.CreateSymbol
	}
	if m.EntryPoints.Destroy == "" {
		m.EntryPoints.Destroy = sdk.DestroySymbol
	}
}

// Validate checks field formats and that the declared API generation matches
// the sdk this binary was built against.
func (m *Manifest) Validate() error {
	if m == nil {
		return apperrors.NewValidationError("", "manifest is nil", nil)
	}
	if err := sdk.Validator().Struct(m); err != nil {
		return sdk.ConvertValidationError(err)
	}
	if major(m.APIVersion) != major(sdk.APIVersion) {
		return apperrors.NewValidationError("api_version", fmt.Sprintf("plugin targets API %s but this sdk implements %s", m.APIVersion, sdk.APIVersion), nil)
	}
	return nil
}

// Info projects the manifest onto the identity a plugin reports.
func (m *Manifest) Info() sdk.PluginInfo {
	return sdk.PluginInfo{ID: m.ID, Name: m.Name, Version: m.Version, Description: m.Description}
}

// CheckInfo reports every identity field where the plugin disagrees with
// the manifest. Descriptions are not compared.
func (m *Manifest) CheckInfo(info sdk.PluginInfo) []string {
	var mismatches []string
	if m.ID != info.ID {
		mismatches = append(mismatches, fmt.Sprintf("id: manifest %q, plugin %q", m.ID, info.ID))
	}
	if m.Name != info.Name {
		mismatches = append(mismatches, fmt.Sprintf("name: manifest %q, plugin %q", m.Name, info.Name))
	}
	if m.Version != info.Version {
		mismatches = append(mismatches, fmt.Sprintf("version: manifest %q, plugin %q", m.Version, info.Version))
	}
	return mismatches
}

// Declares reports whether command is listed in the manifest.
func (m *Manifest) Declares(command string) bool {
	for _, c := range m.Commands {
		if c == command {
			return true
		}
	}
	return false
}

func major(version string) string {
	head, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	return head
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	_, scanErr := fmt.Sscanf(matches[1], "%d", &line)
	if scanErr != nil {
		return 0
	}

	return line
}
