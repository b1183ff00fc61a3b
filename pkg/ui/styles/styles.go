// Package styles holds the lipgloss styles behind oxidizr's terminal
// output. The palette lives in styles.yaml, compiled into the binary,
// so themes stay editable without touching rendering code.
package styles

import (
	_ "embed"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

//go:embed styles.yaml
var embedded []byte

// colorDef is an adaptive light/dark color pair.
type colorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// styleDef is one named style in styles.yaml.
type styleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Underline  bool   `yaml:"underline,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Background string `yaml:"background,omitempty"`
	MarginTop  int    `yaml:"marginTop,omitempty"`
	MarginLeft int    `yaml:"marginLeft,omitempty"`
}

type sheet struct {
	Colors map[string]colorDef `yaml:"colors"`
	Styles map[string]styleDef `yaml:"styles"`
}

var registry map[string]lipgloss.Style

func init() {
	if err := load(embedded); err != nil {
		// A broken sheet must not take the binary down; unstyled output
		// still carries all the information.
		registry = make(map[string]lipgloss.Style)
	}
}

// load parses a style sheet and rebuilds the registry.
func load(data []byte) error {
	var s sheet
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing style sheet: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(s.Colors))
	for name, def := range s.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	registry = make(map[string]lipgloss.Style, len(s.Styles))
	for name, def := range s.Styles {
		registry[name] = build(def, colors)
	}
	return nil
}

func build(def styleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()

	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if def.Underline {
		style = style.Underline(true)
	}
	if color, ok := colors[def.Foreground]; ok {
		style = style.Foreground(color)
	}
	if color, ok := colors[def.Background]; ok {
		style = style.Background(color)
	}
	if def.MarginTop > 0 {
		style = style.MarginTop(def.MarginTop)
	}
	if def.MarginLeft > 0 {
		style = style.MarginLeft(def.MarginLeft)
	}
	return style
}

// Get returns the named style, or an unstyled fallback for names the
// sheet does not define.
func Get(name string) lipgloss.Style {
	if style, ok := registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Names lists the defined style names, for tests and tooling.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
