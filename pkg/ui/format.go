// Package ui renders command results for people and for machines.
//
// Output falls into one of three concrete formats: styled terminal
// output, plain text for pipes and logs, and JSON for scripting. The
// default is auto-detection from the output stream and environment.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results are rendered.
type Format int

const (
	// FormatAuto picks a format from the terminal's capabilities.
	FormatAuto Format = iota
	// FormatTerminal renders styled, colored output.
	FormatTerminal
	// FormatText renders plain text with no styling.
	FormatText
	// FormatJSON renders machine-readable JSON.
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat converts a --format flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, fmt.Errorf("unknown format: %s", s)
	}
}

// DetectFormat resolves FormatAuto against a real output stream:
// NO_COLOR, pipes and dumb terminals all degrade to plain text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerminal
}
