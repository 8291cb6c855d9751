package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

// Supported output formats. Text output is rendered by the console reporter.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHTML Format = "html"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want text, json, yaml or html)", s)
	}
}

// MarshalJSON encodes rep as indented JSON and checks it against the report
// schema.
func MarshalJSON(rep *Report) ([]byte, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	if err := ValidateJSON(data); err != nil {
		return nil, fmt.Errorf("report does not match schema: %w", err)
	}
	return data, nil
}

// Encode writes rep to w in the given structured format.
func Encode(w io.Writer, rep *Report, format Format, opts HTMLOptions) error {
	switch format {
	case FormatJSON:
		data, err := MarshalJSON(rep)
		if err != nil {
			return err
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	case FormatHTML:
		return WriteHTML(w, rep, opts)
	default:
		return fmt.Errorf("format %q is not a structured format", format)
	}
}
