package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const templateHeader = `# cadbom configuration
#
# headers lists the part fields shown as extra BOM columns.
# format is one of text, tsv, csv or both.
# catalog points at a YAML price list applied after the assembly is built:
#
#   parts:
#     - name: M3 Nut
#       cost: "0.05"
#       currency: R$
#       fields:
#         link: http://example.io/M3-nut
`

// DefaultConfigTemplate returns the default config as commented YAML.
func DefaultConfigTemplate() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.WriteString("\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(Defaults()); err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return buf.String(), nil
}

// WriteDefaultConfig creates a config file at the given path with default settings.
// Creates the parent directory if it doesn't exist. An existing file is left alone.
func WriteDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s already exists", configPath)
	}

	tmpl, err := DefaultConfigTemplate()
	if err != nil {
		return err
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(tmpl), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
