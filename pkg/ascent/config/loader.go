package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Decode parses data as YAML or JSON according to format ("yaml", "yml"
// or "json") into Values.
func Decode(data []byte, format string) (Values, error) {
	var m map[string]any
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return Values{}, fmt.Errorf("parse yaml: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &m); err != nil {
			return Values{}, fmt.Errorf("parse json: %w", err)
		}
	default:
		return Values{}, fmt.Errorf("unsupported format: %q", format)
	}
	return NewValues(m), nil
}

// ReadFile reads path and decodes it, detecting the format by extension.
// Supported extensions: .yaml, .yml, .json
func ReadFile(path string) (Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Values{}, fmt.Errorf("read config file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".json":
		return Decode(data, ext)
	default:
		return Values{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromFile loads settings from a YAML or JSON file.
func FromFile(path string) (Settings, error) {
	v, err := ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(v)
}

// FromYAML parses YAML settings.
func FromYAML(data []byte) (Settings, error) {
	v, err := Decode(data, "yaml")
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(v)
}

// FromJSON parses JSON settings.
func FromJSON(data []byte) (Settings, error) {
	v, err := Decode(data, "json")
	if err != nil {
		return Settings{}, err
	}
	return SettingsFrom(v)
}

// LoadVariables loads query and general variables from a YAML or JSON file.
func LoadVariables(path string) (Variables, error) {
	v, err := ReadFile(path)
	if err != nil {
		return Variables{}, err
	}
	return VariablesFrom(v)
}
