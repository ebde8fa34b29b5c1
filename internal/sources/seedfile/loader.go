package seedfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the bookmarks seed file
type Loader struct {
	filePath string
}

// NewLoader creates a new seed file loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads the file, expands ${VAR} references from the environment and parses it.
func (l *Loader) Load() (Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	return Parse(data)
}

// Parse decodes seed file content.
func Parse(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return cfg, nil
}
