package cliconf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a YAML experiment configuration into a flat
// map suitable for Resolved.Update's layer argument. Keys are flag
// names; values are validated against the schema at layering time.
//
// Example:
//
//	name: lulesh-strong
//	executable: /usr/bin/lulesh
//	runcmds: "0, 8, 'srun -n %n', 'nidx + 1'"
func LoadConfigFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cliconf: reading config file: %w", err)
	}
	layer := make(map[string]any)
	if err := yaml.Unmarshal(raw, &layer); err != nil {
		return nil, fmt.Errorf("cliconf: parsing config file %s: %w", path, err)
	}
	return layer, nil
}
