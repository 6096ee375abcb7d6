package fertility

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSourceWeightsOverride reads a YAML file mapping source tags to
// weights and merges it over DefaultSourceWeights. An empty path is a
// no-op returning the defaults unchanged.
func LoadSourceWeightsOverride(path string) (SourceWeights, error) {
	defaults := DefaultSourceWeights()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fertility: reading source weights file %s: %w", path, err)
	}

	var overrides map[string]float64
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("fertility: parsing source weights file %s: %w", path, err)
	}

	out := make(SourceWeights, len(overrides))
	for k, v := range overrides {
		out[Source(k)] = v
	}
	return defaults.Merge(out), nil
}
