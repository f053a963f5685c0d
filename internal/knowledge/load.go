package knowledge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a fact sheet from a YAML file shaped like Base.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var base Base
	if err := yaml.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}

	if base.Name == "" {
		return nil, fmt.Errorf("knowledge file %s: name is required", path)
	}
	if len(base.Entries) == 0 {
		return nil, fmt.Errorf("knowledge file %s: at least one entry is required", path)
	}
	for i, e := range base.Entries {
		if e.Topic == "" || e.Answer == "" || len(e.Keywords) == 0 {
			return nil, fmt.Errorf("knowledge file %s: entry %d needs topic, keywords and answer", path, i)
		}
	}
	if len(base.ReservationKeywords) == 0 {
		base.ReservationKeywords = defaultReservationKeywords()
	}
	return &base, nil
}
