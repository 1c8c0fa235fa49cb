package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/schedule"
)

// LoadPolicy reads the dispatch policy from a YAML file.
// An empty path returns schedule.DefaultPolicy. Keys missing from the file
// keep their default values.
//
//	conflict_window_minutes: 60
//	max_occurrences: 52
//	month_overflow: clamp   # or rollover
func LoadPolicy(path string) (schedule.Policy, error) {
	p := schedule.DefaultPolicy()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return schedule.Policy{}, fmt.Errorf("config.LoadPolicy: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return schedule.Policy{}, fmt.Errorf("config.LoadPolicy: parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return schedule.Policy{}, fmt.Errorf("config.LoadPolicy: %w", err)
	}
	return p, nil
}
