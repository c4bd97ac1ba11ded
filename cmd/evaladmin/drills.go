package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/saeid-a/EvalAdminBack/internal/repository"
	"gopkg.in/yaml.v3"
)

// drillCatalog is the on-disk format read by seed-drills.
type drillCatalog struct {
	Drills []drillEntry `yaml:"drills"`
}

type drillEntry struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Category     string `yaml:"category"`
	Instructions string `yaml:"instructions"`
	Active       *bool  `yaml:"active"`
}

func parseDrillCatalog(r io.Reader) ([]repository.DrillInput, error) {
	var catalog drillCatalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&catalog); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("drill catalog is empty")
		}
		return nil, fmt.Errorf("decode drill catalog: %w", err)
	}

	seen := make(map[string]int, len(catalog.Drills))
	inputs := make([]repository.DrillInput, 0, len(catalog.Drills))
	for i, entry := range catalog.Drills {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("drill %d: name is required", i+1)
		}
		key := strings.ToLower(name)
		if first, ok := seen[key]; ok {
			return nil, fmt.Errorf("drill %d: %q duplicates drill %d", i+1, name, first)
		}
		seen[key] = i + 1

		active := true
		if entry.Active != nil {
			active = *entry.Active
		}
		inputs = append(inputs, repository.DrillInput{
			Name:         name,
			Description:  optionalText(entry.Description),
			Category:     optionalText(entry.Category),
			Instructions: optionalText(entry.Instructions),
			IsActive:     active,
		})
	}
	return inputs, nil
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
