package routing

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model describes one entry of the model selector.
type Model struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// DefaultCatalog is used when no catalog file is configured.
var DefaultCatalog = []Model{
	{Name: "gpt-4"},
	{Name: "gpt-3.5-turbo"},
}

type catalogFile struct {
	Models []Model `yaml:"models"`
}

// LoadCatalog reads a YAML model list of the form
//
//	models:
//	  - name: gpt-4
//	    description: most capable
//
// An empty path yields DefaultCatalog.
func LoadCatalog(path string) ([]Model, error) {
	if strings.TrimSpace(path) == "" {
		return append([]Model(nil), DefaultCatalog...), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) ([]Model, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	if len(f.Models) == 0 {
		return nil, errors.New("model catalog is empty")
	}
	seen := make(map[string]bool, len(f.Models))
	for i, m := range f.Models {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, fmt.Errorf("model catalog entry %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate model %q in catalog", name)
		}
		seen[name] = true
		f.Models[i].Name = name
	}
	return f.Models, nil
}
