package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

// Provider serves the static sale-readiness taxonomy. The built-in catalog
// ships with the binary; a YAML file can replace it per deployment.
type Provider struct {
	catalog *domain.Catalog
}

func NewProvider() *Provider {
	return &Provider{catalog: domain.NewCatalog(builtinPhases())}
}

// NewProviderFromFile loads a phase catalog from a YAML file.
func NewProviderFromFile(path string) (*Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var doc struct {
		Phases []domain.Phase `yaml:"phases"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(doc.Phases) == 0 {
		return nil, fmt.Errorf("catalog file %s defines no phases", path)
	}
	for _, phase := range doc.Phases {
		if len(phase.Items) == 0 {
			return nil, fmt.Errorf("catalog phase %d (%s) has no items", phase.ID, phase.Title)
		}
		for _, item := range phase.Items {
			if item.ID == "" || item.Text == "" {
				return nil, fmt.Errorf("catalog phase %d has an item missing id or text", phase.ID)
			}
		}
	}
	return &Provider{catalog: domain.NewCatalog(doc.Phases)}, nil
}

func (p *Provider) Catalog() *domain.Catalog {
	return p.catalog
}
