package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Plan describes a billing plan offered on the pricing page.
// The catalog lives in plans.yaml so price changes don't need a rebuild;
// main watches the file and reloads on write.
type Plan struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	PriceMonthly  int    `yaml:"price_monthly" json:"price_monthly"` // USD cents
	DodoProductID string `yaml:"dodo_product_id" json:"-"`
	Description   string `yaml:"description" json:"description"`
}

// PlanCatalog is a reloadable set of billing plans
type PlanCatalog struct {
	mu    sync.RWMutex
	plans []Plan
}

// LoadPlans reads the plan catalog from a YAML file
func LoadPlans(filePath string) (*PlanCatalog, error) {
	c := &PlanCatalog{}
	if err := c.Reload(filePath); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the catalog file, replacing the current plan set
func (c *PlanCatalog) Reload(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read plans file: %w", err)
	}

	var parsed struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse plans YAML: %w", err)
	}

	c.mu.Lock()
	c.plans = parsed.Plans
	c.mu.Unlock()
	return nil
}

// All returns a copy of the current plan set
func (c *PlanCatalog) All() []Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// ByID returns the plan with the given id, or nil
func (c *PlanCatalog) ByID(id string) *Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.plans {
		if c.plans[i].ID == id {
			p := c.plans[i]
			return &p
		}
	}
	return nil
}
