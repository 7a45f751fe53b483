// ABOUTME: Embedded prompt catalog with one system prompt per agent role
// ABOUTME: Loaded once from prompts.yaml
package agents

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

// Role names an agent
type Role string

const (
	RoleVision       Role = "vision"
	RoleUnderstand   Role = "understand"
	RoleSuggest      Role = "suggest"
	RoleRecipe       Role = "recipe"
	RoleMemoryUpdate Role = "memory_update"
)

// Prompt is one role's system prompt and sampling temperature
type Prompt struct {
	System      string  `yaml:"system"`
	Temperature float32 `yaml:"temperature"`
}

// Catalog holds every role prompt plus the repair instruction
type Catalog struct {
	Repair string          `yaml:"repair"`
	Roles  map[Role]Prompt `yaml:"roles"`
}

// Prompt returns the prompt for role
func (c *Catalog) Prompt(role Role) (Prompt, error) {
	p, ok := c.Roles[role]
	if !ok || p.System == "" {
		return Prompt{}, fmt.Errorf("no prompt for role %q", role)
	}
	return p, nil
}

// ParseCatalog decodes a prompt catalog
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing prompt catalog: %w", err)
	}
	if c.Repair == "" {
		return nil, fmt.Errorf("prompt catalog has no repair instruction")
	}
	return &c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// DefaultCatalog returns the embedded catalog
func DefaultCatalog() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(promptsYAML)
	})
	return defaultCatalog, defaultErr
}
