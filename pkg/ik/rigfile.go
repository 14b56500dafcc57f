package ik

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RigConfig is a rig description file: the solver components to run and
// the settings to run them with. Solvers are built and registered in file
// order, which is also their solve order.
type RigConfig struct {
	Settings Settings       `yaml:"settings"`
	Solvers  []SolverConfig `yaml:"solvers"`
}

// SolverConfig is one solver entry in a rig description. Type picks the
// solver; the remaining keys are the configuration fields of that type.
type SolverConfig struct {
	Type string

	node yaml.Node
}

// UnmarshalYAML keeps the raw mapping so Build can decode it into the
// right solver type, on top of that type's defaults.
func (c *SolverConfig) UnmarshalYAML(value *yaml.Node) error {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return err
	}
	if head.Type == "" {
		return fmt.Errorf("solver entry missing type")
	}
	c.Type = head.Type
	c.node = *value
	return nil
}

// Build constructs the solver component this entry describes.
func (c *SolverConfig) Build() (Component, error) {
	var component Component
	switch c.Type {
	case "identity":
		component = NewIdentitySolver("", "")
	case "trigonometry":
		component = NewTrigonometrySolver("", "", "", "")
	case "chain":
		component = NewChainSolver(nil, "")
	case "spine":
		component = NewSpineSolver(nil, "")
	case "leg":
		component = NewLegSolver("", "", "", "", "")
	case "arm":
		component = NewArmSolver("", "", "", "", "")
	default:
		return nil, fmt.Errorf("unknown solver type %q", c.Type)
	}
	if err := c.node.Decode(component); err != nil {
		return nil, fmt.Errorf("decoding %s solver: %w", c.Type, err)
	}
	return component, nil
}

// LoadRigConfig reads a rig description from a YAML file.
func LoadRigConfig(path string) (*RigConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rig config from %s: %w", path, err)
	}
	cfg, err := ParseRigConfig(data)
	if err != nil {
		return nil, fmt.Errorf("loading rig config from %s: %w", path, err)
	}
	return cfg, nil
}

// ParseRigConfig parses a YAML rig description. Settings keys left out
// keep their defaults.
func ParseRigConfig(data []byte) (*RigConfig, error) {
	cfg := &RigConfig{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Build constructs the described components in file order.
func (c *RigConfig) Build() ([]Component, error) {
	components := make([]Component, 0, len(c.Solvers))
	for i := range c.Solvers {
		component, err := c.Solvers[i].Build()
		if err != nil {
			return nil, fmt.Errorf("solver %d: %w", i, err)
		}
		components = append(components, component)
	}
	return components, nil
}
