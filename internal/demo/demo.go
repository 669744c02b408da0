package demo

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"npv-risk-web/internal/models"
)

//go:embed demo.yaml
var defaultScenario []byte

// Load reads the demo scenario from path, or the embedded one when path is empty.
// The scenario must pass request validation.
func Load(path string) (*models.SimulationRequest, error) {
	data := defaultScenario
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read demo scenario: %w", err)
		}
	}

	var scenario models.SimulationRequest
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse demo scenario: %w", err)
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid demo scenario: %w", err)
	}

	return &scenario, nil
}
