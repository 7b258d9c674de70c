package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/loopy/internal/snap"
)

// Scenario defines a conformance test: a level, recorded editor gestures, and
// the expected outcome of running the resulting program.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Level is the catalog id to play.
	Level int `yaml:"level"`

	// Gestures are replayed through the snapping engine in order.
	Gestures []snap.Gesture `yaml:"gestures"`

	// Run requests a run after the gestures. When false the scenario only
	// checks the edited program (status stays idle).
	Run bool `yaml:"run"`

	// Expect validates the outcome. Nil means the scenario only has to
	// execute without a setup error.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists outcome checks. Pointer fields distinguish "unset" from a
// meaningful zero (position 0, zero stars).
type Expect struct {
	Status    string `yaml:"status,omitempty"`
	X         *int   `yaml:"x,omitempty"`
	Y         *int   `yaml:"y,omitempty"`
	Heading   *int   `yaml:"heading,omitempty"`
	UsedCount *int   `yaml:"used_count,omitempty"`
	Stars     *int   `yaml:"stars,omitempty"`

	// Unlocks asserts that, after recording the result against a fresh
	// progress store, the given level id is unlocked.
	Unlocks *int `yaml:"unlocks,omitempty"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return &s, nil
}

// Validate checks required fields.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Level < 1 {
		return fmt.Errorf("level must be a positive catalog id")
	}
	return nil
}
