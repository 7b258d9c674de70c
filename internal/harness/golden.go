package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario and compares its canonical trace against
// a golden file in testdata/golden/{scenario.Name}.golden.
//
// Golden files are the source of truth for expected trace behavior; any
// change in step semantics, snapping, or scoring shows up as a byte diff.
// To regenerate after an intentional change:
//
//	go test ./internal/harness -update
//
// Returns an error if scenario execution itself fails; expectation and golden
// mismatches fail the test via t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	canonical, err := result.Snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, scenario.Name, canonical)
	return nil
}
