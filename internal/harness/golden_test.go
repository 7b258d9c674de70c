package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGoldenTraces compares the canonical trace of each golden-backed
// scenario against its fixture byte for byte.
func TestGoldenTraces(t *testing.T) {
	for _, name := range []string{
		"first-crawl-three-stars",
		"around-the-rock-crash",
		"repeat-unroll-long-climb",
	} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}
