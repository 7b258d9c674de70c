package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/loopy/internal/level"
	"github.com/roach88/loopy/internal/program"
	"github.com/roach88/loopy/internal/snap"
)

// ProgramFile is the on-disk form of a block program: a level id plus the
// recorded editor gestures that built it. Replaying the gestures through the
// snapping engine reproduces the exact program graph the editor held.
type ProgramFile struct {
	Level    int            `yaml:"level"`
	Gestures []snap.Gesture `yaml:"gestures"`
}

// LoadProgramFile reads and parses a program YAML file.
func LoadProgramFile(path string) (*ProgramFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, CodedExitError(ExitCommandError, ErrCodeNotFound, "failed to read program file", err)
	}
	var pf ProgramFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, CodedExitError(ExitCommandError, ErrCodeBadProgram, "failed to parse program file", err)
	}
	if pf.Level < 1 {
		return nil, CodedExitError(ExitCommandError, ErrCodeBadProgram, "program file must name a positive level id", nil)
	}
	return &pf, nil
}

// Build resolves the program file against the catalog: looks up the level and
// replays the gestures into a fresh program.
func (pf *ProgramFile) Build(catalog *level.Catalog, gen program.BlockIDGenerator) (*level.Level, *program.Program, error) {
	lvl, err := catalog.Lookup(pf.Level)
	if err != nil {
		return nil, nil, CodedExitError(ExitCommandError, ErrCodeUnknownLevel, "unknown level", err)
	}
	prog := program.New(gen)
	if err := snap.Apply(prog, pf.Gestures); err != nil {
		return nil, nil, CodedExitError(ExitCommandError, ErrCodeBadProgram, "invalid program file", err)
	}
	return lvl, prog, nil
}

// loadCatalog compiles the embedded level catalog. Failure here is a build
// defect, surfaced as a command error rather than a panic.
func loadCatalog() (*level.Catalog, error) {
	catalog, err := level.Load()
	if err != nil {
		return nil, CodedExitError(ExitCommandError, ErrCodeGeneric, "failed to load level catalog", err)
	}
	return catalog, nil
}

// paletteViolations lists dropped kinds the level's palette does not offer.
func paletteViolations(lvl *level.Level, gestures []snap.Gesture) []string {
	var out []string
	for _, g := range gestures {
		if g.Drop == nil {
			continue
		}
		kind, err := program.ParseKind(g.Drop.Kind)
		if err != nil || !lvl.Offers(kind) {
			out = append(out, fmt.Sprintf("kind %q is not in level %d's palette", g.Drop.Kind, lvl.ID))
		}
	}
	return out
}
