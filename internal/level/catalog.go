package level

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/loopy/internal/program"
)

//go:embed catalog.cue
var catalogCUE []byte

// Catalog is the ordered, read-only table of levels, looked up by id.
type Catalog struct {
	levels []*Level
	byID   map[int]*Level
}

// CompileError reports a catalog definition defect with CUE position info.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnknownLevelError reports a lookup of a level id that does not exist in the
// catalog. This is fatal to the operation: no such level exists, and there is
// nothing to recover within this subsystem.
type UnknownLevelError struct {
	ID int
}

func (e *UnknownLevelError) Error() string {
	return fmt.Sprintf("unknown level id %d", e.ID)
}

// Load compiles the embedded catalog. An error here is a build defect: the
// shipped catalog must always compile.
func Load() (*Catalog, error) {
	return Compile(catalogCUE, "catalog.cue")
}

// Compile parses CUE catalog source into a Catalog, validating the schema and
// the grid semantics (uniform rows, exactly one start and goal, unique ids).
func Compile(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	list := v.LookupPath(cue.ParsePath("levels"))
	if !list.Exists() {
		return nil, &CompileError{Field: "levels", Message: "levels list is required", Pos: v.Pos()}
	}

	c := &Catalog{byID: make(map[int]*Level)}
	iter, err := list.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		lvl, err := compileLevel(iter.Value())
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[lvl.ID]; dup {
			return nil, &CompileError{
				Field:   "id",
				Message: fmt.Sprintf("duplicate level id %d", lvl.ID),
				Pos:     iter.Value().Pos(),
			}
		}
		c.levels = append(c.levels, lvl)
		c.byID[lvl.ID] = lvl
	}
	if len(c.levels) == 0 {
		return nil, &CompileError{Field: "levels", Message: "catalog has no levels", Pos: list.Pos()}
	}
	return c, nil
}

// Levels returns every level in catalog order.
func (c *Catalog) Levels() []*Level {
	out := make([]*Level, len(c.levels))
	copy(out, c.levels)
	return out
}

// Lookup returns the level with the given id.
// Unknown ids return an UnknownLevelError.
func (c *Catalog) Lookup(id int) (*Level, error) {
	lvl, ok := c.byID[id]
	if !ok {
		return nil, &UnknownLevelError{ID: id}
	}
	return lvl, nil
}

// Has reports whether a level with the given id exists. Used by the unlock
// rule, which only opens the next sequential id if the catalog defines it.
func (c *Catalog) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// compileLevel extracts one level struct from its CUE value.
func compileLevel(v cue.Value) (*Level, error) {
	lvl := &Level{}

	id, err := v.LookupPath(cue.ParsePath("id")).Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	lvl.ID = int(id)

	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	lvl.Name = name

	rows, err := stringList(v.LookupPath(cue.ParsePath("rows")))
	if err != nil {
		return nil, formatCUEError(err)
	}
	if err := lvl.parseRows(rows); err != nil {
		return nil, &CompileError{Field: "rows", Message: err.Error(), Pos: v.Pos()}
	}

	heading, err := v.LookupPath(cue.ParsePath("heading")).Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	lvl.Heading = program.Heading(heading)
	if !lvl.Heading.Valid() {
		return nil, &CompileError{
			Field:   "heading",
			Message: fmt.Sprintf("invalid heading %d", heading),
			Pos:     v.Pos(),
		}
	}

	palette, err := stringList(v.LookupPath(cue.ParsePath("palette")))
	if err != nil {
		return nil, formatCUEError(err)
	}
	for _, kname := range palette {
		kind, err := program.ParseKind(kname)
		if err != nil {
			return nil, &CompileError{Field: "palette", Message: err.Error(), Pos: v.Pos()}
		}
		if !kind.Instantiable() {
			return nil, &CompileError{
				Field:   "palette",
				Message: fmt.Sprintf("kind %q cannot appear in a palette", kind),
				Pos:     v.Pos(),
			}
		}
		lvl.Palette = append(lvl.Palette, kind)
	}

	par, err := v.LookupPath(cue.ParsePath("par")).Int64()
	if err != nil {
		return nil, formatCUEError(err)
	}
	if par < 1 {
		return nil, &CompileError{
			Field:   "par",
			Message: fmt.Sprintf("par must be positive, got %d", par),
			Pos:     v.Pos(),
		}
	}
	lvl.Par = int(par)

	return lvl, nil
}

// stringList materializes a CUE list of strings.
func stringList(v cue.Value) ([]string, error) {
	iter, err := v.List()
	if err != nil {
		return nil, err
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// formatCUEError converts CUE's multi-error values into a CompileError
// carrying the first position, when one is available.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
