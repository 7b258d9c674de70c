package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/loopy/internal/compile"
	"github.com/roach88/loopy/internal/program"
)

// ValidationResult holds validation results for a program file.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Level       int      `json:"level"`
	UsedCount   int      `json:"used_count"`
	Expansion   []string `json:"expansion"`
	Par         int      `json:"par"`
	Errors      []string `json:"errors,omitempty"`
	Disconnects int      `json:"disconnected_blocks"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <program.yaml>",
		Short: "Validate a program file without running it",
		Long: `Validate a program file: replay its gestures, expand the block graph into
the instruction sequence, and report the used-block count against the level's
par. Flags blocks whose kinds the level's palette does not offer and blocks
left unattached to the entry chain.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	catalog, err := loadCatalog()
	if err != nil {
		return reportError(formatter, err)
	}
	pf, err := LoadProgramFile(path)
	if err != nil {
		return reportError(formatter, err)
	}
	lvl, prog, err := pf.Build(catalog, program.UUIDv7Generator{})
	if err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Built program: level %d, %d block(s)", lvl.ID, prog.Len())

	result := ValidationResult{
		Valid:     true,
		Level:     lvl.ID,
		UsedCount: compile.UsedCount(prog),
		Par:       lvl.Par,
		Errors:    paletteViolations(lvl, pf.Gestures),
	}
	for _, kind := range compile.Expand(prog) {
		result.Expansion = append(result.Expansion, kind.String())
	}
	result.Disconnects = countDisconnected(prog)
	if len(result.Errors) > 0 {
		result.Valid = false
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "level %d (par %d): %d block(s) used, %d instruction(s), %d disconnected\n",
			result.Level, result.Par, result.UsedCount, len(result.Expansion), result.Disconnects)
		for _, msg := range result.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  error: %s\n", msg)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "program file failed validation")
	}
	return nil
}

// countDisconnected counts blocks that are neither on the entry chain nor
// nested (transitively) in a repeat on that chain: leftovers the run would
// silently ignore.
func countDisconnected(prog *program.Program) int {
	attached := map[string]bool{}
	var mark func(id string)
	mark = func(id string) {
		b := prog.Find(id)
		if b == nil || attached[id] {
			return
		}
		attached[id] = true
		for _, c := range b.Children {
			mark(c)
		}
	}
	for _, b := range prog.CollectStack(prog.Entry().ID) {
		mark(b.ID)
	}
	n := 0
	for _, b := range prog.Blocks() {
		if !attached[b.ID] {
			n++
		}
	}
	return n
}
