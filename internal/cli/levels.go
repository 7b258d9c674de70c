package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/loopy/internal/progress"
)

// LevelSummary is one catalog entry in the levels listing.
type LevelSummary struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Par      int      `json:"par"`
	Palette  []string `json:"palette"`
	Unlocked *bool    `json:"unlocked,omitempty"`
	Stars    *int     `json:"stars,omitempty"`
}

// LevelsOptions holds flags for the levels command.
type LevelsOptions struct {
	*RootOptions
	Database string
}

// NewLevelsCommand creates the levels command.
func NewLevelsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LevelsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the level catalog",
		Long: `List every level in the built-in catalog.

With --db, annotates each level with the stored progress: whether it is
unlocked and the best star rating achieved.

Example:
  loopy levels
  loopy levels --db ~/.loopy/progress.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevels(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to progress database (optional)")

	return cmd
}

func runLevels(opts *LevelsOptions, cmd *cobra.Command) error {
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

	var record *progress.Progress
	if opts.Database != "" {
		store, err := progress.Open(opts.Database)
		if err != nil {
			return reportError(formatter, CodedExitError(ExitCommandError, ErrCodeStore, "failed to open progress database", err))
		}
		defer store.Close()
		record = store.Load(cmd.Context())
	}

	var summaries []LevelSummary
	for _, lvl := range catalog.Levels() {
		s := LevelSummary{
			ID:     lvl.ID,
			Name:   lvl.Name,
			Width:  lvl.Width,
			Height: lvl.Height,
			Par:    lvl.Par,
		}
		for _, k := range lvl.Palette {
			s.Palette = append(s.Palette, k.String())
		}
		if record != nil {
			unlocked := record.IsUnlocked(lvl.ID)
			s.Unlocked = &unlocked
			if best, ok := record.Stars[lvl.ID]; ok {
				s.Stars = &best
			}
		}
		summaries = append(summaries, s)
	}

	if opts.Format == "json" {
		return formatter.Success(summaries)
	}
	for _, s := range summaries {
		line := fmt.Sprintf("%3d  %-16s %dx%d  par %d  [%s]",
			s.ID, s.Name, s.Width, s.Height, s.Par, strings.Join(s.Palette, ", "))
		if s.Unlocked != nil {
			if !*s.Unlocked {
				line += "  (locked)"
			} else if s.Stars != nil {
				line += "  " + strings.Repeat("*", *s.Stars)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
