package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/fscache/internal/tui"
	"github.com/vvka-141/fscache/pkg/fscache"
)

// filterFlags selects attributes for scan, check and invalidate.
type filterFlags struct {
	include []string
	exclude []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "Only these attributes (default: all, or attributes.include)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Skip these attributes")
}

// resolve combines the flags with the configured default filter.
func (f *filterFlags) resolve(cmd *cobra.Command, s *session) fscache.AttributeFilter {
	filter := s.cfg.Filter()
	if cmd.Flags().Changed("include") {
		filter.Include = f.include
	}
	if cmd.Flags().Changed("exclude") {
		filter.Exclude = f.exclude
	}
	return filter
}

// runWithProgress is run for bulk operations, drawing progress on stderr.
func runWithProgress(cmd *cobra.Command, opts *globalOptions, fn func(s *session) error) error {
	progress := tui.NewProgress(cmd.ErrOrStderr(), tui.IsInteractive())
	s, err := openSession(cmd, opts, progress.Func())
	if err != nil {
		progress.Finish(nil)
		return err
	}
	opErr := fn(s)
	progress.Finish(opErr)
	return s.close(opErr)
}

func newScanCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "scan <dir>...",
		Short: "Index every file under the given directories",
		Long: `Walk each directory recursively and compute the selected attributes of
every file found, so later queries are answered from the cache.

Examples:
  # Index everything under ./data
  fscache scan ./data

  # Only record sizes
  fscache scan ./data ./more --include size`,
		Args: requirePaths(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := absPaths(args)
			if err != nil {
				return err
			}
			return runWithProgress(cmd, opts, func(s *session) error {
				if err := s.engine.Scan(dirs, filter.resolve(cmd, s)); err != nil {
					return err
				}
				stats := s.engine.Stats()
				s.logger.Info("%s %d files cached", tui.SuccessStyle.Render(tui.SymbolCheck), stats.Existing)
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}
