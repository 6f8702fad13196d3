package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/fscache/internal/tui"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Re-verify every cached fact against the disk",
		Long: `Re-verify the existence and the selected attributes of every cached file.
Changed values replace the cached ones and drop the attributes that depend
on them; vanished files are marked missing. Directory listings are
discarded and re-read lazily.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithProgress(cmd, opts, func(s *session) error {
				before := s.engine.Stats()
				if err := s.engine.Check(filter.resolve(cmd, s)); err != nil {
					return err
				}
				after := s.engine.Stats()
				s.logger.Info("%s checked %d files (%d existing, %d missing)",
					tui.SuccessStyle.Render(tui.SymbolCheck), before.Files, after.Existing, after.Missing)
				return nil
			})
		},
	}
	filter.register(cmd)
	return cmd
}

func newInvalidateCmd(opts *globalOptions) *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "invalidate <path>...",
		Short: "Forget cached attribute values so they are recomputed on demand",
		Args:  requirePaths(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				return s.engine.Invalidate(paths, filter.resolve(cmd, s))
			})
		},
	}
	filter.register(cmd)
	return cmd
}
