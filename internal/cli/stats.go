package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fscache/internal/tui"
)

func newStatsCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize what the cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(s *session) error {
				stats := s.engine.Stats()
				if asJSON {
					return printJSON(cmd.OutOrStdout(), stats)
				}

				w := cmd.OutOrStdout()
				fmt.Fprintln(w, tui.TitleStyle.Render(s.store.Describe()))
				fmt.Fprintf(w, "files:    %d (%d existing, %d missing)\n", stats.Files, stats.Existing, stats.Missing)
				fmt.Fprintf(w, "dirs:     %d (%d fully listed)\n", stats.Dirs, stats.Memoized)
				names := make([]string, 0, len(stats.Attributes))
				for name := range stats.Attributes {
					names = append(names, name)
				}
				slices.Sort(names)
				for _, name := range names {
					fmt.Fprintf(w, "%s %s: %d\n", tui.SymbolBullet, name, stats.Attributes[name])
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output statistics as JSON")
	return cmd
}

func newForgetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <path>...",
		Short: "Drop everything the cache knows about files",
		Long: `Drop the file records of the given paths entirely, including records of
files that no longer exist. Directory listings are left untouched.`,
		Args: requirePaths(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				s.engine.Forget(paths)
				return nil
			})
		},
	}
}
