package cli

import (
	"github.com/spf13/cobra"
)

func newNotifyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Tell the cache about changes made outside of it",
		Long: `Record a removal, copy or move that was just performed, so the cache
stays correct without re-reading the disk.

Examples:
  rm data/a.bin && fscache notify rm data/a.bin
  cp data/a.bin data/b.bin && fscache notify cp data/a.bin data/b.bin
  mv data/b.bin data/c.bin && fscache notify mv data/b.bin data/c.bin`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "rm <path>",
			Short: "Record that a file was removed",
			Args:  requireExactPaths(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := absPath(args[0])
				if err != nil {
					return err
				}
				return run(cmd, opts, func(s *session) error {
					s.engine.NotifyRemoved(path)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "cp <src> <dst>",
			Short: "Record that a file was copied",
			Args:  requireExactPaths(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				paths, err := absPaths(args)
				if err != nil {
					return err
				}
				return run(cmd, opts, func(s *session) error {
					s.engine.NotifyCopied(paths[0], paths[1])
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "mv <src> <dst>",
			Short: "Record that a file was moved",
			Args:  requireExactPaths(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				paths, err := absPaths(args)
				if err != nil {
					return err
				}
				return run(cmd, opts, func(s *session) error {
					s.engine.NotifyMoved(paths[0], paths[1])
					return nil
				})
			},
		},
	)
	return cmd
}
