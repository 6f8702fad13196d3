package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vvka-141/fscache/internal/attributes/checksum"
	"github.com/vvka-141/fscache/internal/attributes/size"
	"github.com/vvka-141/fscache/internal/tui"
)

func printLines(w io.Writer, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(jsonBytes))
	return nil
}

func newExistsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <path>",
		Short: "Print whether a path exists",
		Long: `Print "true" or "false". The answer comes from the cache when possible,
including what is known from the parent directory listing.`,
		Args: requireExactPaths(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				exists, err := s.engine.Exists(path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), exists)
				return nil
			})
		},
	}
}

func newLsCmd(opts *globalOptions) *cobra.Command {
	var dirs, recursive bool
	cmd := &cobra.Command{
		Use:   "ls <dir>",
		Short: "List a directory from the cache",
		Long: `List the files of a directory (basenames). With --dirs list its
subdirectories instead. With --recursive print full paths of everything
below it.

Examples:
  fscache ls ./data
  fscache ls ./data --dirs
  fscache ls ./data --recursive
  fscache ls ./data --recursive --dirs`,
		Args: requireExactPaths(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absPath(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				var entries []string
				var err error
				switch {
				case recursive && dirs:
					entries, err = s.engine.RecursiveDirsFrom(dir)
				case recursive:
					entries, err = s.engine.RecursiveFilesFrom(dir)
				case dirs:
					entries, err = s.engine.DirsIn(dir)
				default:
					entries, err = s.engine.FilesIn(dir)
				}
				if err != nil {
					return err
				}
				printLines(cmd.OutOrStdout(), entries)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dirs, "dirs", false, "List directories instead of files")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "List everything below the directory")
	return cmd
}

func newAttrCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "attr <path> <attribute>",
		Short: "Print an attribute of a file",
		Long: fmt.Sprintf(`Print an attribute value, computing and caching it on first use.
Nothing is printed, and the exit code is 0, for a missing file.

Attributes: %s, %s`, size.Name, checksum.Name),
		Args: requireExactPaths(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				value, ok, err := s.engine.Attribute(path, args[1])
				if err != nil {
					return err
				}
				if !ok {
					s.logger.Verbose("%s does not exist", path)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			})
		},
	}
}

func newEmptyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "empty <path>",
		Short: "Print whether a file is empty",
		Args:  requireExactPaths(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := absPath(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				empty, err := size.IsEmpty(s.engine, path)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), empty)
				return nil
			})
		},
	}
}

func newDiffCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "diff <dir1> <dir2>",
		Short: "Compare the files of two directories by content",
		Long: `Compare the files directly inside dir1 (before) and dir2 (after) by
checksum and report them as same, renamed, added, deleted or different.

Output markers:
  =  same name, same content
  →  renamed (same content, new name)
  +  added in dir2
  -  deleted from dir1
  ≠  same name, different content`,
		Args: requireExactPaths(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := absPaths(args)
			if err != nil {
				return err
			}
			return run(cmd, opts, func(s *session) error {
				diff, err := checksum.DiffDirs(s.engine, dirs[0], dirs[1])
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), diff)
				}
				printDiff(cmd.OutOrStdout(), diff)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the comparison as JSON")
	return cmd
}

func printDiff(w io.Writer, diff *checksum.Diff) {
	for _, name := range diff.Same {
		fmt.Fprintln(w, tui.MutedStyle.Render("= "+name))
	}
	for _, pair := range diff.Renamed {
		fmt.Fprintln(w, tui.WarningStyle.Render(fmt.Sprintf("%s %s %s", tui.SymbolArrowRight, pair[0], pair[1])))
	}
	for _, name := range diff.Added {
		fmt.Fprintln(w, tui.SuccessStyle.Render("+ "+name))
	}
	for _, name := range diff.Deleted {
		fmt.Fprintln(w, tui.ErrorStyle.Render("- "+name))
	}
	for _, name := range diff.Different {
		fmt.Fprintln(w, tui.WarningStyle.Render("≠ "+name))
	}
}
