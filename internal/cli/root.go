package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose   bool
	config    string
	cacheFile string
	store     string
}

// NewRootCommand builds the fscache command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "fscache",
		Short: "Lazy, persistent cache of filesystem metadata",
		Long: `fscache remembers what it has learned about files and directories:
whether they exist, directory listings, and attributes such as size and
content checksum. Nothing is read until a command asks for it, and every
answer is kept in a snapshot so later runs perform no I/O for it.

Run 'fscache check' to bring cached facts up to date with the disk.

The snapshot lives in cache_file (default .fscache.json; .yaml selects YAML)
or, with store.kind=postgres, in a PostgreSQL table.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error or unknown attribute
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Snapshot missing or malformed
  12 - An attribute could not be computed
  13 - Directory recursion too deep (symlink cycle?)`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output for all commands")
	flags.StringVarP(&opts.config, "config", "c", ".", "Config file, or directory containing fscache.yaml")
	flags.StringVar(&opts.cacheFile, "cache-file", "", "Snapshot file (overrides cache_file)")
	flags.StringVar(&opts.store, "store", "", "Snapshot store: file or postgres (overrides store.kind)")

	root.AddCommand(
		newScanCmd(opts),
		newCheckCmd(opts),
		newInvalidateCmd(opts),
		newExistsCmd(opts),
		newLsCmd(opts),
		newAttrCmd(opts),
		newEmptyCmd(opts),
		newDiffCmd(opts),
		newNotifyCmd(opts),
		newStatsCmd(opts),
		newForgetCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return NewRootCommand().Execute()
}
