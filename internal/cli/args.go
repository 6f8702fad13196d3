package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// requirePaths validates that at least min path arguments are provided.
func requirePaths(min int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < min {
			return fmt.Errorf(`missing required argument: <path>

Usage: %s

Example:
  %s ./data`, cmd.UseLine(), cmd.CommandPath())
		}
		return nil
	}
}

// requireExactPaths validates that exactly n path arguments are provided.
func requireExactPaths(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("accepts %d arg(s), received %d\n\nUsage: %s", n, len(args), cmd.UseLine())
		}
		return nil
	}
}

// absPaths makes paths absolute so the same file always has the same cache key.
func absPaths(paths []string) ([]string, error) {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		result = append(result, abs)
	}
	return result, nil
}

func absPath(p string) (string, error) {
	return filepath.Abs(p)
}
