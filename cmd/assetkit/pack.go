package main

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	assetkit "github.com/flywave/go-assetkit"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <source-dir> <atlas-name> <icon-dim> <col-count>",
		Short: "Pack every image in a directory into a grid atlas",
		Long: `pack resizes every image in <source-dir> to <icon-dim> square pixels, lays
them out <col-count> per row and writes <atlas-name>.png and
<atlas-name>.atlas.json into the current directory.`,
		// positional only, so "-1" reaches the dimension check
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if isHelpRequest(args) {
				return nil
			}
			return usageArgs(4, 4)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isHelpRequest(args) {
				return cmd.Help()
			}
			iconDim, err := parsePositive("icon-dim", args[2])
			if err != nil {
				return err
			}
			colCount, err := parsePositive("col-count", args[3])
			if err != nil {
				return err
			}
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "working directory")
			}
			atlas, err := assetkit.PackDir(args[0], args[1], iconDim, colCount)
			if err != nil {
				return err
			}
			_, _, err = atlas.WriteFiles(cwd)
			return err
		},
	}
}

// isHelpRequest reports a lone -h or --help, which cobra leaves to the
// command when flag parsing is disabled.
func isHelpRequest(args []string) bool {
	return len(args) == 1 && (args[0] == "-h" || args[0] == "--help")
}

func parsePositive(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(assetkit.ErrInvalidArgument, "%s %q is not an integer", name, s)
	}
	if n <= 0 {
		return 0, errors.Wrapf(assetkit.ErrInvalidArgument, "%s must be positive, got %d", name, n)
	}
	return n, nil
}
