package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	assetkit "github.com/flywave/go-assetkit"
)

func newRootCmd(cfg assetkit.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "assetkit",
		Short: "Game asset pipeline tools",
		Long: `assetkit prepares art for the game client.

  pack      pack an icon directory into a grid atlas and manifest
  fbx2gltf  convert a model and its animations with FBX2glTF
  animdef   write the animation definition for a converted model`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newPackCmd(),
		newFBX2glTFCmd(cfg),
		newAnimDefCmd(),
	)
	return root
}

// usageArgs checks the positional argument count and prints usage on mismatch.
func usageArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) >= lo && len(args) <= hi {
			return nil
		}
		_ = cmd.Usage()
		if lo == hi {
			return errors.Wrapf(assetkit.ErrUsage, "%s expects %d arguments, got %d", cmd.Name(), lo, len(args))
		}
		return errors.Wrapf(assetkit.ErrUsage, "%s expects %d to %d arguments, got %d", cmd.Name(), lo, hi, len(args))
	}
}
