package main

import (
	"fmt"

	"github.com/spf13/cobra"

	assetkit "github.com/flywave/go-assetkit"
)

func newFBX2glTFCmd(cfg assetkit.Config) *cobra.Command {
	var (
		text bool
		opts assetkit.ConvertOptions
	)
	cmd := &cobra.Command{
		Use:   "fbx2gltf <root-model.fbx>",
		Short: "Convert a model and its <model>_Animations directory with FBX2glTF",
		Long: fmt.Sprintf(`fbx2gltf runs the FBX2glTF binary (%s, set ASSETKIT_FBX2GLTF to change)
on <dir>/<model>.fbx and every <dir>/<model>_Animations/*.fbx, writing
<dir>/<model>.glb and <dir>/<model>_Animations_gltf/<anim>.glb.
Download FBX2glTF from https://github.com/facebookincubator/FBX2glTF`, cfg.FBX2glTF),
		Args: usageArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := assetkit.GLB
			if text {
				format = assetkit.GLTF
			}
			conv := assetkit.NewFBX2glTF(cfg.FBX2glTF, format)
			conv.Runner = assetkit.NewExecRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
			report, err := assetkit.ConvertModel(cmd.Context(), conv, args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %s and %d animations\n", report.Model.Output, len(report.Animations))
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "write .gltf with embedded buffers instead of .glb")
	cmd.Flags().BoolVar(&opts.Inspect, "inspect", false, "parse each FBX before converting it")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "reopen each output and list its animation clips")
	return cmd
}
