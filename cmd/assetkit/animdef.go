package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	assetkit "github.com/flywave/go-assetkit"
)

func newAnimDefCmd() *cobra.Command {
	var (
		legacy bool
		opts   assetkit.AnimDefOptions
	)
	cmd := &cobra.Command{
		Use:   "animdef <root-model> [out-dir]",
		Short: "Write <model>.model.json listing the model's animation clips",
		Long: `animdef lists <dir>/<model>_Animations_gltf and writes <dir>/<model>.model.json
with paths under <out-dir>. With --legacy it lists <dir>/anims instead and
stores bare file names.`,
		Args: usageArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 2 {
				opts.OutDir = args[1]
			}
			switch {
			case legacy && opts.OutDir != "":
				return errors.Wrap(assetkit.ErrUsage, "--legacy takes no out-dir")
			case !legacy && opts.OutDir == "":
				return errors.Wrap(assetkit.ErrUsage, "out-dir is required unless --legacy is set")
			}
			out, def, err := assetkit.GenerateAnimDef(args[0], opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s with %d anims\n", out, len(def.AnimNames()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&legacy, "legacy", false, "use the <dir>/anims layout with main/animDir keys")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "open every clip as glTF before listing it")
	return cmd
}
