package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mathieupost/pybridge/generate"
	"github.com/mathieupost/pybridge/log"
)

func newCheckCommand(fs afero.Fs, f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check SOURCE DEST [HEADER]",
		Short: "Fail when DEST differs from the bridge SOURCE generates",
		Long: `Regenerate the bridge in memory and compare it with DEST.

Prints a unified diff and exits non-zero when DEST is out of date. Nothing is
written.`,
		Args:          cobra.RangeArgs(2, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := prepare(fs, cmd, f, args, args[1])
			if err != nil {
				return err
			}
			defer r.shutdown()

			src, err := generate.ReadSource(fs, r.source)
			if err != nil {
				return err
			}
			diff, err := r.pipeline.Check(commandContext(cmd), src)
			if diff != "" {
				fmt.Fprint(cmd.OutOrStdout(), diff)
			}
			if err != nil {
				return err
			}
			log.Info().Str("dest", args[1]).Msg("bridge is up to date")
			return nil
		},
	}
}
