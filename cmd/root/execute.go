package root

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Execute runs the command tree with args, writing command output to out.
// Flag values left by a previous run are reset first, so the tree can run
// several times in one process.
func Execute(out io.Writer, args ...string) error {
	resetFlags(Cmd)
	Cmd.SetOut(out)
	Cmd.SetErr(out)
	if args == nil {
		args = []string{}
	}
	Cmd.SetArgs(args)
	return Cmd.Execute()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}
