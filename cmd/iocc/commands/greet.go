package commands

import (
	"github.com/spf13/cobra"

	"iocc/pkg/scope"
)

func greetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greet",
		Short: "Greet in every configured language",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := newWire(cmd, scope.SingletonOnly)
			if err != nil {
				return err
			}
			defer w.Root.Close()
			return w.Greet(cmd.Context())
		},
	}
	return cmd
}
