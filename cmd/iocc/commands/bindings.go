package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"iocc/pkg/scope"
)

func bindingsCmd() *cobra.Command {
	var (
		asJSON    bool
		hierarchy string
	)
	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "Print the container bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := scope.SingletonOnly
			switch hierarchy {
			case "singleton":
			case "web":
				h = scope.Web
			default:
				return fmt.Errorf("unknown hierarchy %q (want singleton or web)", hierarchy)
			}

			w, err := newWire(cmd, h)
			if err != nil {
				return err
			}
			defer w.Root.Close()

			r, path, err := w.Report()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				err = r.WriteJSON(out)
			} else {
				err = r.WriteText(out)
			}
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&hierarchy, "hierarchy", "singleton", "scope hierarchy: singleton or web")
	return cmd
}
