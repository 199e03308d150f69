package commands

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"iocc/internal/app"
	"iocc/pkg/scope"
)

var (
	cfg     app.Config
	envFile string
	verbose bool

	appName   string
	languages []string
	strict    bool
	reportDir string
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "iocc",
		Short:        "Inversion of control container demo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = app.LoadConfig(envFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("app-name") {
				cfg.AppName = appName
			}
			if flags.Changed("lang") {
				cfg.Languages = languages
			}
			if flags.Changed("strict") {
				cfg.Strict = strict
			}
			if flags.Changed("report-dir") {
				cfg.ReportDir = reportDir
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to load if present")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log container events to stderr")
	pf.StringVar(&appName, "app-name", "", "application name (env IOCC_APP_NAME)")
	pf.StringSliceVar(&languages, "lang", nil, "greeter languages (env IOCC_LANGUAGES)")
	pf.BoolVar(&strict, "strict", false, "reject objects outliving their container scope (env IOCC_STRICT)")
	pf.StringVar(&reportDir, "report-dir", "", "directory to save binding reports in (env IOCC_REPORT_DIR)")

	root.AddCommand(greetCmd(), bindingsCmd(), serveCmd())
	return root
}

// newWire builds the app for a command in hierarchy h.
func newWire(cmd *cobra.Command, h *scope.Hierarchy) (*app.Wire, error) {
	var logger *log.Logger
	if verbose {
		logger = log.New(os.Stderr, "[iocc] ", log.LstdFlags)
	}
	return app.NewWire(cfg, h, cmd.OutOrStdout(), logger)
}
