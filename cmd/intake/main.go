package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"intake-service/internal/intake/schema"
)

// app is the state shared by every subcommand once flags are parsed.
type app struct {
	schemaFile string
	verbose    bool

	logger  zerolog.Logger
	schemas schema.Set
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "intake",
		Short:         "Check product, clothing and price amendment sheets before upload",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			lvl := zerolog.InfoLevel
			if a.verbose {
				lvl = zerolog.DebugLevel
			}
			a.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
				Level(lvl).With().Timestamp().Logger()

			a.schemas = schema.Defaults()
			if a.schemaFile != "" {
				s, err := schema.LoadFile(a.schemaFile)
				if err != nil {
					return eris.Wrap(err, "load schema")
				}
				a.schemas = s
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.schemaFile, "schema", "", "YAML overlay for header aliases and rules")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newCheckCmd(a))
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
