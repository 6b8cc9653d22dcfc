package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/semihalev/duckflat/internal/config"
)

// cli carries state shared by the commands of one invocation.
type cli struct {
	out    io.Writer
	errOut io.Writer

	configFile string
	cfg        *config.Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "duckflat",
		Short:         "Run SQL against an embedded engine and print flat results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default ./duckflat.yaml)")
	flags.String("engine", "sqlite", "engine name (sqlite, duckdb)")
	flags.String("path", "", "database path, empty for in-memory")
	flags.String("format", "table", "output format (table, html)")
	flags.Int("chunk-size", 0, "rows per result chunk, 0 for the engine default")
	flags.Int64("max-result-bytes", 0, "limit on result buffer bytes per query, 0 for none")
	flags.String("duckdb-library", "", "path to the DuckDB shared library")
	flags.String("log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newQueryCmd(c),
		newShellCmd(c),
		newVersionCmd(c),
		newEnginesCmd(c),
	)
	return root
}
