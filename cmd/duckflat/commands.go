package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/semihalev/duckflat"
	"github.com/semihalev/duckflat/internal/render"
)

func newQueryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "query [SQL]",
		Short: "Execute one statement and print its result",
		Long:  "Execute one statement and print its result. With no argument the statement is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read query: %w", err)
				}
				query = string(data)
			}
			query = strings.TrimSpace(query)
			if query == "" {
				return fmt.Errorf("empty query")
			}

			s, err := openSession(c.cfg, c.errOut)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.run(c.out, query); err != nil {
				render.Error(c.errOut, err)
				return fmt.Errorf("query failed (%s)", duckflat.StateOf(err))
			}
			return nil
		},
	}
}

func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive SQL shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(c.cfg, c.errOut)
			if err != nil {
				return err
			}
			defer s.Close()

			sh := newShell(s, c.out, c.errOut)
			if f, ok := cmd.InOrStdin().(*os.File); ok && f == os.Stdin {
				sh.banner()
				return sh.RunInteractive(historyPath())
			}
			return sh.Run(cmd.InOrStdin())
		},
	}
}

// historyPath returns the shell history file, or "" without a home directory.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".duckflat_history")
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the duckflat and engine versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.out, "duckflat %s\n", duckflat.ModuleVersion)

			s, err := openSession(c.cfg, c.errOut)
			if err != nil {
				return err
			}
			defer s.Close()

			fmt.Fprintf(c.out, "%s %s\n", s.db.Engine(), s.db.Version())
			return nil
		},
	}
}

func newEnginesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "engines",
		Short: "List the registered engines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range duckflat.Engines() {
				fmt.Fprintln(c.out, name)
			}
			return nil
		},
	}
}
