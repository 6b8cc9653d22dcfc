package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/semihalev/duckflat"
	"github.com/semihalev/duckflat/internal/render"
)

const (
	prompt             = "duckflat> "
	continuationPrompt = "     ...> "
)

// shell reads statements terminated by ';' and dot commands, one per line.
type shell struct {
	s      *session
	out    io.Writer
	errOut io.Writer
	buf    strings.Builder
}

func newShell(s *session, out, errOut io.Writer) *shell {
	return &shell{s: s, out: out, errOut: errOut}
}

func (sh *shell) banner() {
	fmt.Fprintf(sh.out, "duckflat %s (%s %s)\n", duckflat.ModuleVersion, sh.s.db.Engine(), sh.s.db.Version())
	fmt.Fprintf(sh.out, "Type '.help' for commands.\n\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(sh.out, "\nInterrupted. Exiting...")
		sh.s.Close()
		os.Exit(0)
	}()
}

// Run processes input until EOF or .exit.
func (sh *shell) Run(in io.Reader) error {
	reader := bufio.NewReader(in)
	return sh.loop(func(p string) (string, error) {
		fmt.Fprint(sh.out, p)
		line, err := reader.ReadString('\n')
		if err == io.EOF && line != "" {
			return line, nil
		}
		return line, err
	})
}

// RunInteractive reads from the terminal with line editing and keeps history
// in historyFile when it is not empty.
func (sh *shell) RunInteractive(historyFile string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	return sh.loop(func(p string) (string, error) {
		input, err := line.Prompt(p)
		if err == liner.ErrPromptAborted {
			sh.buf.Reset()
			return "", nil
		}
		if err == nil && strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		return input, err
	})
}

func (sh *shell) loop(read func(prompt string) (string, error)) error {
	for {
		p := prompt
		if sh.buf.Len() > 0 {
			p = continuationPrompt
		}

		line, err := read(p)
		if err == io.EOF {
			if rest := strings.TrimSpace(sh.buf.String()); rest != "" {
				sh.exec(rest)
			}
			fmt.Fprintln(sh.out)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		if exit := sh.handle(strings.TrimSpace(line)); exit {
			return nil
		}
	}
}

// handle processes one input line and reports whether the shell should exit.
func (sh *shell) handle(line string) bool {
	if line == "" {
		return false
	}
	if sh.buf.Len() == 0 && strings.HasPrefix(line, ".") {
		return sh.command(line)
	}

	if sh.buf.Len() > 0 {
		sh.buf.WriteByte('\n')
	}
	sh.buf.WriteString(line)
	if !strings.HasSuffix(line, ";") {
		return false
	}

	query := sh.buf.String()
	sh.buf.Reset()
	sh.exec(query)
	return false
}

func (sh *shell) exec(query string) {
	if err := sh.s.run(sh.out, query); err != nil {
		render.Error(sh.errOut, err)
	}
}

func (sh *shell) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ".exit", ".quit":
		return true
	case ".help":
		fmt.Fprintln(sh.out, ".engines       list registered engines")
		fmt.Fprintln(sh.out, ".exit          leave the shell")
		fmt.Fprintln(sh.out, ".format NAME   switch output format (table, html)")
		fmt.Fprintln(sh.out, ".help          show this message")
		fmt.Fprintln(sh.out, "Statements end with ';'.")
	case ".engines":
		for _, name := range duckflat.Engines() {
			fmt.Fprintln(sh.out, name)
		}
	case ".format":
		if len(fields) != 2 || (fields[1] != "table" && fields[1] != "html") {
			fmt.Fprintln(sh.errOut, "usage: .format table|html")
			return false
		}
		sh.s.cfg.Output.Format = fields[1]
	default:
		fmt.Fprintf(sh.errOut, "unknown command %s, try .help\n", fields[0])
	}
	return false
}
