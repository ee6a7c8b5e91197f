package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"gureum/interpreter-go/pkg/driver"
)

const (
	promptMain  = "구름> "
	promptCont  = "  ... "
	historyFile = "history"
)

// lineReader is the part of *liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type repl struct {
	session *driver.Session
	out     io.Writer
	errOut  io.Writer
	history func(string)
	entries int
}

func (c *cli) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Long: `Reads programs line by line and prints the value of each entry. Input
continues on the next line while parentheses or braces are open. Bindings
persist for the whole session. :env lists them and :quit leaves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.replEntry()
		},
	}
}

func (c *cli) replEntry() error {
	_, parseOpts, evalOpts, err := projectOptions()
	if err != nil {
		return err
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if home, err := driver.HomeDir(); err == nil {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(home, 0o755); err != nil {
				log.Warnf("repl: cannot create %s: %v", home, err)
				return
			}
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintf(c.stdout, "%s (:quit to exit)\n", cliToolVersion)
	r := &repl{
		session: driver.NewSession(parseOpts, evalOpts),
		out:     c.stdout,
		errOut:  c.stderr,
		history: ln.AppendHistory,
	}
	return r.loop(ln)
}

func (r *repl) loop(in lineReader) error {
	for {
		code, err := r.read(in)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			return err
		}
		if quit := r.handle(code); quit {
			return nil
		}
	}
}

// read collects lines until every opened bracket is closed.
func (r *repl) read(in lineReader) (string, error) {
	var lines []string
	prompt := promptMain
	for {
		line, err := in.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				return strings.Join(lines, "\n"), nil
			}
			return "", err
		}
		lines = append(lines, line)
		code := strings.Join(lines, "\n")
		if openBrackets(code) <= 0 {
			return code, nil
		}
		prompt = promptCont
	}
}

func (r *repl) handle(code string) (quit bool) {
	trimmed := strings.TrimSpace(code)
	switch {
	case trimmed == "":
		return false
	case trimmed == ":quit":
		return true
	case trimmed == ":env":
		fmt.Fprintln(r.out, strings.Join(r.session.Bindings(), " "))
		return false
	case strings.HasPrefix(trimmed, ":"):
		fmt.Fprintf(r.errOut, "unknown command %s (try :env or :quit)\n", trimmed)
		return false
	}
	if r.history != nil {
		r.history(code)
	}
	r.entries++
	val, src, err := r.session.Eval(fmt.Sprintf("<%d>", r.entries), code)
	if err != nil {
		fmt.Fprintln(r.errOut, driver.Diagnose(err, src))
		return false
	}
	fmt.Fprintln(r.out, val.Display())
	return false
}

// openBrackets returns how many parentheses and braces are still open,
// ignoring string literals and comments.
func openBrackets(code string) int {
	depth := 0
	var quote rune
	comment := false
	for _, r := range code {
		switch {
		case comment:
			if r == '\n' {
				comment = false
			}
		case quote != 0:
			if r == quote || r == '\n' {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			comment = true
		case r == '(' || r == '{':
			depth++
		case r == ')' || r == '}':
			depth--
		}
	}
	return depth
}
