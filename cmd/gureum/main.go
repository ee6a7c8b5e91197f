// Command gureum runs, parses, checks and tests Gureum programs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"gureum/interpreter-go/pkg/driver"
	"gureum/interpreter-go/pkg/interpreter"
	"gureum/interpreter-go/pkg/parser"
)

const cliToolVersion = "gureum 0.1.0-dev"

var errManifestNotFound = errors.New(driver.ManifestFileName + " not found")

var logLevels = map[string]log.Level{
	"debug":   log.Debug,
	"verbose": log.Verbose,
	"info":    log.Info,
	"warning": log.Warning,
	"error":   log.Error,
}

// exitError carries a process exit status for failures that were already
// reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// cli holds the streams and global flags shared by every subcommand.
type cli struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logLevel string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}
	root := c.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "gureum: %v\n", err)
	return 1
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gureum",
		Short:         "Gureum language interpreter",
		Version:       cliToolVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.applyLogLevel()
		},
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warning",
		"log level: "+strings.Join(levelNames(), ", "))

	root.AddCommand(
		c.runCmd(),
		c.parseCmd(),
		c.checkCmd(),
		c.replCmd(),
		c.testCmd(),
		c.fetchCmd(),
	)
	return root
}

func (c *cli) applyLogLevel() error {
	level, ok := logLevels[strings.ToLower(strings.TrimSpace(c.logLevel))]
	if !ok {
		return fmt.Errorf("unknown log level %q (want one of %s)", c.logLevel, strings.Join(levelNames(), ", "))
	}
	log.SetLogLevel(level)
	return nil
}

func levelNames() []string {
	names := make([]string, 0, len(logLevels))
	for name := range logLevels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadManifestFrom finds and loads the manifest governing dir.
func loadManifestFrom(dir string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errManifestNotFound
	}
	return driver.LoadManifest(path)
}

// projectOptions returns the interpreter settings of the nearby manifest,
// or none when there is no manifest.
func projectOptions() (*driver.Manifest, []parser.Option, []interpreter.Option, error) {
	manifest, err := loadManifestFrom(".")
	if errors.Is(err, errManifestNotFound) {
		return nil, nil, nil, nil
	}
	if err != nil {
		return nil, nil, nil, err
	}
	parseOpts, evalOpts := manifest.Interpreter.Options()
	return manifest, parseOpts, evalOpts, nil
}

// reportError prints err with source context and turns it into exit status 1.
func (c *cli) reportError(err error, src *driver.Source) error {
	fmt.Fprintln(c.stderr, driver.Diagnose(err, src))
	return &exitError{code: 1}
}
