package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gureum/interpreter-go/pkg/driver"
	"gureum/interpreter-go/pkg/interpreter"
)

type runFlags struct {
	lenient      bool
	maxCallDepth int
}

func (c *cli) runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Evaluate a program and print its result",
		Long: `Evaluates FILE and prints the display string of its last statement.
Without FILE the main entry of the nearest gureum.yml is run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEntry(cmd, args, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.lenient, "lenient-arity", false, "bind missing arguments to undefined instead of failing")
	cmd.Flags().IntVar(&flags.maxCallDepth, "max-call-depth", interpreter.DefaultMaxCallDepth, "maximum nested calls, 0 for no limit")
	return cmd
}

func (c *cli) runEntry(cmd *cobra.Command, args []string, flags *runFlags) error {
	manifest, parseOpts, evalOpts, err := projectOptions()
	if err != nil {
		return err
	}
	var path string
	switch {
	case len(args) == 1:
		path = args[0]
	case manifest == nil:
		return fmt.Errorf("run requires a source file (%v)", errManifestNotFound)
	case manifest.Main == "":
		return fmt.Errorf("%s has no main entry", manifest.Path)
	default:
		path = manifest.MainPath()
	}
	if cmd.Flags().Changed("lenient-arity") {
		evalOpts = append(evalOpts, interpreter.WithStrictArity(!flags.lenient))
	}
	if cmd.Flags().Changed("max-call-depth") {
		evalOpts = append(evalOpts, interpreter.WithMaxCallDepth(flags.maxCallDepth))
	}

	src, err := driver.LoadSource(path)
	if err != nil {
		return err
	}
	val, err := src.Run(parseOpts, evalOpts)
	if err != nil {
		return c.reportError(err, src)
	}
	fmt.Fprintln(c.stdout, val.Display())
	return nil
}
