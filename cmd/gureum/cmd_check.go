package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gureum/interpreter-go/pkg/driver"
	"gureum/interpreter-go/pkg/typechecker"
)

type checkFlags struct {
	lenient bool
}

func (c *cli) checkCmd() *cobra.Command {
	flags := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Report statically detectable errors without running",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.checkEntry(cmd, args, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.lenient, "lenient-arity", false, "do not report calls with the wrong number of arguments")
	return cmd
}

func (c *cli) checkEntry(cmd *cobra.Command, paths []string, flags *checkFlags) error {
	manifest, parseOpts, _, err := projectOptions()
	if err != nil {
		return err
	}
	var checkOpts []typechecker.Option
	if manifest != nil {
		checkOpts = manifest.Interpreter.CheckOptions()
	}
	if cmd.Flags().Changed("lenient-arity") {
		checkOpts = append(checkOpts, typechecker.WithStrictArity(!flags.lenient))
	}

	failed := false
	for _, path := range paths {
		src, err := driver.LoadSource(path)
		if err != nil {
			return err
		}
		diags, err := src.Check(parseOpts, checkOpts...)
		if err != nil {
			fmt.Fprintln(c.stderr, driver.Diagnose(err, src))
			failed = true
			continue
		}
		for _, diag := range diags {
			fmt.Fprintln(c.stderr, driver.Diagnose(diag, src))
		}
		if len(diags) > 0 {
			failed = true
			continue
		}
		fmt.Fprintf(c.stdout, "ok   %s\n", src.Name)
	}
	if failed {
		return &exitError{code: 1}
	}
	return nil
}
