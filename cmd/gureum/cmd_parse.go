package main

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/driver"
)

type parseFlags struct {
	json bool
	sexp bool
	dump bool
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (c *cli) parseCmd() *cobra.Command {
	flags := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.parseEntry(args[0], flags)
		},
	}
	cmd.Flags().BoolVar(&flags.json, "json", false, "print the tree as JSON")
	cmd.Flags().BoolVar(&flags.sexp, "sexp", false, "print the tree as s-expressions (default)")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "print the Go structures of the tree")
	cmd.MarkFlagsMutuallyExclusive("json", "sexp", "dump")
	return cmd
}

func (c *cli) parseEntry(path string, flags *parseFlags) error {
	_, parseOpts, _, err := projectOptions()
	if err != nil {
		return err
	}
	src, err := driver.LoadSource(path)
	if err != nil {
		return err
	}
	program, err := src.Parse(parseOpts...)
	if err != nil {
		return c.reportError(err, src)
	}
	switch {
	case flags.json:
		data, err := json.MarshalIndent(program, "", "  ")
		if err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
		fmt.Fprintln(c.stdout, string(data))
	case flags.dump:
		dumpConfig.Fdump(c.stdout, program)
	default:
		fmt.Fprintln(c.stdout, ast.Sexp(program))
	}
	return nil
}
