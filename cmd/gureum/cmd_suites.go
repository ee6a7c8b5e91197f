package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"gureum/interpreter-go/pkg/driver"
	"gureum/interpreter-go/pkg/typechecker"
)

type testFlags struct {
	concurrency int
	verbose     bool
}

func (c *cli) testCmd() *cobra.Command {
	flags := &testFlags{}
	cmd := &cobra.Command{
		Use:   "test [DIR...]",
		Short: "Run fixture suites",
		Long: `Runs every suite file (*.yml, *.yaml) in each DIR. Without DIR the suites
listed in gureum.yml are run, fetching git suites into the cache first.
Exits with status 1 when any case fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.testEntry(cmd, args, flags)
		},
	}
	cmd.Flags().IntVarP(&flags.concurrency, "concurrency", "j", 0, "cases evaluated at once, 0 for GOMAXPROCS")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every case")
	return cmd
}

func (c *cli) testEntry(cmd *cobra.Command, args []string, flags *testFlags) error {
	manifest, parseOpts, evalOpts, err := projectOptions()
	if err != nil {
		return err
	}
	dirs := args
	if len(dirs) == 0 {
		if manifest == nil {
			return fmt.Errorf("test requires a suite directory (%v)", errManifestNotFound)
		}
		if dirs, err = resolveSuiteDirs(cmd, manifest); err != nil {
			return err
		}
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no suites to run")
	}

	var checkOpts []typechecker.Option
	if manifest != nil {
		checkOpts = manifest.Interpreter.CheckOptions()
	}

	var passed, failed, skipped int
	for _, dir := range dirs {
		suites, err := driver.LoadSuites(dir)
		if err != nil {
			return err
		}
		for _, suite := range suites {
			report, err := driver.RunSuite(cmd.Context(), suite, driver.RunOptions{
				ParseOptions: parseOpts,
				EvalOptions:  evalOpts,
				CheckOptions: checkOpts,
				Concurrency:  flags.concurrency,
			})
			if err != nil {
				return err
			}
			p, f, s := c.printReport(report, flags.verbose)
			passed, failed, skipped = passed+p, failed+f, skipped+s
		}
	}
	fmt.Fprintf(c.stdout, "%d passed, %d failed, %d skipped\n", passed, failed, skipped)
	if failed > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func (c *cli) printReport(report driver.Report, verbose bool) (passed, failed, skipped int) {
	for _, res := range report.Results {
		switch {
		case res.Skipped:
			skipped++
		case res.Failure != nil:
			failed++
		default:
			passed++
		}
	}
	status := "ok  "
	if failed > 0 {
		status = "FAIL"
	}
	fmt.Fprintf(c.stdout, "%s %s (%d cases)\n", status, report.Suite, len(report.Results))
	for _, res := range report.Results {
		switch {
		case res.Failure != nil:
			fmt.Fprintf(c.stdout, "    --- FAIL %s: %s\n", res.Name, res.Failure.Reason)
		case !verbose:
		case res.Skipped:
			fmt.Fprintf(c.stdout, "    --- SKIP %s\n", res.Name)
		default:
			fmt.Fprintf(c.stdout, "    --- PASS %s (%s)\n", res.Name, res.Duration)
		}
	}
	return passed, failed, skipped
}

// resolveSuiteDirs maps the manifest's suite entries to directories,
// fetching git-hosted suites on the way.
func resolveSuiteDirs(cmd *cobra.Command, manifest *driver.Manifest) ([]string, error) {
	cache, err := driver.HomeDir()
	if err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(manifest.Suites))
	for _, spec := range manifest.Suites {
		dir, err := driver.FetchSuites(cmd.Context(), manifest.Dir(), cache, spec)
		if err != nil {
			return nil, err
		}
		dirs = append(dirs, dir)
	}
	return dirs, nil
}

func (c *cli) fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Clone the git-hosted suites listed in gureum.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := loadManifestFrom(".")
			if err != nil {
				return err
			}
			cache, err := driver.HomeDir()
			if err != nil {
				return err
			}
			fetched := 0
			for _, spec := range manifest.Suites {
				if !spec.IsGit() {
					continue
				}
				dir, err := driver.FetchSuites(cmd.Context(), manifest.Dir(), cache, spec)
				if err != nil {
					return err
				}
				rel, relErr := filepath.Rel(cache, dir)
				if relErr != nil {
					rel = dir
				}
				fmt.Fprintf(c.stdout, "%s -> %s\n", spec.Git, rel)
				fetched++
			}
			if fetched == 0 {
				fmt.Fprintln(c.stdout, "no git suites in", manifest.Path)
			}
			return nil
		},
	}
}
