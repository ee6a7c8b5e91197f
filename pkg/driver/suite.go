package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	goruntime "runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"fortio.org/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"gureum/interpreter-go/pkg/ast"
	"gureum/interpreter-go/pkg/interpreter"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/runtime"
	"gureum/interpreter-go/pkg/typechecker"
)

// Suite is a YAML file of programs paired with their expected outcome.
type Suite struct {
	Path        string            `yaml:"-"`
	Name        string            `yaml:"suite"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Cases       []Case            `yaml:"cases"`
}

// Case is one program of a suite.
type Case struct {
	Name   string      `yaml:"name"`
	Source string      `yaml:"source"`
	Skip   bool        `yaml:"skip"`
	Expect Expectation `yaml:"expect"`
}

// Expectation describes a successful result by kind and display string, or
// a failure by error code and, optionally, range as
// [row, col, endRow, endCol]. Diagnostics, when present, lists the static
// checker codes the source must produce, in order.
type Expectation struct {
	Kind        string   `yaml:"kind"`
	Display     *string  `yaml:"display"`
	Error       string   `yaml:"error"`
	Range       []int    `yaml:"range"`
	Diagnostics []string `yaml:"diagnostics"`
}

// CaseFailure explains why a case did not meet its expectation.
type CaseFailure struct {
	Suite  string
	Case   string
	Reason string
}

func (f *CaseFailure) Error() string {
	return fmt.Sprintf("%s/%s: %s", f.Suite, f.Case, f.Reason)
}

// CaseResult is the outcome of one case. Failure is nil when it passed.
type CaseResult struct {
	Name     string
	Skipped  bool
	Display  string
	Failure  *CaseFailure
	Duration time.Duration
}

// Report collects case results in suite order.
type Report struct {
	Suite   string
	Path    string
	Results []CaseResult
}

// Failures returns the failed cases.
func (r Report) Failures() []*CaseFailure {
	var out []*CaseFailure
	for _, res := range r.Results {
		if res.Failure != nil {
			out = append(out, res.Failure)
		}
	}
	return out
}

// Passed counts cases that ran and met their expectation.
func (r Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Failure == nil && !res.Skipped {
			n++
		}
	}
	return n
}

// Err joins every failure, or returns nil when the suite passed.
func (r Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	errs := make([]error, len(failures))
	for i, f := range failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// RunOptions configures RunSuite. Suite-level interpreter settings are
// applied after these and win.
type RunOptions struct {
	ParseOptions []parser.Option
	EvalOptions  []interpreter.Option
	CheckOptions []typechecker.Option
	// Concurrency bounds the cases evaluated at once; zero means GOMAXPROCS.
	Concurrency int
}

// LoadSuite decodes and validates one suite file.
func LoadSuite(path string) (*Suite, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var suite Suite
	if err := decoder.Decode(&suite); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite: %s is empty", path)
		}
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	suite.Path = path
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := suite.validate(); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	return &suite, nil
}

// LoadSuites loads every *.yml and *.yaml file directly inside dir, sorted
// by file name. The project manifest is not a suite and is skipped.
func LoadSuites(dir string) ([]*Suite, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("suite: read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == ManifestFileName {
			continue
		}
		if ext := filepath.Ext(name); ext == ".yml" || ext == ".yaml" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	suites := make([]*Suite, 0, len(names))
	for _, name := range names {
		suite, err := LoadSuite(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		suites = append(suites, suite)
	}
	return suites, nil
}

// RunSuite evaluates every case of suite, each against its own interpreter
// and root environment. Cases run concurrently; results keep suite order.
// The error is non-nil only when ctx ends before all cases ran.
func RunSuite(ctx context.Context, suite *Suite, opts RunOptions) (Report, error) {
	report := Report{Suite: suite.Name, Path: suite.Path, Results: make([]CaseResult, len(suite.Cases))}
	parseOpts, evalOpts := suite.Interpreter.Options()
	parseOpts = append(append([]parser.Option{}, opts.ParseOptions...), parseOpts...)
	evalOpts = append(append([]interpreter.Option{}, opts.EvalOptions...), evalOpts...)
	checkOpts := append(append([]typechecker.Option{}, opts.CheckOptions...), suite.Interpreter.CheckOptions()...)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = goruntime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for idx := range suite.Cases {
		c := &suite.Cases[idx]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Results[idx] = runCase(suite.Name, c, parseOpts, evalOpts, checkOpts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("suite %s: %w", suite.Name, err)
	}
	log.Infof("suite %s: %d/%d passed", suite.Name, report.Passed(), len(suite.Cases))
	return report, nil
}

func runCase(suiteName string, c *Case, parseOpts []parser.Option, evalOpts []interpreter.Option, checkOpts []typechecker.Option) CaseResult {
	result := CaseResult{Name: c.Name}
	if c.Skip {
		result.Skipped = true
		return result
	}
	start := time.Now()
	src := NewSource(suiteName+"/"+c.Name, c.Source)
	val, err := src.Run(parseOpts, evalOpts)
	result.Duration = time.Since(start)
	if val != nil {
		result.Display = val.Display()
	}
	reason := c.Expect.check(val, err)
	if reason == "" && c.Expect.Diagnostics != nil {
		reason = c.Expect.checkDiagnostics(src, parseOpts, checkOpts)
	}
	if reason != "" {
		result.Failure = &CaseFailure{Suite: suiteName, Case: c.Name, Reason: reason}
		log.LogVf("suite %s: case %s failed: %s", suiteName, c.Name, reason)
	}
	return result
}

func (e Expectation) check(val runtime.Value, err error) string {
	if e.Error != "" {
		if err == nil {
			return fmt.Sprintf("expected error %s, got %s %q", e.Error, val.Kind(), val.Display())
		}
		diag, ok := DiagnosticFor(err)
		if !ok {
			return fmt.Sprintf("expected error %s, got %v", e.Error, err)
		}
		if diag.Code != e.Error {
			return fmt.Sprintf("expected error %s, got %s: %s", e.Error, diag.Code, diag.Message)
		}
		if len(e.Range) == 4 {
			want := ast.Rng(e.Range[0], e.Range[1], e.Range[2], e.Range[3])
			if diag.Range != want {
				return fmt.Sprintf("expected error range %s, got %s", want, diag.Range)
			}
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("unexpected error: %v", err)
	}
	if e.Kind != "" && val.Kind().String() != e.Kind {
		return fmt.Sprintf("expected %s, got %s %q", e.Kind, val.Kind(), val.Display())
	}
	if e.Display != nil && val.Display() != *e.Display {
		return fmt.Sprintf("expected display %q, got %q", *e.Display, val.Display())
	}
	return ""
}

func (e Expectation) checkDiagnostics(src *Source, parseOpts []parser.Option, checkOpts []typechecker.Option) string {
	diags, err := src.Check(parseOpts, checkOpts...)
	if err != nil {
		return fmt.Sprintf("check failed: %v", err)
	}
	codes := make([]string, len(diags))
	for i, d := range diags {
		codes[i] = d.Code
	}
	if !slices.Equal(codes, e.Diagnostics) {
		return fmt.Sprintf("expected diagnostics %v, got %v", e.Diagnostics, codes)
	}
	return ""
}

var valueKinds = map[string]bool{
	runtime.KindNumber.String():    true,
	runtime.KindBoolean.String():   true,
	runtime.KindString.String():    true,
	runtime.KindEmpty.String():     true,
	runtime.KindFunction.String():  true,
	runtime.KindUndefined.String(): true,
}

var syntaxCodes = map[string]bool{
	parser.UnexpectedToken.String(): true,
	parser.ExpectedToken.String():   true,
	parser.NestingTooDeep.String():  true,
	parser.LexicalError.String():    true,
}

func (s *Suite) validate() error {
	var errs ValidationError
	seen := make(map[string]bool, len(s.Cases))
	if len(s.Cases) == 0 {
		errs.Issues = append(errs.Issues, "cases must not be empty")
	}
	for i, c := range s.Cases {
		label := fmt.Sprintf("cases[%d]", i)
		if c.Name == "" {
			errs.Issues = append(errs.Issues, label+": name must be provided")
		} else if seen[c.Name] {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: duplicate case name %q", label, c.Name))
		}
		seen[c.Name] = true

		exp := c.Expect
		if exp.Kind == "" && exp.Display == nil && exp.Error == "" {
			errs.Issues = append(errs.Issues, label+": expect needs kind, display or error")
		}
		if exp.Error != "" && (exp.Kind != "" || exp.Display != nil) {
			errs.Issues = append(errs.Issues, label+": error cannot be combined with kind or display")
		}
		if exp.Kind != "" && !valueKinds[exp.Kind] {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: unknown kind %q", label, exp.Kind))
		}
		if exp.Error != "" && !syntaxCodes[exp.Error] && interpreter.ErrorKinds[exp.Error] == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: unknown error %q", label, exp.Error))
		}
		if exp.Range != nil && (len(exp.Range) != 4 || exp.Error == "") {
			errs.Issues = append(errs.Issues, label+": range must be [row, col, endRow, endCol] next to error")
		}
		for _, code := range exp.Diagnostics {
			if code != typechecker.CodeUnreachable && interpreter.ErrorKinds[code] == nil {
				errs.Issues = append(errs.Issues, fmt.Sprintf("%s: unknown diagnostic %q", label, code))
			}
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
