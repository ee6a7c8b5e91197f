package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"gureum/interpreter-go/pkg/interpreter"
	"gureum/interpreter-go/pkg/parser"
	"gureum/interpreter-go/pkg/typechecker"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "gureum.yml"

// Manifest represents the parsed contents of gureum.yml.
type Manifest struct {
	Path        string
	Name        string
	Main        string
	Interpreter InterpreterConfig
	Suites      []*SuiteSpec
}

// InterpreterConfig carries the evaluation limits a project runs with.
// Nil fields fall back to the package defaults.
type InterpreterConfig struct {
	StrictArity  *bool `yaml:"strict_arity"`
	MaxCallDepth *int  `yaml:"max_call_depth"`
	MaxNesting   *int  `yaml:"max_nesting"`
}

// SuiteSpec locates a directory of fixture suites, either on disk or in a
// git repository pinned by rev, tag or branch.
type SuiteSpec struct {
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// IsGit reports whether the suites live in a git repository.
func (s *SuiteSpec) IsGit() bool { return s != nil && s.Git != "" }

// ValidationError aggregates manifest and suite validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses gureum.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks up from dir looking for gureum.yml. It returns an
// empty path and no error when none exists.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(current, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// Dir is the directory holding the manifest; relative paths resolve
// against it.
func (m *Manifest) Dir() string { return filepath.Dir(m.Path) }

// Resolve joins a manifest-relative path onto the manifest directory.
func (m *Manifest) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Dir(), rel)
}

// MainPath is the absolute path of the entry source file, or empty.
func (m *Manifest) MainPath() string { return m.Resolve(m.Main) }

// Options translates the interpreter section into parse and evaluation
// options.
func (c InterpreterConfig) Options() ([]parser.Option, []interpreter.Option) {
	var parseOpts []parser.Option
	var evalOpts []interpreter.Option
	if c.MaxNesting != nil {
		parseOpts = append(parseOpts, parser.WithMaxDepth(*c.MaxNesting))
	}
	if c.StrictArity != nil {
		evalOpts = append(evalOpts, interpreter.WithStrictArity(*c.StrictArity))
	}
	if c.MaxCallDepth != nil {
		evalOpts = append(evalOpts, interpreter.WithMaxCallDepth(*c.MaxCallDepth))
	}
	return parseOpts, evalOpts
}

// CheckOptions returns the static checker settings matching Options.
func (c InterpreterConfig) CheckOptions() []typechecker.Option {
	if c.StrictArity == nil {
		return nil
	}
	return []typechecker.Option{typechecker.WithStrictArity(*c.StrictArity)}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Main != "" && !strings.HasSuffix(m.Main, SourceExtension) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be a %s file", m.Main, SourceExtension))
	}
	if d := m.Interpreter.MaxCallDepth; d != nil && *d < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_call_depth must not be negative")
	}
	if d := m.Interpreter.MaxNesting; d != nil && *d < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_nesting must not be negative")
	}
	for i, suite := range m.Suites {
		for _, issue := range suite.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("suites[%d]: %s", i, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *SuiteSpec) validate() []string {
	var issues []string
	if s.Git == "" {
		if s.Path == "" {
			issues = append(issues, "path or git must be provided")
		}
		if s.Rev != "" || s.Tag != "" || s.Branch != "" {
			issues = append(issues, "rev, tag and branch require git")
		}
		return issues
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		issues = append(issues, "only one of rev, tag or branch may be set")
	}
	if filepath.IsAbs(s.Path) || strings.HasPrefix(filepath.Clean(s.Path), "..") {
		issues = append(issues, fmt.Sprintf("path %q must stay inside the repository", s.Path))
	}
	return issues
}

type manifestFile struct {
	Name        string            `yaml:"name"`
	Main        string            `yaml:"main"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Suites      []suiteYAML       `yaml:"suites"`
}

type suiteYAML struct {
	spec SuiteSpec
}

// UnmarshalYAML accepts either a bare path or a mapping.
func (s *suiteYAML) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var path string
		if err := value.Decode(&path); err != nil {
			return err
		}
		s.spec = SuiteSpec{Path: path}
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: suite entries must be a path or a mapping (line %d)", value.Line)
	}
	var raw struct {
		Path   string `yaml:"path"`
		Git    string `yaml:"git"`
		Rev    string `yaml:"rev"`
		Tag    string `yaml:"tag"`
		Branch string `yaml:"branch"`
	}
	for i := 0; i < len(value.Content); i += 2 {
		switch key := value.Content[i].Value; key {
		case "path", "git", "rev", "tag", "branch":
		default:
			return fmt.Errorf("manifest: unknown suite field %q (line %d)", key, value.Content[i].Line)
		}
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s.spec = SuiteSpec{
		Path:   raw.Path,
		Git:    raw.Git,
		Rev:    raw.Rev,
		Tag:    raw.Tag,
		Branch: raw.Branch,
	}
	return nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	result := &Manifest{
		Path:        path,
		Name:        strings.TrimSpace(mf.Name),
		Main:        strings.TrimSpace(mf.Main),
		Interpreter: mf.Interpreter,
		Suites:      make([]*SuiteSpec, 0, len(mf.Suites)),
	}
	for _, item := range mf.Suites {
		spec := item.spec
		spec.Path = strings.TrimSpace(spec.Path)
		spec.Git = strings.TrimSpace(spec.Git)
		spec.Rev = strings.TrimSpace(spec.Rev)
		spec.Tag = strings.TrimSpace(spec.Tag)
		spec.Branch = strings.TrimSpace(spec.Branch)
		result.Suites = append(result.Suites, &spec)
	}
	return result
}

// HomeDir is the cache root for fetched suites and REPL history:
// $GUREUM_HOME, or ~/.gureum.
func HomeDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv("GUREUM_HOME")); home != "" {
		return filepath.Abs(home)
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(userHome, ".gureum"), nil
}
