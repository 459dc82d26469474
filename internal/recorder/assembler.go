package recorder

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"testtrail/internal/host"
	"testtrail/pkg/logging"
)

// DefaultSpecRoots are the test-root prefixes removed from spec paths.
var DefaultSpecRoots = []string{
	"cypress/e2e",
	"cypress/integration",
	"cypress/component",
}

// DefaultSpecExtensions are the suffixes removed from spec paths. Longer
// suffixes come first so ".cy.js" wins over ".js".
var DefaultSpecExtensions = []string{
	".cy.js", ".cy.ts", ".cy.jsx", ".cy.tsx",
	".spec.js", ".spec.ts", ".test.js", ".test.ts",
	".js", ".ts", ".jsx", ".tsx", ".coffee",
}

// Layout selects how report files are laid out under the logs directory.
type Layout string

const (
	// LayoutSpec writes one file per spec, mirroring the spec tree.
	LayoutSpec Layout = "spec"
	// LayoutTest writes one file per test, named after spec and test.
	LayoutTest Layout = "test"
)

// Assembler builds test records at the close of a test.
type Assembler struct {
	roots []string
	exts  []string
}

// NewAssembler creates an assembler. Nil roots or extensions select the
// defaults.
func NewAssembler(roots, exts []string) *Assembler {
	if roots == nil {
		roots = DefaultSpecRoots
	}
	if exts == nil {
		exts = DefaultSpecExtensions
	}
	return &Assembler{roots: roots, exts: exts}
}

// Assemble combines the test identity, its failure and the drained commands.
func (a *Assembler) Assemble(test host.TestInfo, spec host.SpecInfo, commands []CommandLogEntry, attempt int) TestRecord {
	if commands == nil {
		commands = make([]CommandLogEntry, 0)
	}

	var suite *string
	if test.ParentTitle != nil && *test.ParentTitle != "" {
		s := *test.ParentTitle
		suite = &s
	}

	var errText *string
	if msg := ErrorText(test); msg != "" {
		errText = &msg
	}

	return TestRecord{
		SpecName:  a.SpecName(spec),
		SuiteName: suite,
		TestName:  test.QualifiedName(),
		Title:     test.Title,
		Error:     errText,
		Commands:  commands,
		Attempt:   attempt,
	}
}

// SpecName returns the normalized name of spec.
func (a *Assembler) SpecName(spec host.SpecInfo) string {
	p := spec.Relative
	if p == "" {
		p = spec.Name
	}
	name, rooted := normalizeSpecName(p, a.roots, a.exts)
	if !rooted && isAbsPath(p) {
		logging.Warn(subsystem, "spec %s is outside every spec root, reporting it as %s", p, name)
	}
	return name
}

// ErrorText returns the failure message of test. Tests that passed or never
// ran have none.
func ErrorText(test host.TestInfo) string {
	switch test.State {
	case host.TestPassed, host.TestPending, host.TestSkipped:
		return ""
	}
	if test.Err == nil {
		return ""
	}
	return test.Err.Message
}

// NormalizeSpecName strips test-root prefixes and spec extensions from p and
// converts it to forward slashes. A root found further down the path, as in
// an absolute path, drops everything up to and including it. Applying it
// twice gives the same result.
func NormalizeSpecName(p string, roots, exts []string) string {
	name, _ := normalizeSpecName(p, roots, exts)
	return name
}

func normalizeSpecName(p string, roots, exts []string) (string, bool) {
	name := strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if name == "" {
		return "", false
	}
	name = cleanSlash(name)

	rooted := false
	for changed := true; changed; {
		changed = false
		for _, root := range roots {
			prefix := strings.Trim(strings.ReplaceAll(root, `\`, "/"), "/") + "/"
			if prefix == "/" {
				continue
			}
			if strings.HasPrefix(name, prefix) {
				name = strings.TrimPrefix(name, prefix)
				changed, rooted = true, true
			} else if i := strings.Index(name, "/"+prefix); i >= 0 {
				name = name[i+len(prefix)+1:]
				changed, rooted = true, true
			}
		}
		for _, ext := range exts {
			if ext != "" && strings.HasSuffix(name, ext) && len(name) > len(ext) {
				name = strings.TrimSuffix(name, ext)
				changed = true
				break
			}
		}
		if changed {
			name = cleanSlash(name)
		}
	}
	if name == "." {
		return "", rooted
	}
	return name, rooted
}

func isAbsPath(p string) bool {
	p = strings.ReplaceAll(p, `\`, "/")
	return strings.HasPrefix(p, "/") || filepath.IsAbs(p) || (len(p) > 2 && p[1] == ':' && p[2] == '/')
}

func cleanSlash(name string) string {
	return strings.TrimLeft(path.Clean(name), "/")
}

// ReportPath returns the report file for a spec and test under logsDir.
func ReportPath(logsDir string, layout Layout, specName, testName string) (string, error) {
	if specName == "" {
		return "", fmt.Errorf("%w: empty spec name", ErrInvalidReportPath)
	}

	var rel string
	switch layout {
	case LayoutTest:
		base := specName
		if i := strings.Index(base, "."); i > 0 {
			base = base[:i]
		}
		rel = CleanFilename(base+"-"+testName) + ".json"
	default:
		rel = filepath.FromSlash(specName) + ".json"
	}

	full := filepath.Join(logsDir, rel)
	within, err := filepath.Rel(filepath.Clean(logsDir), full)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes %q", ErrInvalidReportPath, specName, logsDir)
	}
	return full, nil
}
