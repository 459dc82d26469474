package formatting

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"testtrail/internal/recorder"
)

// testEnv is what a filter expression sees for each test.
type testEnv struct {
	Test     string   `expr:"test"`
	Commands []string `expr:"commands"`
	Error    string   `expr:"error"`
	Failed   bool     `expr:"failed"`
}

// Filter keeps the tests of a report an expression holds for, for example
// `failed` or `len(commands) > 3 && test contains "checkout"`.
type Filter struct {
	program *vm.Program
}

// NewFilter compiles expression. The expression must evaluate to a bool.
func NewFilter(expression string) (*Filter, error) {
	program, err := expr.Compile(expression, expr.Env(testEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}
	return &Filter{program: program}, nil
}

// Apply returns a copy of report holding only the matching tests.
func (f *Filter) Apply(report recorder.SpecReport) (recorder.SpecReport, error) {
	out := recorder.SpecReport{Spec: report.Spec, Tests: []recorder.TestProjection{}}
	for _, t := range report.Tests {
		env := testEnv{
			Test:     t.Test,
			Commands: t.Commands,
			Error:    t.Error,
			Failed:   t.Error != "",
		}
		keep, err := expr.Run(f.program, env)
		if err != nil {
			return recorder.SpecReport{}, fmt.Errorf("filter failed on %q: %w", t.Test, err)
		}
		if keep.(bool) {
			out.Tests = append(out.Tests, t)
		}
	}
	return out, nil
}
