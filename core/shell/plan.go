package shell

import (
	"fmt"
	"strings"
)

// Direction says which standard descriptor a redirect replaces.
type Direction int

const (
	// In replaces standard input with a file opened for reading.
	In Direction = iota
	// Out replaces standard output with a created/truncated file.
	Out
)

func (d Direction) String() string {
	if d == In {
		return "stdin"
	}
	return "stdout"
}

// Redirect names the file a standard descriptor is swapped with.
type Redirect struct {
	Direction Direction
	// Path may be empty when the redirect token was the last token on
	// the line; execution then fails with ErrMissingPath.
	Path string
}

// Plan is the execution plan derived from one line's tokens: what to
// run, where its input/output go, and whether the interpreter waits.
//
// At most one Redirect and at most one PipeTarget may be set; BuildPlan
// enforces this and returns no plan at all on violation.
type Plan struct {
	// ExecArgs holds the program name and its arguments, control
	// tokens excluded.
	ExecArgs []string
	// Redirect is nil when the command uses the interpreter's own
	// descriptors.
	Redirect *Redirect
	// PipeTarget, when non-empty, names a program spawned with no
	// arguments reading the primary program's output.
	PipeTarget string
	// Background skips the foreground wait.
	Background bool
}

// BuildPlan scans tokens left to right, classifying each as a control
// token or a program argument. Scanning stops on the first structural
// error and the partial plan is discarded.
//
// Tokens consumed as redirect paths or pipe targets are never
// reinterpreted as control tokens.
func BuildPlan(tokens []string) (*Plan, error) {
	plan := &Plan{}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(tok, "<") || strings.HasPrefix(tok, ">"):
			if plan.Redirect != nil {
				return nil, ErrDuplicateRedirect
			}
			redirect := &Redirect{Direction: Out}
			if tok[0] == '<' {
				redirect.Direction = In
			}
			if i+1 < len(tokens) {
				i++
				redirect.Path = tokens[i]
			}
			plan.Redirect = redirect

		case tok == "|":
			if plan.PipeTarget != "" {
				return nil, ErrDuplicatePipe
			}
			if i+1 < len(tokens) {
				i++
				plan.PipeTarget = tokens[i]
			}

		case tok == "&":
			plan.Background = true

		default:
			plan.ExecArgs = append(plan.ExecArgs, tok)
		}
	}

	return plan, nil
}

// Describe renders the plan for the --plan debug flag and for golden
// tests. The output is stable across runs.
func (p *Plan) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "exec: %s\n", strings.Join(p.ExecArgs, " "))
	if p.Redirect != nil {
		op := ">"
		if p.Redirect.Direction == In {
			op = "<"
		}
		fmt.Fprintf(&b, "redirect: %s %s %s\n", p.Redirect.Direction, op, p.Redirect.Path)
	}
	if p.PipeTarget != "" {
		fmt.Fprintf(&b, "pipe: | %s\n", p.PipeTarget)
	}
	fmt.Fprintf(&b, "wait: %t\n", !p.Background)
	return b.String()
}
