package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/KosOrKosm/simple-shell-unix/core/config"
	"github.com/KosOrKosm/simple-shell-unix/core/logger"
	"github.com/KosOrKosm/simple-shell-unix/core/shell"
)

var errColor = color.New(color.FgRed, color.Bold)

// Shell drives the read-interpret loop: it reads one line per turn,
// turns it into an execution plan and realizes the plan as processes.
//
// The one-slot !! history lives here, not in a package variable, so
// each Shell owns its own replay state.
type Shell struct {
	Config   *config.Configuration
	Readline *readline.Instance
	Events   *logger.SessionLogger

	stderr   io.Writer
	lastLine string
	jobs     sync.WaitGroup
}

// NewShell builds an interactive shell reading from the terminal.
func NewShell(cfg *config.Configuration, events *logger.SessionLogger) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		// The interpreter keeps its own one-slot history for !!.
		HistoryLimit: -1,
	})
	if err != nil {
		return nil, err
	}

	return &Shell{
		Config:   cfg,
		Readline: rl,
		Events:   events,
		// The instance redraws the prompt around writes.
		stderr: rl,
	}, nil
}

// NewBatchShell builds a non-interactive shell for `osh exec`.
func NewBatchShell(cfg *config.Configuration, events *logger.SessionLogger, stderr io.Writer) *Shell {
	return &Shell{
		Config: cfg,
		Events: events,
		stderr: stderr,
	}
}

// Run reads and interprets lines until exit or end of input.
func (s *Shell) Run() error {
	defer s.Close()

	for {
		line, err := s.Readline.Readline()
		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			return err
		}

		if s.Interpret(line) {
			return nil
		}
	}
}

// Interpret runs one line of input. It reports every error to the
// operator and never aborts the session; the return value is true only
// for the exit command.
func (s *Shell) Interpret(line string) (exit bool) {
	tokens, err := shell.Split(line, s.Config.MaxTokens)
	if err != nil {
		// Truncated, not fatal: warn and interpret what survived.
		s.report(err)
	}

	if len(tokens) == 0 {
		s.report(shell.ErrEmptyCommand)
		return false
	}

	switch tokens[0] {
	case "exit", "exit()":
		return true
	}

	if len(tokens) == 1 && tokens[0] == "!!" {
		if s.lastLine == "" {
			s.report(shell.ErrNoHistory)
			return false
		}
		line = s.lastLine
		tokens, err = shell.Split(line, s.Config.MaxTokens)
		if err != nil {
			s.report(err)
		}
	} else if s.Config.HistoryEnabled {
		s.lastLine = line
	}

	plan, err := shell.BuildPlan(tokens)
	if err != nil {
		s.report(err)
		return false
	}

	runErr := s.RunPlan(plan)
	s.recordEvent(line, plan, runErr)
	if runErr != nil {
		s.report(runErr)
	}

	return false
}

// Close releases the terminal. Background jobs are left to run; their
// reapers finish on their own.
func (s *Shell) Close() error {
	if s.Readline != nil {
		return s.Readline.Close()
	}
	return nil
}

func (s *Shell) report(err error) {
	if s.shouldColor() {
		fmt.Fprintln(s.stderr, errColor.Sprintf("osh: %v", err))
		return
	}
	fmt.Fprintf(s.stderr, "osh: %v\n", err)
}

func (s *Shell) shouldColor() bool {
	switch s.Config.Color {
	case config.ColorNever:
		return false
	case config.ColorAlways:
		return true
	default:
		return isatty.IsTerminal(os.Stderr.Fd())
	}
}

func (s *Shell) recordEvent(line string, plan *shell.Plan, runErr error) {
	ev := &logger.CommandEvent{
		Line:       line,
		PipeTarget: plan.PipeTarget,
		Background: plan.Background,
	}
	if len(plan.ExecArgs) > 0 {
		ev.Program = plan.ExecArgs[0]
	}
	if runErr != nil {
		ev.Error = runErr.Error()
	}

	if err := s.Events.RecordCommand(ev); err != nil {
		log.Printf("Error recording command event: %v", err)
	}
}
