package core

import (
	"errors"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"github.com/KosOrKosm/simple-shell-unix/core/shell"
)

// RunPlan realizes an execution plan as one or two operating system
// processes. Every failure aborts only this command; the interpreter
// keeps running.
func (s *Shell) RunPlan(plan *shell.Plan) error {
	if len(plan.ExecArgs) == 0 {
		return shell.ErrEmptyCommand
	}

	if plan.PipeTarget != "" {
		return s.runPiped(plan)
	}
	return s.runSimple(plan)
}

// runSimple spawns a single process, applying any file redirection to
// the interpreter's own descriptors first so the child inherits them.
func (s *Shell) runSimple(plan *shell.Plan) error {
	guard, err := applyRedirect(plan)
	if err != nil {
		return err
	}
	defer guard.Restore()

	cmd, err := command(plan.ExecArgs)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return &shell.SpawnError{Program: plan.ExecArgs[0], Err: err}
	}

	if plan.Background {
		s.detach(cmd)
		return nil
	}

	reap(cmd)
	return nil
}

// runPiped spawns the primary program and the pipe target connected by
// a kernel pipe. Both are started before either is waited on so the
// pair runs concurrently with the pipe buffer absorbing the handoff.
func (s *Shell) runPiped(plan *shell.Plan) error {
	guard, err := applyRedirect(plan)
	if err != nil {
		return err
	}
	defer guard.Restore()

	// Locate both images before spawning either so a missing target
	// never leaves a half-built pipeline running.
	src, err := command(plan.ExecArgs)
	if err != nil {
		return err
	}
	dst, err := command([]string{plan.PipeTarget})
	if err != nil {
		return err
	}

	r, w, err := os.Pipe()
	if err != nil {
		return &shell.RedirectError{Err: err}
	}

	src.Stdout = w
	dst.Stdin = r

	if err := src.Start(); err != nil {
		r.Close()
		w.Close()
		return &shell.SpawnError{Program: plan.ExecArgs[0], Err: err}
	}
	if err := dst.Start(); err != nil {
		// Don't leave the writer blocked on a pipe nobody will read.
		w.Close()
		r.Close()
		src.Process.Kill()
		reap(src)
		return &shell.SpawnError{Program: plan.PipeTarget, Err: err}
	}

	// Each child holds its own copy of the end it uses; closing ours
	// is what lets the reader see end-of-stream when the writer exits.
	w.Close()
	r.Close()

	if plan.Background {
		s.detach(src, dst)
		return nil
	}

	reap(src, dst)
	return nil
}

// command prepares a process wired to the interpreter's descriptors.
// A program that cannot be located is reported, not fatal.
func command(args []string) (*exec.Cmd, error) {
	path, err := exec.LookPath(args[0])
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &shell.ProgramNotFoundError{Program: args[0]}
		}
		return nil, &shell.SpawnError{Program: args[0], Err: err}
	}

	cmd := exec.Command(path)
	cmd.Args = args
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// applyRedirect swaps in the plan's file redirection, if any. The
// returned guard is nil-safe to Restore.
func applyRedirect(plan *shell.Plan) (*RedirectGuard, error) {
	if plan.Redirect == nil {
		return nil, nil
	}

	dest := unix.Stdout
	if plan.Redirect.Direction == shell.In {
		dest = unix.Stdin
	}
	return redirectToFile(plan.Redirect.Path, dest)
}

// reap waits for foreground processes. A process's own non-zero exit
// status is its business, not an interpreter error.
func reap(cmds ...*exec.Cmd) {
	for _, cmd := range cmds {
		_ = cmd.Wait()
	}
}

// detach leaves background processes to run independently. Each gets a
// goroutine that collects its eventual exit status, so long sessions
// don't accumulate unreaped processes.
func (s *Shell) detach(cmds ...*exec.Cmd) {
	for _, cmd := range cmds {
		cmd := cmd
		s.jobs.Add(1)
		go func() {
			defer s.jobs.Done()
			_ = cmd.Wait()
		}()
	}
}
