package core

import (
	"golang.org/x/sys/unix"

	"github.com/KosOrKosm/simple-shell-unix/core/shell"
)

// RedirectGuard holds a duplicate of a descriptor's prior target so a
// scoped redirection can be undone. Restore must run on every exit path
// once the redirected process has been launched; defer makes that hold
// for success, spawn failure and mid-scan errors alike.
type RedirectGuard struct {
	saved int
	dest  int
}

// redirectFd duplicates dest's current target for later restoration,
// then makes dest refer to the same open file as source.
func redirectFd(source, dest int) (*RedirectGuard, error) {
	saved, err := unix.Dup(dest)
	if err != nil {
		return nil, &shell.RedirectError{Err: err}
	}
	// The saved copy is bookkeeping for this process only; children
	// must not inherit it.
	unix.CloseOnExec(saved)

	if err := unix.Dup2(source, dest); err != nil {
		unix.Close(saved)
		return nil, &shell.RedirectError{Err: err}
	}

	return &RedirectGuard{saved: saved, dest: dest}, nil
}

// redirectToFile opens path and swaps it in for the dest descriptor.
// Standard input targets are opened read-only; standard output targets
// are created or truncated with owner read-write permission. The opened
// descriptor is closed once dest refers to it.
func redirectToFile(path string, dest int) (*RedirectGuard, error) {
	if path == "" {
		return nil, shell.ErrMissingPath
	}

	flags := unix.O_WRONLY | unix.O_CREAT | unix.O_TRUNC
	if dest == unix.Stdin {
		flags = unix.O_RDONLY
	}

	fd, err := unix.Open(path, flags, 0600)
	if err != nil {
		return nil, &shell.FileOpenError{Path: path, Err: err}
	}

	guard, err := redirectFd(fd, dest)
	unix.Close(fd)
	return guard, err
}

// Restore re-points the redirected descriptor at its saved target and
// releases the saved copy. Safe to call more than once and on nil.
func (g *RedirectGuard) Restore() error {
	if g == nil || g.saved < 0 {
		return nil
	}

	err := unix.Dup2(g.saved, g.dest)
	unix.Close(g.saved)
	g.saved = -1

	if err != nil {
		return &shell.RedirectError{Err: err}
	}
	return nil
}
