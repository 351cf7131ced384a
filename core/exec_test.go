package core

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"

	"github.com/KosOrKosm/simple-shell-unix/core/config"
	"github.com/KosOrKosm/simple-shell-unix/core/shell"
)

func testShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	var stderr bytes.Buffer
	cfg := config.Default()
	cfg.Color = config.ColorNever
	return NewBatchShell(cfg, nil, &stderr), &stderr
}

// captureStdout redirects the test process's standard output into a
// file for the duration of the test body, then returns its contents.
func captureStdout(t *testing.T, body func()) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdout")

	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0600)
	if err != nil {
		t.Fatal(err)
	}
	defer unix.Close(fd)

	guard, err := redirectFd(fd, unix.Stdout)
	if err != nil {
		t.Fatal(err)
	}
	body()
	if err := guard.Restore(); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func TestRunSimpleOutputRedirect(t *testing.T) {
	s, _ := testShell(t)
	outPath := filepath.Join(t.TempDir(), "out.txt")

	err := s.RunPlan(&shell.Plan{
		ExecArgs: []string{"echo", "hi"},
		Redirect: &shell.Redirect{Direction: shell.Out, Path: outPath},
	})

	assert.NoError(t, err)
	contents, readErr := os.ReadFile(outPath)
	assert.NoError(t, readErr)
	assert.Equal(t, "hi\n", string(contents))
}

func TestRunSimpleOutputRedirectTruncates(t *testing.T) {
	s, _ := testShell(t)
	outPath := filepath.Join(t.TempDir(), "out.txt")
	assert.NoError(t, os.WriteFile(outPath, []byte("previous longer contents\n"), 0600))

	err := s.RunPlan(&shell.Plan{
		ExecArgs: []string{"echo", "hi"},
		Redirect: &shell.Redirect{Direction: shell.Out, Path: outPath},
	})

	assert.NoError(t, err)
	contents, readErr := os.ReadFile(outPath)
	assert.NoError(t, readErr)
	assert.Equal(t, "hi\n", string(contents))
}

func TestRunSimpleInputRedirect(t *testing.T) {
	s, _ := testShell(t)
	inPath := filepath.Join(t.TempDir(), "in.txt")
	assert.NoError(t, os.WriteFile(inPath, []byte("a\nb\nc\n"), 0600))

	out := captureStdout(t, func() {
		err := s.RunPlan(&shell.Plan{
			ExecArgs: []string{"wc", "-l"},
			Redirect: &shell.Redirect{Direction: shell.In, Path: inPath},
		})
		assert.NoError(t, err)
	})

	assert.Equal(t, "3", strings.TrimSpace(out))
}

func TestRunSimpleMissingRedirectPath(t *testing.T) {
	s, _ := testShell(t)

	err := s.RunPlan(&shell.Plan{
		ExecArgs: []string{"echo", "hi"},
		Redirect: &shell.Redirect{Direction: shell.Out},
	})

	assert.ErrorIs(t, err, shell.ErrMissingPath)
}

func TestRunSimpleProgramNotFound(t *testing.T) {
	s, _ := testShell(t)

	err := s.RunPlan(&shell.Plan{ExecArgs: []string{"no-such-program-osh-test"}})

	var notFound *shell.ProgramNotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no-such-program-osh-test", notFound.Program)
}

func TestRunSimpleMissingInputFile(t *testing.T) {
	s, _ := testShell(t)

	err := s.RunPlan(&shell.Plan{
		ExecArgs: []string{"wc"},
		Redirect: &shell.Redirect{Direction: shell.In, Path: filepath.Join(t.TempDir(), "absent")},
	})

	var openErr *shell.FileOpenError
	assert.ErrorAs(t, err, &openErr)
}

func TestRunPlanEmptyCommand(t *testing.T) {
	s, _ := testShell(t)

	err := s.RunPlan(&shell.Plan{})

	assert.ErrorIs(t, err, shell.ErrEmptyCommand)
}

func TestRunPiped(t *testing.T) {
	s, _ := testShell(t)

	out := captureStdout(t, func() {
		err := s.RunPlan(&shell.Plan{
			ExecArgs:   []string{"echo", "one two"},
			PipeTarget: "cat",
		})
		assert.NoError(t, err)
	})

	assert.Equal(t, "one two\n", out)
}

func TestRunPipedLargerThanPipeBuffer(t *testing.T) {
	// A writer producing far more than the kernel pipe buffer only
	// completes if the reader runs concurrently. A serialized
	// implementation never returns here.
	s, _ := testShell(t)
	outPath := filepath.Join(t.TempDir(), "out.txt")

	done := make(chan error, 1)
	go func() {
		done <- s.RunPlan(&shell.Plan{
			ExecArgs:   []string{"head", "-c", "1000000", "/dev/zero"},
			PipeTarget: "wc",
			Redirect:   &shell.Redirect{Direction: shell.Out, Path: outPath},
		})
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("piped processes did not run concurrently")
	}
}

func TestRunPipedTargetNotFound(t *testing.T) {
	s, _ := testShell(t)

	err := s.RunPlan(&shell.Plan{
		ExecArgs:   []string{"echo", "hi"},
		PipeTarget: "no-such-program-osh-test",
	})

	// The doomed pipeline never spawns its source either.
	var notFound *shell.ProgramNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRunSimpleBackgroundReturnsImmediately(t *testing.T) {
	s, _ := testShell(t)

	start := time.Now()
	err := s.RunPlan(&shell.Plan{
		ExecArgs:   []string{"sleep", "1"},
		Background: true,
	})
	elapsed := time.Since(start)

	assert.NoError(t, err)
	assert.Less(t, elapsed, 500*time.Millisecond)

	// The detached reaper collects the process on its own.
	s.jobs.Wait()
}

func TestRedirectRestoredAfterSpawnFailure(t *testing.T) {
	s, _ := testShell(t)
	outPath := filepath.Join(t.TempDir(), "out.txt")

	err := s.RunPlan(&shell.Plan{
		ExecArgs: []string{"no-such-program-osh-test"},
		Redirect: &shell.Redirect{Direction: shell.Out, Path: outPath},
	})
	assert.Error(t, err)

	// Standard output must be usable again after the failed command.
	out := captureStdout(t, func() {
		assert.NoError(t, s.RunPlan(&shell.Plan{ExecArgs: []string{"echo", "ok"}}))
	})
	assert.Equal(t, "ok\n", out)
}
