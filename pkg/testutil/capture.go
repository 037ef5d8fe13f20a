// Package testutil provides shared test utilities for fleetview packages.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// redirect points *stream at a pipe and returns a function that restores it
// and yields everything written in between.
//
// The pipe is drained concurrently so writers never block on a full buffer.
func redirect(t *testing.T, stream **os.File) func() string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	original := *stream
	*stream = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		_ = r.Close()
		done <- buf.String()
	}()

	return func() string {
		_ = w.Close()
		*stream = original
		return <-done
	}
}

// CaptureStdout captures stdout during the execution of fn and returns the output as a string.
//
// Parameters:
//   - t: Testing instance for helper marking
//   - fn: Function to execute while capturing stdout
//
// Returns:
//   - string: All content written to stdout during fn execution
func CaptureStdout(t *testing.T, fn func()) string {
	t.Helper()
	restore := redirect(t, &os.Stdout)
	fn()
	return restore()
}

// CaptureStderr captures stderr during the execution of fn and returns the output as a string.
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	restore := redirect(t, &os.Stderr)
	fn()
	return restore()
}

// CaptureOutput captures both stdout and stderr during the execution of fn.
//
// Returns:
//   - stdout: All content written to stdout during fn execution
//   - stderr: All content written to stderr during fn execution
func CaptureOutput(t *testing.T, fn func()) (stdout, stderr string) {
	t.Helper()
	restoreOut := redirect(t, &os.Stdout)
	restoreErr := redirect(t, &os.Stderr)
	fn()
	stderr = restoreErr()
	stdout = restoreOut()
	return stdout, stderr
}
