/*
 * Executor - access to the files and commands of a name server host.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

//go:generate mockgen -destination=mock_remote/mock_executor.go -package=mock_remote bind-dns-manager/internal/remote Executor

package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Transport errors. Executors wrap them, so they must be checked with
// errors.Is.
var (
	ErrNotFound   = errors.New("file not found")
	ErrPermission = errors.New("permission denied")
	ErrTimeout    = errors.New("operation timed out")
	ErrConnection = errors.New("connection failure")
	ErrIO         = errors.New("i/o failure")
)

// CommandResult is the outcome of a command that could be started.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Output returns stdout and stderr as one text.
func (r CommandResult) Output() string {
	switch {
	case r.Stdout == "":
		return r.Stderr
	case r.Stderr == "":
		return r.Stdout
	}
	return strings.TrimRight(r.Stdout, "\n") + "\n" + r.Stderr
}

// Executor reads and writes files and runs commands on a name server host.
// The deadline of the context bounds every call; a call that exceeds it
// fails with ErrTimeout.
type Executor interface {
	// ReadFile returns the content of a file. It fails with ErrNotFound or
	// ErrPermission.
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// WriteFile replaces the content of a file. The write is not atomic: on
	// failure the file may be partially written.
	WriteFile(ctx context.Context, path string, data []byte) error
	// RunCommand runs argv. A non-zero exit code is not an error; errors
	// are reserved to commands that could not run to completion.
	RunCommand(ctx context.Context, argv []string) (CommandResult, error)
	// Close releases the connection.
	Close() error
}

// FileExists reports whether path is a regular file, using test -f.
func FileExists(ctx context.Context, e Executor, path string) (bool, error) {
	res, err := e.RunCommand(ctx, []string{"test", "-f", path})
	if err != nil {
		return false, err
	}
	return res.ExitCode == 0, nil
}

// RemoveFile removes path, ignoring a missing file.
func RemoveFile(ctx context.Context, e Executor, path string) error {
	res, err := e.RunCommand(ctx, []string{"rm", "-f", path})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("removing %s: %w: %s", path, ErrIO, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// contextError maps the error of an expired or cancelled context.
func contextError(ctx context.Context, op string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, ctx.Err())
}

// classifyStderr maps the diagnostic of a failed file command.
func classifyStderr(stderr string) error {
	switch {
	case strings.Contains(stderr, "No such file"):
		return ErrNotFound
	case strings.Contains(stderr, "Permission denied"), strings.Contains(stderr, "Operation not permitted"):
		return ErrPermission
	}
	return ErrIO
}
