/*
 * Local - executor for a name server running on this host.
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
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
)

const localFileMode = 0o644

// LocalExecutor works on the local filesystem.
type LocalExecutor struct{}

// NewLocalExecutor returns an executor for this host.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{}
}

// fileError maps a filesystem error.
func fileError(op, path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, path, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w", op, path, ErrPermission)
	}
	return fmt.Errorf("%s %s: %w: %v", op, path, ErrIO, err)
}

// ReadFile implements Executor.
func (e *LocalExecutor) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, contextError(ctx, "read "+path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fileError("read", path, err)
	}
	return data, nil
}

// WriteFile implements Executor.
func (e *LocalExecutor) WriteFile(ctx context.Context, path string, data []byte) error {
	if ctx.Err() != nil {
		return contextError(ctx, "write "+path)
	}
	if err := os.WriteFile(path, data, localFileMode); err != nil {
		return fileError("write", path, err)
	}
	return nil
}

// RunCommand implements Executor.
func (e *LocalExecutor) RunCommand(ctx context.Context, argv []string) (CommandResult, error) {
	if len(argv) == 0 {
		return CommandResult{}, errors.New("empty command")
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctx.Err() != nil {
		return CommandResult{}, contextError(ctx, argv[0])
	}
	res := CommandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	case errors.Is(err, exec.ErrNotFound):
		// same convention as a shell
		res.ExitCode = 127
		res.Stderr = err.Error()
	default:
		return CommandResult{}, fmt.Errorf("running %s: %w: %v", argv[0], ErrIO, err)
	}
	return res, nil
}

// Close implements Executor.
func (e *LocalExecutor) Close() error {
	return nil
}
