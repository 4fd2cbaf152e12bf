/*
 * Memory - in-memory executor.
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
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Operations passed to MemoryExecutor.Hook.
const (
	OpRead  = "read"
	OpWrite = "write"
	OpRun   = "run"
)

// CommandHandler simulates a command on a MemoryExecutor. It is called
// without the lock held, so it may use the executor.
type CommandHandler func(ctx context.Context, m *MemoryExecutor, argv []string) (CommandResult, error)

// MemoryExecutor keeps files in a map and simulates commands with handlers.
// test -f and rm -f are built in; any other command without a handler exits
// with 127.
type MemoryExecutor struct {
	// Hook, when set, runs before every operation; an error aborts it. arg
	// is the path or the command line.
	Hook func(ctx context.Context, op, arg string) error

	mu       sync.Mutex
	files    map[string][]byte
	handlers map[string]CommandHandler
	calls    []string
	closed   bool
}

// NewMemoryExecutor returns an executor holding a copy of files.
func NewMemoryExecutor(files map[string]string) *MemoryExecutor {
	m := &MemoryExecutor{
		files:    make(map[string][]byte, len(files)),
		handlers: make(map[string]CommandHandler),
	}
	for k, v := range files {
		m.files[k] = []byte(v)
	}
	return m
}

// Handle registers the handler of a command name.
func (m *MemoryExecutor) Handle(name string, h CommandHandler) {
	m.mu.Lock()
	m.handlers[name] = h
	m.mu.Unlock()
}

// File returns the content of path.
func (m *MemoryExecutor) File(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.files[path]
	return string(v), ok
}

// SetFile stores a file.
func (m *MemoryExecutor) SetFile(path, content string) {
	m.mu.Lock()
	m.files[path] = []byte(content)
	m.mu.Unlock()
}

// Calls returns the operations performed so far, as "op arg".
func (m *MemoryExecutor) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Closed reports whether Close was called.
func (m *MemoryExecutor) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// begin records the call and runs the hook.
func (m *MemoryExecutor) begin(ctx context.Context, op, arg string) error {
	m.mu.Lock()
	m.calls = append(m.calls, op+" "+arg)
	hook := m.Hook
	m.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, op, arg); err != nil {
			return err
		}
	}
	if ctx.Err() != nil {
		return contextError(ctx, op+" "+arg)
	}
	return nil
}

// ReadFile implements Executor.
func (m *MemoryExecutor) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := m.begin(ctx, OpRead, path); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

// WriteFile implements Executor.
func (m *MemoryExecutor) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := m.begin(ctx, OpWrite, path); err != nil {
		return err
	}
	m.mu.Lock()
	m.files[path] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

// RunCommand implements Executor.
func (m *MemoryExecutor) RunCommand(ctx context.Context, argv []string) (CommandResult, error) {
	if len(argv) == 0 {
		return CommandResult{}, errors.New("empty command")
	}
	if err := m.begin(ctx, OpRun, strings.Join(argv, " ")); err != nil {
		return CommandResult{}, err
	}

	m.mu.Lock()
	h, ok := m.handlers[argv[0]]
	m.mu.Unlock()
	if ok {
		return h(ctx, m, argv)
	}

	switch {
	case argv[0] == "test" && len(argv) == 3 && argv[1] == "-f":
		if _, found := m.File(argv[2]); found {
			return CommandResult{}, nil
		}
		return CommandResult{ExitCode: 1}, nil
	case argv[0] == "rm" && len(argv) == 3 && argv[1] == "-f":
		m.mu.Lock()
		delete(m.files, argv[2])
		m.mu.Unlock()
		return CommandResult{}, nil
	}
	return CommandResult{ExitCode: 127, Stderr: argv[0] + ": command not found"}, nil
}

// Close implements Executor.
func (m *MemoryExecutor) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
