/*
 * Instrumented - executor decorator that records call metrics.
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
	"time"

	"bind-dns-manager/internal/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	actReadFile   = "read_file"
	actWriteFile  = "write_file"
	actRunCommand = "run_command"
)

// instrumented counts the calls of the wrapped executor.
type instrumented struct {
	next   Executor
	target string
}

// Instrument wraps e so that every call updates the remote call metrics.
func Instrument(e Executor, target string) Executor {
	return &instrumented{next: e, target: target}
}

// observe records the outcome of a call started at start.
func (i *instrumented) observe(action string, start time.Time, err error) {
	m := metrics.GetOpenMetricsInstance()
	if err != nil {
		m.IncFailedRemoteCallsTotal(action)
		log.WithFields(log.Fields{"target": i.target, "action": action}).Debugf("Remote call failed: %v", err)
		return
	}
	m.IncSuccessfulRemoteCallsTotal(action)
	m.AddRemoteDelayHist(action, time.Since(start).Milliseconds())
}

func (i *instrumented) ReadFile(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := i.next.ReadFile(ctx, path)
	i.observe(actReadFile, start, err)
	return data, err
}

func (i *instrumented) WriteFile(ctx context.Context, path string, data []byte) error {
	start := time.Now()
	err := i.next.WriteFile(ctx, path, data)
	i.observe(actWriteFile, start, err)
	return err
}

func (i *instrumented) RunCommand(ctx context.Context, argv []string) (CommandResult, error) {
	start := time.Now()
	res, err := i.next.RunCommand(ctx, argv)
	i.observe(actRunCommand, start, err)
	return res, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
