/*
 * Main - Test suite.
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
package main

import (
	"os"
	"syscall"
	"testing"
	"time"

	"bind-dns-manager/internal/server"

	"github.com/stretchr/testify/assert"
)

type mockStatus struct {
	healthy bool
	reason  string
}

func (s *mockStatus) SetHealthy(healthy bool) {
	s.healthy = healthy
}

func (s *mockStatus) SetNotReady(reason string) {
	s.reason = reason
}

func withSignal(t *testing.T) {
	bkpNotify := notify
	notify = func(sig chan os.Signal) {
		go func() {
			time.Sleep(100 * time.Millisecond)
			sig <- syscall.SIGTERM
		}()
	}
	t.Cleanup(func() { notify = bkpNotify })
}

func Test_waitForSignal(t *testing.T) {
	withSignal(t)
	actual := mockStatus{healthy: true}
	waitForSignal(&actual)
	assert.Equal(t, mockStatus{reason: "shutting down"}, actual)
}

func Test_waitForSignal_status(t *testing.T) {
	withSignal(t)
	status := &server.Status{}
	status.SetHealthy(true)
	status.SetReady()
	waitForSignal(status)
	assert.False(t, status.IsHealthy())
	assert.False(t, status.IsReady())
	assert.Equal(t, "shutting down", status.Reason())
}
