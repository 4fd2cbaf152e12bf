/*
 * Status - server status.
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
package server

// Status contains the health and ready statuses of the zone manager. While
// not ready, reason tells what it is waiting for.
type Status struct {
	healthy guarded[bool]
	ready   guarded[bool]
	reason  guarded[string]
}

// SetHealthy sets the health status.
func (s *Status) SetHealthy(v bool) {
	s.healthy.Set(v)
}

// SetReady marks the manager as ready and clears the reason.
func (s *Status) SetReady() {
	s.reason.Set("")
	s.ready.Set(true)
}

// SetNotReady marks the manager as not ready.
func (s *Status) SetNotReady(reason string) {
	s.ready.Set(false)
	s.reason.Set(reason)
}

// IsHealthy returns the healthy flag.
func (s *Status) IsHealthy() bool {
	return s.healthy.Get()
}

// IsReady returns the readiness status.
func (s *Status) IsReady() bool {
	return s.ready.Get()
}

// Reason returns why the manager is not ready.
func (s *Status) Reason() string {
	return s.reason.Get()
}
