/*
 * Stage - states of a commit run.
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
package commit

// Stage is a state of the commit pipeline.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageReading     Stage = "reading"
	StageParsing     Stage = "parsing"
	StageMutating    Stage = "mutating"
	StageSerializing Stage = "serializing"
	StageValidating  Stage = "validating"
	StageWriting     Stage = "writing"
	StageReloading   Stage = "reloading"
	StageVerifying   Stage = "verifying"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Cancellable reports whether a run in stage s may still be abandoned.
// Nothing on the remote host has changed before writing starts.
func (s Stage) Cancellable() bool {
	switch s {
	case StageReading, StageParsing, StageMutating, StageSerializing, StageValidating:
		return true
	}
	return false
}
