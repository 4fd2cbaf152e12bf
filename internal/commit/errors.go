/*
 * Errors - commit failures and warnings.
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

import (
	"context"
	"errors"
	"fmt"

	"bind-dns-manager/internal/remote"
	"bind-dns-manager/internal/zonefile"
)

// Failure reasons.
const (
	ReasonRemoteRead = "remote-read"
	ReasonParse      = "parse"
	ReasonInvalid    = "invalid"
	ReasonConflict   = "conflict"
	ReasonNotFound   = "not-found"
	ReasonProtected  = "protected"
	ReasonSerialize  = "serialize"
	ReasonValidation = "validation"
	ReasonExists     = "exists"
	ReasonWrite      = "write"
	ReasonReload     = "reload"
	ReasonVerify     = "verify"
	ReasonTimeout    = "timeout"
	ReasonCancelled  = "cancelled"
)

// CommitError is a run that ended in the failed state. Nothing was written
// unless RemoteMayBeInconsistent is set.
type CommitError struct {
	Stage  Stage
	Reason string
	Err    error
	// Diagnostics holds the output of the zone checker.
	Diagnostics []string
	// PreviousText is the file content read before the mutation, when known.
	PreviousText string
	// RemoteMayBeInconsistent is set when the write of the zone file was
	// started and did not complete.
	RemoteMayBeInconsistent bool
}

func (e *CommitError) Error() string {
	msg := fmt.Sprintf("commit failed while %s (%s)", e.Stage, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.RemoteMayBeInconsistent {
		msg += "; the zone file may be partially written"
	}
	return msg
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// ReloadWarning reports a zone file that was written and validated but
// could not be reloaded or verified. A manual reload fixes it.
type ReloadWarning struct {
	Stage  Stage
	Reason string
	Err    error
	Output string
}

func (w *ReloadWarning) Error() string {
	return fmt.Sprintf("zone file written but %s failed: %v", w.Reason, w.Err)
}

func (w *ReloadWarning) Unwrap() error {
	return w.Err
}

// IsWarning reports whether err only warns about a committed zone.
func IsWarning(err error) bool {
	var w *ReloadWarning
	return errors.As(err, &w)
}

// mutationReason returns the reason of a mutation error.
func mutationReason(err error) string {
	var (
		ve *zonefile.ValidationError
		ce *zonefile.ConflictError
		ne *zonefile.NotFoundError
		pe *zonefile.ProtectedRecordError
	)
	switch {
	case errors.As(err, &pe):
		return ReasonProtected
	case errors.As(err, &ne):
		return ReasonNotFound
	case errors.As(err, &ce):
		return ReasonConflict
	case errors.As(err, &ve):
		return ReasonInvalid
	}
	return ReasonInvalid
}

// remoteReason returns the reason of a failed remote call, or fallback when
// it is not a timeout or a cancellation.
func remoteReason(err error, fallback string) string {
	switch {
	case errors.Is(err, remote.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	}
	return fallback
}
