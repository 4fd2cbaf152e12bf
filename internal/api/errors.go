/*
 * Errors - mapping of errors to HTTP answers.
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
package api

import (
	"context"
	"errors"
	"net/http"

	"bind-dns-manager/internal/commit"
	"bind-dns-manager/internal/registry"
	"bind-dns-manager/internal/remote"
	"bind-dns-manager/internal/zonefile"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error       string   `json:"error"`
	Stage       string   `json:"stage,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	// set when the zone file may be partially written
	RemoteMayBeInconsistent bool   `json:"remoteMayBeInconsistent,omitempty"`
	PreviousText            string `json:"previousText,omitempty"`
}

// commitStatus maps the failure reasons of a commit.
var commitStatus = map[string]int{
	commit.ReasonRemoteRead: http.StatusBadGateway,
	commit.ReasonParse:      http.StatusUnprocessableEntity,
	commit.ReasonInvalid:    http.StatusBadRequest,
	commit.ReasonConflict:   http.StatusConflict,
	commit.ReasonNotFound:   http.StatusNotFound,
	commit.ReasonProtected:  http.StatusConflict,
	commit.ReasonSerialize:  http.StatusInternalServerError,
	commit.ReasonValidation: http.StatusUnprocessableEntity,
	commit.ReasonExists:     http.StatusConflict,
	commit.ReasonWrite:      http.StatusBadGateway,
	commit.ReasonReload:     http.StatusBadGateway,
	commit.ReasonVerify:     http.StatusBadGateway,
	commit.ReasonTimeout:    http.StatusGatewayTimeout,
	commit.ReasonCancelled:  http.StatusServiceUnavailable,
}

// statusOf returns the HTTP status of err.
func statusOf(err error) int {
	var (
		ce         *commit.CommitError
		incomplete *registry.IncompleteError
		invalidT   *registry.InvalidTargetError
		invalidZ   *zonefile.ValidationError
		conflict   *zonefile.ConflictError
		notFound   *zonefile.NotFoundError
		protected  *zonefile.ProtectedRecordError
		parse      *zonefile.ParseError
	)
	switch {
	case errors.As(err, &ce):
		if s, ok := commitStatus[ce.Reason]; ok {
			return s
		}
		return http.StatusInternalServerError
	case errors.Is(err, registry.ErrNoActiveTarget),
		errors.As(err, &incomplete),
		errors.As(err, &invalidT),
		errors.As(err, &invalidZ):
		return http.StatusBadRequest
	case registry.IsNotFound(err), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict), errors.As(err, &protected):
		return http.StatusConflict
	case errors.As(err, &parse):
		return http.StatusUnprocessableEntity
	case errors.Is(err, remote.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, remote.ErrConnection),
		errors.Is(err, remote.ErrPermission),
		errors.Is(err, remote.ErrNotFound),
		errors.Is(err, remote.ErrIO):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// errorBody returns the body describing err.
func errorBody(err error) errorResponse {
	body := errorResponse{Error: err.Error()}
	var ce *commit.CommitError
	if errors.As(err, &ce) {
		body.Stage = string(ce.Stage)
		body.Reason = ce.Reason
		body.Diagnostics = ce.Diagnostics
		body.RemoteMayBeInconsistent = ce.RemoteMayBeInconsistent
		if ce.RemoteMayBeInconsistent {
			body.PreviousText = ce.PreviousText
		}
	}
	return body
}
