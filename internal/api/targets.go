/*
 * Targets - server target endpoints.
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
	"net/http"
	"time"

	"bind-dns-manager/internal/registry"

	"github.com/go-chi/chi/v5"
)

// TargetRequest is the body of target creation, update and test.
type TargetRequest struct {
	Name           string            `json:"name"`
	Transport      string            `json:"transport"`
	Host           string            `json:"host"`
	Port           int               `json:"port"`
	User           string            `json:"user"`
	SSHKey         string            `json:"sshKey"`
	Password       string            `json:"password"`
	KnownHostsFile string            `json:"knownHostsFile"`
	ConfigPath     string            `json:"configPath"`
	Active         bool              `json:"active"`
	Options        map[string]string `json:"options"`
}

func (t TargetRequest) model() registry.ServerTarget {
	return registry.ServerTarget{
		Name:           t.Name,
		Transport:      t.Transport,
		Host:           t.Host,
		Port:           t.Port,
		User:           t.User,
		SSHKey:         t.SSHKey,
		Password:       t.Password,
		KnownHostsFile: t.KnownHostsFile,
		ConfigPath:     t.ConfigPath,
		Active:         t.Active,
		Options:        t.Options,
	}
}

// TargetResponse describes a stored target. The password is never returned.
type TargetResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Transport      string            `json:"transport"`
	Host           string            `json:"host,omitempty"`
	Port           int               `json:"port,omitempty"`
	User           string            `json:"user,omitempty"`
	SSHKey         string            `json:"sshKey,omitempty"`
	HasPassword    bool              `json:"hasPassword"`
	KnownHostsFile string            `json:"knownHostsFile,omitempty"`
	ConfigPath     string            `json:"configPath"`
	Active         bool              `json:"active"`
	Complete       bool              `json:"complete"`
	Options        map[string]string `json:"options,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func targetResponse(t *registry.ServerTarget) TargetResponse {
	return TargetResponse{
		ID:             t.ID,
		Name:           t.Name,
		Transport:      t.Transport,
		Host:           t.Host,
		Port:           t.Port,
		User:           t.User,
		SSHKey:         t.SSHKey,
		HasPassword:    t.Password != "",
		KnownHostsFile: t.KnownHostsFile,
		ConfigPath:     t.ConfigPath,
		Active:         t.Active,
		Complete:       t.Complete() == nil,
		Options:        t.Options,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// TestResponse is the outcome of a connection test.
type TestResponse struct {
	ConfigPath string   `json:"configPath"`
	ZoneCount  int      `json:"zoneCount"`
	Zones      []string `json:"zones"`
}

// ListTargets returns all targets.
func (a *API) ListTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := a.registry.Targets(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]TargetResponse, 0, len(targets))
	for _, t := range targets {
		out = append(out, targetResponse(t))
	}
	requestLog(r).Debugf("returning targets count: %d", len(out))
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"targets": out, "count": len(out)})
}

// CreateTarget stores a new target.
func (a *API) CreateTarget(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := a.registry.AddTarget(r.Context(), req.model())
	if err != nil {
		fail(w, r, err)
		return
	}
	requestLog(r).WithField(logFieldTarget, t.ID).Info("target created")
	writeJSON(w, r, http.StatusCreated, targetResponse(t))
}

// GetTarget returns one target.
func (a *API) GetTarget(w http.ResponseWriter, r *http.Request) {
	t, err := a.registry.Target(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, targetResponse(t))
}

// UpdateTarget replaces the settings of a target. An empty password keeps
// the stored one.
func (a *API) UpdateTarget(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	current, err := a.registry.Target(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	t := req.model()
	t.ID = id
	if t.Password == "" {
		t.Password = current.Password
	}
	updated, err := a.registry.UpdateTarget(ctx, t)
	if err != nil {
		fail(w, r, err)
		return
	}
	if req.Active && !updated.Active {
		if err := a.registry.Activate(ctx, id); err != nil {
			fail(w, r, err)
			return
		}
		updated.Active = true
	}
	requestLog(r).WithField(logFieldTarget, id).Info("target updated")
	writeJSON(w, r, http.StatusOK, targetResponse(updated))
}

// DeleteTarget removes a target.
func (a *API) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.registry.DeleteTarget(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	requestLog(r).WithField(logFieldTarget, id).Info("target deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ActivateTarget makes a target the active one.
func (a *API) ActivateTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if err := a.registry.Activate(ctx, id); err != nil {
		fail(w, r, err)
		return
	}
	t, err := a.registry.Target(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, targetResponse(t))
}

// TestTarget tests the connection settings in the body without storing
// them.
func (a *API) TestTarget(w http.ResponseWriter, r *http.Request) {
	var req TargetRequest
	if !decode(w, r, &req) {
		return
	}
	a.test(w, r, req.model())
}

// TestStoredTarget tests the connection of a stored target.
func (a *API) TestStoredTarget(w http.ResponseWriter, r *http.Request) {
	t, err := a.registry.Target(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	a.test(w, r, *t)
}

func (a *API) test(w http.ResponseWriter, r *http.Request, t registry.ServerTarget) {
	report, err := a.registry.TestConnection(r.Context(), t)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, TestResponse{
		ConfigPath: report.ConfigPath,
		ZoneCount:  report.ZoneCount,
		Zones:      report.Zones,
	})
}
