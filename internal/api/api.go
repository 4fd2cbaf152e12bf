/*
 * API - REST interface of the zone manager.
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
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"time"

	"bind-dns-manager/internal/commit"
	"bind-dns-manager/internal/registry"
	"bind-dns-manager/internal/remote"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const (
	contentTypeHeader     = "Content-Type"
	contentTypeJSON       = "application/json"
	logFieldRequestPath   = "requestPath"
	logFieldRequestMethod = "requestMethod"
	logFieldError         = "error"
	logFieldTarget        = "target"
	logFieldZone          = "zone"
	targetQuery           = "target"
	refreshQuery          = "refresh"

	// DefaultZoneDir is where new zone files are created when the request
	// does not name a file.
	DefaultZoneDir = "/var/named"
)

// Options configures the API.
type Options struct {
	// ZoneDir is the directory of new zone files.
	ZoneDir string
	// DefaultTTL is the $TTL of new zones that do not ask for one.
	DefaultTTL uint32
}

// API serves the targets, zones and records of the manager.
type API struct {
	registry     *registry.Registry
	orchestrator *commit.Orchestrator
	zoneDir      string
	defaultTTL   uint32
	now          func() time.Time
}

// New creates the API on top of a registry and an orchestrator.
func New(reg *registry.Registry, orch *commit.Orchestrator, opts Options) *API {
	if opts.ZoneDir == "" {
		opts.ZoneDir = DefaultZoneDir
	}
	return &API{
		registry:     reg,
		orchestrator: orch,
		zoneDir:      opts.ZoneDir,
		defaultTTL:   opts.DefaultTTL,
		now:          time.Now,
	}
}

// Routes returns the router of the API.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.Health)

		r.Route("/targets", func(r chi.Router) {
			r.Get("/", a.ListTargets)
			r.With(jsonBody).Post("/", a.CreateTarget)
			r.With(jsonBody).Post("/test", a.TestTarget)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.GetTarget)
				r.With(jsonBody).Put("/", a.UpdateTarget)
				r.Delete("/", a.DeleteTarget)
				r.Post("/activate", a.ActivateTarget)
				r.Post("/test", a.TestStoredTarget)
			})
		})

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", a.ListZones)
			r.With(jsonBody).Post("/", a.CreateZone)
			r.Route("/{zone}/records", func(r chi.Router) {
				r.Get("/", a.ListRecords)
				r.With(jsonBody).Post("/", a.AddRecord)
				r.With(jsonBody).Put("/{id}", a.UpdateRecord)
				r.Delete("/{id}", a.DeleteRecord)
			})
		})
	})
	return r
}

// Health answers the liveness check of the API.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// jsonBody rejects requests whose body is not declared as JSON.
func jsonBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get(contentTypeHeader)
		if len(ct) == 0 {
			writeError(w, r, http.StatusUnsupportedMediaType, fmt.Errorf("client must provide a content type"))
			return
		}
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != contentTypeJSON {
			writeError(w, r, http.StatusUnsupportedMediaType, fmt.Errorf("only allows media type '%s' as content-type", contentTypeJSON))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decode reads the JSON body into v. It answers 400 and returns false when
// the body is malformed.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("error decoding request body: %w", err))
		return false
	}
	return true
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error encoding response")
	}
}

// writeError answers with an error body.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	entry := requestLog(r).WithField(logFieldError, err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

// fail answers with the status and body matching err.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	body := errorBody(err)
	entry := requestLog(r).WithField(logFieldError, err)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}
	writeJSON(w, r, status, body)
}

// target returns the target named by the query string, or the active one.
func (a *API) target(ctx context.Context, r *http.Request) (*registry.ServerTarget, error) {
	if id := r.URL.Query().Get(targetQuery); id != "" {
		return a.registry.Target(ctx, id)
	}
	return a.registry.ActiveTarget(ctx)
}

// connect opens a connection to t. The caller closes it with release.
func (a *API) connect(ctx context.Context, r *http.Request, t *registry.ServerTarget) (remote.Executor, func(), error) {
	ex, err := a.registry.Connect(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := ex.Close(); err != nil {
			requestLog(r).WithField(logFieldTarget, t.ID).Debugf("closing connection: %v", err)
		}
	}
	return ex, release, nil
}

func requestLog(r *http.Request) *log.Entry {
	return log.WithFields(log.Fields{logFieldRequestMethod: r.Method, logFieldRequestPath: r.URL.Path})
}
