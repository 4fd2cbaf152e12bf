/*
 * Zones - zone and record endpoints.
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
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"bind-dns-manager/internal/commit"
	"bind-dns-manager/internal/registry"
	"bind-dns-manager/internal/remote"
	"bind-dns-manager/internal/zonefile"

	"github.com/go-chi/chi/v5"
)

// ZoneResponse describes a zone found on a target.
type ZoneResponse struct {
	Name string `json:"name"`
	File string `json:"file"`
	Type string `json:"type"`
	View string `json:"view,omitempty"`
}

// CreateZoneRequest is the body of zone creation.
type CreateZoneRequest struct {
	Name        string `json:"name"`
	PrimaryNS   string `json:"primaryNs"`
	AdminEmail  string `json:"adminEmail"`
	NSIPAddress string `json:"nsIpAddress"`
	// File defaults to <zone dir>/<name>.zone.
	File string `json:"file"`
	TTL  uint32 `json:"ttl"`
}

// RecordRequest is the body of record creation and update.
type RecordRequest struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	TTL    *uint32  `json:"ttl"`
	Values []string `json:"values"`
}

func (req RecordRequest) spec() zonefile.RecordSpec {
	spec := zonefile.RecordSpec{
		Name:   req.Name,
		Type:   zonefile.RecordType(req.Type),
		Values: req.Values,
	}
	if req.TTL != nil {
		spec.TTL, spec.HasTTL = *req.TTL, true
	}
	return spec
}

// RecordResponse describes one record.
type RecordResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	FQDN   string   `json:"fqdn"`
	Type   string   `json:"type"`
	TTL    *uint32  `json:"ttl,omitempty"`
	Class  string   `json:"class,omitempty"`
	Values []string `json:"values"`
	Line   int      `json:"line,omitempty"`
}

func recordResponse(rec zonefile.Record) RecordResponse {
	out := RecordResponse{
		ID:     rec.ID,
		Name:   rec.Name,
		FQDN:   rec.FQDN(),
		Type:   string(rec.Type),
		Class:  rec.Class,
		Values: rec.Values,
		Line:   rec.Line,
	}
	if rec.HasTTL {
		ttl := rec.TTL
		out.TTL = &ttl
	}
	if out.Values == nil {
		out.Values = []string{}
	}
	return out
}

// SOAResponse describes the SOA header of a zone.
type SOAResponse struct {
	PrimaryNS  string `json:"primaryNs"`
	AdminEmail string `json:"adminEmail"`
	Serial     uint32 `json:"serial"`
	Refresh    uint32 `json:"refresh"`
	Retry      uint32 `json:"retry"`
	Expire     uint32 `json:"expire"`
	Minimum    uint32 `json:"minimum"`
}

// RecordsResponse lists the records of a zone.
type RecordsResponse struct {
	Zone    string           `json:"zone"`
	File    string           `json:"file"`
	SOA     SOAResponse      `json:"soa"`
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
}

// CommitResponse is the outcome of a change to a zone file.
type CommitResponse struct {
	Zone           string          `json:"zone"`
	File           string          `json:"file"`
	Changed        bool            `json:"changed"`
	Committed      bool            `json:"committed"`
	PreviousSerial uint32          `json:"previousSerial,omitempty"`
	Serial         uint32          `json:"serial"`
	Stages         []string        `json:"stages"`
	Warning        string          `json:"warning,omitempty"`
	Record         *RecordResponse `json:"record,omitempty"`
}

func commitResponse(res *commit.Result, warning error) CommitResponse {
	out := CommitResponse{
		Zone:           registry.ZoneName(res.Origin),
		File:           res.Path,
		Changed:        res.Changed,
		Committed:      res.Committed,
		PreviousSerial: res.PreviousSerial,
		Serial:         res.Serial,
		Stages:         make([]string, 0, len(res.Stages)),
	}
	for _, s := range res.Stages {
		out.Stages = append(out.Stages, string(s))
	}
	if warning != nil {
		out.Warning = warning.Error()
	}
	return out
}

// ListZones returns the zones of the target given by the "target" query
// parameter, or of the active target. "refresh=true" reads the server
// configuration again.
func (a *API) ListZones(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := a.target(ctx, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get(refreshQuery))
	zones, err := a.registry.Zones(ctx, t.ID, refresh)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]ZoneResponse, 0, len(zones))
	for _, z := range zones {
		out = append(out, ZoneResponse{Name: z.Name, File: z.Path, Type: z.Type, View: z.View})
	}
	requestLog(r).Debugf("returning zones count: %d", len(out))
	writeJSON(w, r, http.StatusOK, map[string]interface{}{"target": t.ID, "zones": out, "count": len(out)})
}

// CreateZone writes the file of a new zone on the target. The zone still has
// to be declared in the server configuration to be served; until then the
// reload is reported as a warning.
func (a *API) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req CreateZoneRequest
	if !decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	t, err := a.target(ctx, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if req.TTL == 0 {
		req.TTL = a.defaultTTL
	}
	z, err := zonefile.BuildZone(zonefile.ZoneParams{
		Name:        req.Name,
		PrimaryNS:   req.PrimaryNS,
		AdminEmail:  req.AdminEmail,
		NSIPAddress: req.NSIPAddress,
		TTL:         req.TTL,
		Now:         a.now(),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	name := registry.ZoneName(z.Origin())
	if _, err := a.registry.Zone(ctx, t.ID, name); err == nil {
		writeError(w, r, http.StatusConflict, fmt.Errorf("zone %s already exists on %s", name, t.Name))
		return
	} else if !errors.Is(err, registry.ErrZoneNotFound) {
		fail(w, r, err)
		return
	}
	file := req.File
	if file == "" {
		file = path.Join(a.zoneDir, name+".zone")
	}

	ex, release, err := a.connect(ctx, r, t)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer release()
	res, err := a.orchestrator.Provision(ctx, ex, t.ID, file, z)
	if err != nil && !commit.IsWarning(err) {
		fail(w, r, err)
		return
	}
	a.registry.RegisterZone(t.ID, registry.ZoneDescriptor{Name: name, Path: file, Type: "master"})
	requestLog(r).WithField(logFieldZone, name).Info("zone created")
	writeJSON(w, r, http.StatusCreated, commitResponse(res, err))
}

// zoneRequest resolves the target and zone of a record request and opens a
// connection to the target.
func (a *API) zoneRequest(w http.ResponseWriter, r *http.Request) (*registry.ServerTarget, registry.ZoneDescriptor, remote.Executor, func(), bool) {
	ctx := r.Context()
	t, err := a.target(ctx, r)
	if err != nil {
		fail(w, r, err)
		return nil, registry.ZoneDescriptor{}, nil, nil, false
	}
	zone, err := a.registry.Zone(ctx, t.ID, chi.URLParam(r, "zone"))
	if err != nil {
		fail(w, r, err)
		return nil, registry.ZoneDescriptor{}, nil, nil, false
	}
	ex, release, err := a.connect(ctx, r, t)
	if err != nil {
		fail(w, r, err)
		return nil, registry.ZoneDescriptor{}, nil, nil, false
	}
	return t, zone, ex, release, true
}

// ListRecords returns the records of a zone.
func (a *API) ListRecords(w http.ResponseWriter, r *http.Request) {
	_, zone, ex, release, ok := a.zoneRequest(w, r)
	if !ok {
		return
	}
	defer release()
	z, err := a.orchestrator.Load(r.Context(), ex, zone.Origin(), zone.Path)
	if err != nil {
		fail(w, r, err)
		return
	}
	soa := z.SOA()
	out := RecordsResponse{
		Zone: zone.Name,
		File: zone.Path,
		SOA: SOAResponse{
			PrimaryNS:  soa.PrimaryNS,
			AdminEmail: soa.AdminEmail,
			Serial:     soa.Serial,
			Refresh:    soa.Refresh,
			Retry:      soa.Retry,
			Expire:     soa.Expire,
			Minimum:    soa.Minimum,
		},
		Records: []RecordResponse{},
	}
	for _, rec := range z.Records() {
		out.Records = append(out.Records, recordResponse(rec))
	}
	out.Count = len(out.Records)
	requestLog(r).Debugf("returning records count: %d", out.Count)
	writeJSON(w, r, http.StatusOK, out)
}

// AddRecord adds a record to a zone.
func (a *API) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if !decode(w, r, &req) {
		return
	}
	out, res, ok := a.commit(w, r, commit.AddRecord(req.spec()))
	if !ok {
		return
	}
	if recs := res.Zone.Records(); len(recs) > 0 {
		rec := recordResponse(recs[len(recs)-1])
		out.Record = &rec
	}
	writeJSON(w, r, http.StatusCreated, out)
}

// UpdateRecord replaces the content of a record.
func (a *API) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if !decode(w, r, &req) {
		return
	}
	out, _, ok := a.commit(w, r, commit.UpdateRecord(recordID(r), req.spec()))
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// DeleteRecord removes a record.
func (a *API) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	out, _, ok := a.commit(w, r, commit.DeleteRecord(recordID(r)))
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, out)
}

// commit runs m on the zone of the request. A reload warning still counts
// as success.
func (a *API) commit(w http.ResponseWriter, r *http.Request, m commit.Mutation) (CommitResponse, *commit.Result, bool) {
	t, zone, ex, release, ok := a.zoneRequest(w, r)
	if !ok {
		return CommitResponse{}, nil, false
	}
	defer release()
	res, err := a.orchestrator.Commit(r.Context(), ex, commit.Request{
		Target:   t.ID,
		Origin:   zone.Origin(),
		Path:     zone.Path,
		Mutation: m,
	})
	if err != nil && !commit.IsWarning(err) {
		fail(w, r, err)
		return CommitResponse{}, nil, false
	}
	if err != nil {
		requestLog(r).WithField(logFieldZone, zone.Name).Warn(err.Error())
	}
	return commitResponse(res, err), res, true
}

// recordID returns the record id of the request path.
func recordID(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if v, err := url.PathUnescape(id); err == nil {
		return v
	}
	return id
}
