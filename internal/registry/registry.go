/*
 * Registry - server targets and their discovered zones.
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
package registry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bind-dns-manager/internal/bindconf"
	"bind-dns-manager/internal/metrics"
	"bind-dns-manager/internal/remote"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	// reportedZones is the number of zone names a connection test returns.
	reportedZones = 5
	// defaultDiscoverTimeout bounds a discovery shared by concurrent callers.
	defaultDiscoverTimeout = 2 * time.Minute
)

// Dialer opens a connection to the host of a target.
type Dialer func(ctx context.Context, t ServerTarget) (remote.Executor, error)

// NewDialer returns the Dialer for SSH and local targets. Connections are
// instrumented with the remote call metrics.
func NewDialer(connectTimeout time.Duration) Dialer {
	return func(ctx context.Context, t ServerTarget) (remote.Executor, error) {
		var ex remote.Executor
		switch t.Transport {
		case TransportLocal:
			ex = remote.NewLocalExecutor()
		case TransportSSH, "":
			c, err := remote.DialSSH(ctx, remote.SSHConfig{
				Host:           t.Host,
				Port:           t.Port,
				User:           t.User,
				KeyPath:        t.SSHKey,
				Password:       t.Password,
				KnownHostsFile: t.KnownHostsFile,
				ConnectTimeout: connectTimeout,
			})
			if err != nil {
				return nil, err
			}
			ex = c
		default:
			return nil, &InvalidTargetError{Field: "transport", Reason: fmt.Sprintf("unsupported transport %q", t.Transport)}
		}
		return remote.Instrument(ex, t.ID), nil
	}
}

// ConnectionReport is the outcome of a connection test.
type ConnectionReport struct {
	ConfigPath string
	ZoneCount  int
	// Zones holds the first few zone names.
	Zones []string
}

// Registry manages the server targets and caches the zones found on them.
// Exactly one target is active once any exists.
type Registry struct {
	store Store
	dial  Dialer
	now   func() time.Time

	group           singleflight.Group
	discoverTimeout time.Duration
	mu              sync.RWMutex
	zones           map[string][]ZoneDescriptor
}

// New returns a Registry persisting targets in store.
func New(store Store, dial Dialer) *Registry {
	return &Registry{
		store: store,
		dial:  dial,
		now:   time.Now,
		zones: make(map[string][]ZoneDescriptor),

		discoverTimeout: defaultDiscoverTimeout,
	}
}

// AddTarget stores a new target. The first target becomes the active one.
func (r *Registry) AddTarget(ctx context.Context, t ServerTarget) (*ServerTarget, error) {
	if err := t.normalize(); err != nil {
		return nil, err
	}
	existing, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	activate := t.Active || len(existing) == 0
	t.ID = NewTargetID()
	t.Active = false
	t.CreatedAt = r.now()
	t.UpdatedAt = t.CreatedAt
	if err := r.store.Create(ctx, &t); err != nil {
		return nil, err
	}
	if activate {
		if err := r.store.SetActive(ctx, t.ID); err != nil {
			return nil, err
		}
	}
	log.WithFields(log.Fields{"target": t.ID, "name": t.Name, "active": activate}).Info("Server target added")
	return r.store.Get(ctx, t.ID)
}

// Target returns the target with the given id.
func (r *Registry) Target(ctx context.Context, id string) (*ServerTarget, error) {
	return r.store.Get(ctx, id)
}

// Targets returns all targets by creation time.
func (r *Registry) Targets(ctx context.Context) ([]*ServerTarget, error) {
	return r.store.List(ctx)
}

// ActiveTarget returns the active target.
func (r *Registry) ActiveTarget(ctx context.Context) (*ServerTarget, error) {
	targets, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range targets {
		if t.Active {
			return t, nil
		}
	}
	return nil, ErrNoActiveTarget
}

// UpdateTarget replaces the settings of a target. The active flag and the
// creation time are kept; use Activate to change the active target. The
// store never writes the active flag on update, so an Activate running
// meanwhile is not undone. The cached zones of the target are dropped.
func (r *Registry) UpdateTarget(ctx context.Context, t ServerTarget) (*ServerTarget, error) {
	old, err := r.store.Get(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := t.normalize(); err != nil {
		return nil, err
	}
	t.Active = old.Active
	t.CreatedAt = old.CreatedAt
	t.UpdatedAt = r.now()
	if err := r.store.Update(ctx, &t); err != nil {
		return nil, err
	}
	r.forget(t.ID)
	log.WithFields(log.Fields{"target": t.ID, "name": t.Name}).Info("Server target updated")
	return r.store.Get(ctx, t.ID)
}

// Activate makes id the active target.
func (r *Registry) Activate(ctx context.Context, id string) error {
	if err := r.store.SetActive(ctx, id); err != nil {
		return err
	}
	log.WithField("target", id).Info("Server target activated")
	return nil
}

// DeleteTarget removes a target. When it was the active one, the oldest
// remaining target takes its place.
func (r *Registry) DeleteTarget(ctx context.Context, id string) error {
	old, err := r.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return err
	}
	r.forget(id)
	log.WithField("target", id).Info("Server target deleted")
	if !old.Active {
		return nil
	}
	rest, err := r.store.List(ctx)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return nil
	}
	return r.Activate(ctx, rest[0].ID)
}

// Connect opens a connection to a complete target. The caller closes it.
func (r *Registry) Connect(ctx context.Context, t *ServerTarget) (remote.Executor, error) {
	if err := t.Complete(); err != nil {
		return nil, err
	}
	ex, err := r.dial(ctx, *t)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", t.Name, err)
	}
	return ex, nil
}

// Discover reads the configuration of target id and caches the zones found.
// Concurrent discoveries of one target share a single connection. The shared
// work is bounded by its own timeout and goes on when a caller gives up.
func (r *Registry) Discover(ctx context.Context, id string) ([]ZoneDescriptor, error) {
	ch := r.group.DoChan(id, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.discoverTimeout)
		defer cancel()
		t, err := r.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		d, err := r.discover(ctx, t)
		if err != nil {
			return nil, err
		}
		zones := descriptors(id, d)
		r.mu.Lock()
		r.zones[id] = zones
		r.mu.Unlock()
		metrics.GetOpenMetricsInstance().SetDiscoveredZones(id, len(zones))
		log.WithFields(log.Fields{"target": id, "config": d.ConfigPath, "zones": len(zones)}).Info("Zones discovered")
		return zones, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyZones(res.Val.([]ZoneDescriptor)), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Registry) discover(ctx context.Context, t *ServerTarget) (*bindconf.Discovery, error) {
	ex, err := r.Connect(ctx, t)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ex.Close(); err != nil {
			log.WithField("target", t.ID).Debugf("Closing connection: %v", err)
		}
	}()
	return bindconf.Discover(ctx, ex, t.ConfigPath)
}

// Zones returns the zones of target id, discovering them when not cached or
// when refresh is set.
func (r *Registry) Zones(ctx context.Context, id string, refresh bool) ([]ZoneDescriptor, error) {
	if !refresh {
		r.mu.RLock()
		zones, ok := r.zones[id]
		r.mu.RUnlock()
		if ok {
			return copyZones(zones), nil
		}
	}
	return r.Discover(ctx, id)
}

// Zone returns the descriptor of zone name on target id.
func (r *Registry) Zone(ctx context.Context, id, name string) (ZoneDescriptor, error) {
	name = ZoneName(name)
	zones, err := r.Zones(ctx, id, false)
	if err != nil {
		return ZoneDescriptor{}, err
	}
	for _, z := range zones {
		if z.Name == name {
			return z, nil
		}
	}
	return ZoneDescriptor{}, fmt.Errorf("%w: %s", ErrZoneNotFound, name)
}

// RegisterZone adds a zone created on target id to the cache.
func (r *Registry) RegisterZone(id string, z ZoneDescriptor) {
	z.TargetID = id
	z.Name = ZoneName(z.Name)
	r.mu.Lock()
	defer r.mu.Unlock()
	zones := r.zones[id]
	for i := range zones {
		if zones[i].Name == z.Name {
			zones[i] = z
			return
		}
	}
	r.zones[id] = append(zones, z)
	metrics.GetOpenMetricsInstance().SetDiscoveredZones(id, len(r.zones[id]))
}

// TestConnection connects to t and reads its configuration without storing
// anything.
func (r *Registry) TestConnection(ctx context.Context, t ServerTarget) (*ConnectionReport, error) {
	if err := t.normalize(); err != nil {
		return nil, err
	}
	d, err := r.discover(ctx, &t)
	if err != nil {
		return nil, err
	}
	names := d.Names()
	report := &ConnectionReport{ConfigPath: d.ConfigPath, ZoneCount: len(names)}
	if len(names) > reportedZones {
		names = names[:reportedZones]
	}
	report.Zones = names
	return report, nil
}

// forget drops the cached zones of a target.
func (r *Registry) forget(id string) {
	r.mu.Lock()
	delete(r.zones, id)
	r.mu.Unlock()
	metrics.GetOpenMetricsInstance().DeleteDiscoveredZones(id)
}

func descriptors(id string, d *bindconf.Discovery) []ZoneDescriptor {
	zones := make([]ZoneDescriptor, 0, len(d.Zones))
	for _, z := range d.Zones {
		zones = append(zones, ZoneDescriptor{
			TargetID: id,
			Name:     ZoneName(z.Name),
			Path:     z.File,
			Type:     z.Type,
			View:     z.View,
		})
	}
	return zones
}

func copyZones(zones []ZoneDescriptor) []ZoneDescriptor {
	return append([]ZoneDescriptor{}, zones...)
}

// IsNotFound reports whether err is about an unknown target or zone.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTargetNotFound) || errors.Is(err, ErrZoneNotFound)
}
