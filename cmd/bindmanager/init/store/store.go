/*
 * Store - persistence of the server targets.
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
package store

import (
	"context"
	"fmt"

	"bind-dns-manager/cmd/bindmanager/init/configuration"
	"bind-dns-manager/internal/registry"
	"bind-dns-manager/internal/registry/rdb"

	log "github.com/sirupsen/logrus"
)

// Open returns the target store selected by the database URL and the
// function that closes it.
func Open(dbURL string) (registry.Store, func(), error) {
	if dbURL == configuration.MemoryDB {
		log.Info("Keeping server targets in memory")
		return registry.NewMemoryStore(), func() {}, nil
	}
	db, err := rdb.OpenFromURL(dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("opening target database: %w", err)
	}
	if err := rdb.AutoMigrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrating target database: %w", err)
	}
	closer := func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Warnf("Closing target database: %v", err)
		}
	}
	return rdb.NewTargetRepository(db), closer, nil
}

// Bootstrap stores the target of the environment when the registry holds
// none. It returns the stored target, or nil when nothing was done.
func Bootstrap(ctx context.Context, reg *registry.Registry, cfg configuration.Config) (*registry.ServerTarget, error) {
	t, ok := cfg.BootstrapTarget()
	if !ok {
		return nil, nil
	}
	targets, err := reg.Targets(ctx)
	if err != nil {
		return nil, err
	}
	if len(targets) > 0 {
		log.Debugf("Skipping bootstrap target, %d targets are stored", len(targets))
		return nil, nil
	}
	stored, err := reg.AddTarget(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("storing bootstrap target: %w", err)
	}
	log.Infof("Stored bootstrap target %s (%s)", stored.Name, stored.ID)
	return stored, nil
}
