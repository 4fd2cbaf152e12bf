/*
 * DB - relational storage of the registry.
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
package rdb

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDSN = "./bind-dns-manager.db"

// OpenFromURL opens a GORM DB based on a simple db-url string.
// Supported:
//   - sqlite:<dsn>   e.g., sqlite:./bind-dns-manager.db or sqlite:file::memory:?cache=shared
//   - sqlite3:<dsn>  alias of sqlite
func OpenFromURL(dbURL string) (*gorm.DB, error) {
	var dsn string
	switch {
	case strings.HasPrefix(dbURL, "sqlite:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite:")
	case strings.HasPrefix(dbURL, "sqlite3:"):
		dsn = strings.TrimPrefix(dbURL, "sqlite3:")
	default:
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
	if dsn == "" {
		dsn = defaultDSN
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
}

// AutoMigrate applies schema migrations for all RDB models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&TargetRecord{})
}
