/*
 * Models - persistence models.
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

import "time"

// TargetRecord persistence model
type TargetRecord struct {
	ID             string    `gorm:"primaryKey;type:text;not null"`
	Name           string    `gorm:"type:text;not null"`
	Transport      string    `gorm:"type:text;not null"`
	Host           string    `gorm:"type:text"`
	Port           int       `gorm:"not null"`
	User           string    `gorm:"type:text"`
	SSHKey         string    `gorm:"type:text"`
	Password       string    `gorm:"type:text"`
	KnownHostsFile string    `gorm:"type:text"`
	ConfigPath     string    `gorm:"type:text;not null"`
	Active         bool      `gorm:"not null;index"`
	Options        string    `gorm:"type:text"` // JSON encoded map[string]string
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (TargetRecord) TableName() string { return "server_targets" }
