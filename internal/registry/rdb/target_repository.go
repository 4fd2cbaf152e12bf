/*
 * Target repository - server targets in a relational database.
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
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bind-dns-manager/internal/registry"

	"gorm.io/gorm"
)

// TargetRepository is a GORM-backed implementation of registry.Store.
type TargetRepository struct{ db *gorm.DB }

func NewTargetRepository(db *gorm.DB) *TargetRepository { return &TargetRepository{db: db} }

func targetToRecord(t *registry.ServerTarget) (*TargetRecord, error) {
	opts := ""
	if len(t.Options) > 0 {
		b, err := json.Marshal(t.Options)
		if err != nil {
			return nil, fmt.Errorf("encoding options of target %s: %w", t.ID, err)
		}
		opts = string(b)
	}
	return &TargetRecord{
		ID:             t.ID,
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
		Options:        opts,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}, nil
}

func targetToModel(r *TargetRecord) (*registry.ServerTarget, error) {
	var opts map[string]string
	if r.Options != "" {
		if err := json.Unmarshal([]byte(r.Options), &opts); err != nil {
			return nil, fmt.Errorf("decoding options of target %s: %w", r.ID, err)
		}
	}
	return &registry.ServerTarget{
		ID:             r.ID,
		Name:           r.Name,
		Transport:      r.Transport,
		Host:           r.Host,
		Port:           r.Port,
		User:           r.User,
		SSHKey:         r.SSHKey,
		Password:       r.Password,
		KnownHostsFile: r.KnownHostsFile,
		ConfigPath:     r.ConfigPath,
		Active:         r.Active,
		Options:        opts,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, nil
}

func (r *TargetRepository) Create(ctx context.Context, t *registry.ServerTarget) error {
	if t.ID == "" {
		t.ID = registry.NewTargetID()
	}
	rec, err := targetToRecord(t)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *TargetRepository) Get(ctx context.Context, id string) (*registry.ServerTarget, error) {
	var rec TargetRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registry.ErrTargetNotFound
		}
		return nil, err
	}
	return targetToModel(&rec)
}

func (r *TargetRepository) List(ctx context.Context) ([]*registry.ServerTarget, error) {
	var recs []TargetRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*registry.ServerTarget, 0, len(recs))
	for i := range recs {
		t, err := targetToModel(&recs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *TargetRepository) Update(ctx context.Context, t *registry.ServerTarget) error {
	rec, err := targetToRecord(t)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&TargetRecord{}).Where("id = ?", rec.ID).
		Select("*").Omit("id", "created_at", "active").Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return registry.ErrTargetNotFound
	}
	return nil
}

func (r *TargetRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&TargetRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return registry.ErrTargetNotFound
	}
	return nil
}

func (r *TargetRepository) SetActive(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&TargetRecord{}).Where("id = ?", id).Update("active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return registry.ErrTargetNotFound
		}
		return tx.Model(&TargetRecord{}).Where("id <> ?", id).Update("active", false).Error
	})
}

var _ registry.Store = (*TargetRepository)(nil)
