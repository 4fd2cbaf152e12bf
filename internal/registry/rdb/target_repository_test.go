/*
 * Target repository - Test suite.
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
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bind-dns-manager/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRepository(t *testing.T) *TargetRepository {
	db, err := OpenFromURL("sqlite:" + filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewTargetRepository(db)
}

func Test_OpenFromURL(t *testing.T) {
	_, err := OpenFromURL("postgres://localhost/db")
	assert.EqualError(t, err, "unsupported db scheme: postgres://localhost/db")

	db, err := OpenFromURL("sqlite3:" + filepath.Join(t.TempDir(), "alias.db"))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&TargetRecord{}))
}

func Test_TargetRepository(t *testing.T) {
	ctx := context.Background()
	repo := testRepository(t)
	created := time.Date(2026, time.January, 18, 12, 0, 0, 0, time.UTC)

	first := &registry.ServerTarget{
		Name:       "ns1",
		Transport:  registry.TransportSSH,
		Host:       "ns1.example.com",
		Port:       22,
		User:       "root",
		Password:   "secret",
		ConfigPath: "/etc/bind/named.conf",
		Options:    map[string]string{"recursion": "no", "forwarders": "192.0.2.53; 192.0.2.54"},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.Regexp(t, `^srv-[0-9a-f-]{36}$`, first.ID)

	second := &registry.ServerTarget{
		ID:         "srv-local",
		Name:       "localhost",
		Transport:  registry.TransportLocal,
		ConfigPath: "/etc/named.conf",
		CreatedAt:  created.Add(time.Minute),
		UpdatedAt:  created.Add(time.Minute),
	}
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "ns1.example.com", got.Host)
	assert.Equal(t, first.Options, got.Options)
	assert.True(t, created.Equal(got.CreatedAt))

	got, err = repo.Get(ctx, "srv-local")
	require.NoError(t, err)
	assert.Nil(t, got.Options)

	_, err = repo.Get(ctx, "srv-missing")
	assert.True(t, errors.Is(err, registry.ErrTargetNotFound))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, "srv-local", list[1].ID)

	// exactly one active target
	require.NoError(t, repo.SetActive(ctx, first.ID))
	require.NoError(t, repo.SetActive(ctx, "srv-local"))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.False(t, list[0].Active)
	assert.True(t, list[1].Active)
	assert.True(t, errors.Is(repo.SetActive(ctx, "srv-missing"), registry.ErrTargetNotFound))

	// zero values are written too
	got, err = repo.Get(ctx, first.ID)
	require.NoError(t, err)
	got.Password = ""
	got.SSHKey = "/root/.ssh/id_ed25519"
	got.Options = nil
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Password)
	assert.Equal(t, "/root/.ssh/id_ed25519", got.SSHKey)
	assert.Nil(t, got.Options)
	assert.True(t, created.Equal(got.CreatedAt))

	assert.True(t, errors.Is(repo.Update(ctx, &registry.ServerTarget{ID: "srv-missing"}), registry.ErrTargetNotFound))

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, first.ID), registry.ErrTargetNotFound))
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func Test_TargetRepository_updateKeepsActive(t *testing.T) {
	type testCase struct {
		name   string
		id     string
		active bool
	}

	run := func(t *testing.T, tc testCase) {
		ctx := context.Background()
		repo := testRepository(t)
		created := time.Date(2026, time.January, 18, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"srv-a", "srv-b"} {
			require.NoError(t, repo.Create(ctx, &registry.ServerTarget{
				ID:         id,
				Transport:  registry.TransportLocal,
				ConfigPath: "/etc/named.conf",
				CreatedAt:  created.Add(time.Duration(i) * time.Minute),
				UpdatedAt:  created,
			}))
		}
		require.NoError(t, repo.SetActive(ctx, "srv-a"))

		got, err := repo.Get(ctx, tc.id)
		require.NoError(t, err)
		got.Active = tc.active
		got.ConfigPath = "/etc/bind/named.conf"
		require.NoError(t, repo.Update(ctx, got))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.True(t, list[0].Active)
		assert.False(t, list[1].Active)
		got, err = repo.Get(ctx, tc.id)
		require.NoError(t, err)
		assert.Equal(t, "/etc/bind/named.conf", got.ConfigPath)
	}

	testCases := []testCase{
		{name: "inactive target written as active", id: "srv-b", active: true},
		{name: "active target written as inactive", id: "srv-a", active: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_TargetRepository_inRegistry(t *testing.T) {
	ctx := context.Background()
	r := registry.New(testRepository(t), nil)

	a, err := r.AddTarget(ctx, registry.ServerTarget{Host: "ns1.example.com", User: "root", Password: "x"})
	require.NoError(t, err)
	b, err := r.AddTarget(ctx, registry.ServerTarget{Host: "ns2.example.com", User: "root", Password: "x"})
	require.NoError(t, err)
	assert.True(t, a.Active)
	assert.False(t, b.Active)

	require.NoError(t, r.DeleteTarget(ctx, a.ID))
	active, err := r.ActiveTarget(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.ID, active.ID)
}
