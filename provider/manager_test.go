// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/hcsecrets/record"
)

type mockStore struct {
	loaded  map[string]Settings
	loadErr error
	saveErr error
	saves   int
	last    map[string]Settings
}

func (m *mockStore) Load() (map[string]Settings, error) {
	return m.loaded, m.loadErr
}

func (m *mockStore) Save(s map[string]Settings) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.last = s
	return nil
}

func TestNewManager(t *testing.T) {
	t.Run("duplicate providers", func(t *testing.T) {
		_, err := NewManager(nil, []Provider{{Name: "vault"}, {Name: "vault"}}, nil)
		assert.Error(t, err)
	})

	t.Run("load error", func(t *testing.T) {
		loadErr := errors.New("corrupt")
		_, err := NewManager(nil, []Provider{{Name: "vault"}}, &mockStore{loadErr: loadErr})
		assert.ErrorIs(t, err, loadErr)
	})

	t.Run("loads settings", func(t *testing.T) {
		store := &mockStore{loaded: map[string]Settings{
			"vault": {Connected: true, Settings: record.Record{"url": record.String("x")}},
		}}
		m, err := NewManager(nil, []Provider{{Name: "vault"}}, store)
		require.NoError(t, err)

		pws, ok := m.ProviderWithSettings("vault")
		require.True(t, ok)
		assert.True(t, pws.Settings.Connected)
		assert.True(t, record.Record{"url": record.String("x")}.Equal(pws.Settings.Settings))
	})
}

func TestManager_ProviderWithSettingsIsACopy(t *testing.T) {
	m, err := NewManager(nil, []Provider{{Name: "vault"}}, nil)
	require.NoError(t, err)
	require.NoError(t, m.SetProviderSettings(context.Background(), "vault", record.Record{"url": record.String("x")}))

	pws, _ := m.ProviderWithSettings("vault")
	pws.Settings.Settings["url"] = record.String("changed")

	again, _ := m.ProviderWithSettings("vault")
	assert.Equal(t, record.String("x"), again.Settings.Settings["url"])

	_, ok := m.ProviderWithSettings("aws")
	assert.False(t, ok)
}

func TestManager_SetProviderSettings(t *testing.T) {
	store := &mockStore{}
	m, err := NewManager(nil, []Provider{{Name: "vault"}}, store)
	require.NoError(t, err)

	require.NoError(t, m.SetProviderSettings(context.Background(), "vault", record.Record{"url": record.String("x")}))
	assert.Equal(t, 1, store.saves)
	assert.True(t, record.Record{"url": record.String("x")}.Equal(store.last["vault"].Settings))

	err = m.SetProviderSettings(context.Background(), "aws", record.Record{})
	assert.True(t, IsProviderNotFound(err))
	assert.Equal(t, 1, store.saves)
}

func TestManager_SetProviderSettingsRollsBack(t *testing.T) {
	saveErr := errors.New("read-only file system")
	store := &mockStore{loaded: map[string]Settings{
		"vault": {Settings: record.Record{"url": record.String("old")}},
	}}
	m, err := NewManager(nil, []Provider{{Name: "vault"}, {Name: "aws"}}, store)
	require.NoError(t, err)
	store.saveErr = saveErr

	err = m.SetProviderSettings(context.Background(), "vault", record.Record{"url": record.String("new")})
	assert.Same(t, saveErr, err)
	pws, _ := m.ProviderWithSettings("vault")
	assert.Equal(t, record.String("old"), pws.Settings.Settings["url"])

	err = m.SetProviderSettings(context.Background(), "aws", record.Record{"region": record.String("us-east-1")})
	assert.Same(t, saveErr, err)
	pws, _ = m.ProviderWithSettings("aws")
	assert.Empty(t, pws.Settings.Settings)
}

func TestManager_SetProviderSettingsCanceled(t *testing.T) {
	m, err := NewManager(nil, []Provider{{Name: "vault"}}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SetProviderSettings(ctx, "vault", record.Record{}), context.Canceled)
}

func TestManager_SetConnected(t *testing.T) {
	m, err := NewManager(nil, []Provider{{Name: "vault"}}, nil)
	require.NoError(t, err)
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	m.now = func() time.Time { return at }

	require.NoError(t, m.SetConnected(context.Background(), "vault", true))
	pws, _ := m.ProviderWithSettings("vault")
	assert.True(t, pws.Settings.Connected)
	require.NotNil(t, pws.Settings.ConnectedAt)
	assert.Equal(t, at, *pws.Settings.ConnectedAt)

	require.NoError(t, m.SetConnected(context.Background(), "vault", false))
	pws, _ = m.ProviderWithSettings("vault")
	assert.False(t, pws.Settings.Connected)
	assert.Nil(t, pws.Settings.ConnectedAt)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewFileStore(path)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	in := map[string]Settings{
		"vault": {
			Connected:   true,
			ConnectedAt: &at,
			Settings: record.Record{
				"url":  record.String("https://vault:8200"),
				"auth": record.Object(record.Record{"token": record.String("abc")}),
			},
		},
	}
	require.NoError(t, store.Save(in))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err = store.Load()
	require.NoError(t, err)
	require.Contains(t, loaded, "vault")
	assert.True(t, loaded["vault"].Connected)
	assert.True(t, at.Equal(*loaded["vault"].ConnectedAt))
	assert.True(t, in["vault"].Settings.Equal(loaded["vault"].Settings))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestFileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err := NewFileStore(bad).Load()
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	loaded, err := NewFileStore(empty).Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestManager_WithFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	providers := []Provider{{Name: "vault"}}

	m, err := NewManager(nil, providers, NewFileStore(path))
	require.NoError(t, err)
	require.NoError(t, m.SetProviderSettings(context.Background(), "vault", record.Record{"token": record.String("abc")}))

	reopened, err := NewManager(nil, providers, NewFileStore(path))
	require.NoError(t, err)
	pws, ok := reopened.ProviderWithSettings("vault")
	require.True(t, ok)
	assert.Equal(t, record.String("abc"), pws.Settings.Settings["token"])
}
