package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/specbook/pkg/types"
)

func sqliteConfig(dir string) types.Config {
	cfg := types.DefaultConfig(dir)
	cfg.Backend = types.BackendSQLite
	return cfg
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(sqliteConfig(tmpDir)))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, DBFile))
	assert.NoError(t, err, "specbook.db not created")

	assert.ErrorIs(t, b.Attach(sqliteConfig(tmpDir)), types.ErrAlreadyAttached)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Load(types.DocTests)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.ErrorIs(t, b.Save(types.DocTests, []byte(`{}`)), types.ErrStoreDetached)
	_, err = b.Revisions(types.DocTests, 1)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestBackend_LoadMissing(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))
	defer b.Detach()

	_, err := b.Load(types.DocParameters)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestBackend_SaveLoad(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))
	defer b.Detach()

	require.NoError(t, b.Save(types.DocParameters, []byte(`{"Devices":{}}`)))
	require.NoError(t, b.Save(types.DocParameters, []byte(`{"Users":{}}`)))
	require.NoError(t, b.Save(types.DocCommands, []byte(`{}`)))

	data, err := b.Load(types.DocParameters)
	require.NoError(t, err)
	assert.Equal(t, `{"Users":{}}`, string(data))
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(sqliteConfig(dir)))
	require.NoError(t, b.Save(types.DocTests, []byte(`{"Login":{}}`)))
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(sqliteConfig(dir)))
	defer b2.Detach()
	data, err := b2.Load(types.DocTests)
	require.NoError(t, err)
	assert.Equal(t, `{"Login":{}}`, string(data))
}

func TestBackend_Revisions(t *testing.T) {
	b := NewBackend()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	b.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))
	defer b.Detach()

	require.NoError(t, b.Save(types.DocTests, []byte(`{}`)))
	require.NoError(t, b.Save(types.DocTests, []byte(`{"Login":{}}`)))
	require.NoError(t, b.Save(types.DocCommands, []byte(`{}`)))

	revs, err := b.Revisions(types.DocTests, 0)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, len(`{"Login":{}}`), revs[0].Size)
	assert.Equal(t, base.Add(2*time.Minute), revs[0].CreatedAt)
	assert.NotEqual(t, revs[0].ID, revs[1].ID)

	revs, err = b.Revisions(types.DocTests, 1)
	require.NoError(t, err)
	assert.Len(t, revs, 1)
}

func TestBackend_RevisionsOrderSubSecond(t *testing.T) {
	b := NewBackend()
	times := []time.Time{
		time.Date(2026, 3, 1, 0, 0, 5, 100_000_000, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 5, 120_000_000, time.UTC),
	}
	tick := 0
	b.now = func() time.Time {
		at := times[tick]
		tick++
		return at
	}
	require.NoError(t, b.Attach(sqliteConfig(t.TempDir())))
	defer b.Detach()

	require.NoError(t, b.Save(types.DocTests, []byte(`{}`)))
	require.NoError(t, b.Save(types.DocTests, []byte(`{"Login":{}}`)))

	revs, err := b.Revisions(types.DocTests, 0)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, times[1], revs[0].CreatedAt)
	assert.Equal(t, len(`{"Login":{}}`), revs[0].Size)
	assert.Equal(t, times[0], revs[1].CreatedAt)
}
