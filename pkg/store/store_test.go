package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/specbook/internal/jsonstore"
	"github.com/mesh-intelligence/specbook/internal/sqlite"
	"github.com/mesh-intelligence/specbook/pkg/types"
)

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(types.BackendJSON)
	require.NoError(t, err)
	assert.IsType(t, &jsonstore.Backend{}, b)

	b, err = NewBackend(types.BackendSQLite)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Backend{}, b)

	_, err = NewBackend("")
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
	_, err = NewBackend("postgres")
	assert.ErrorIs(t, err, types.ErrBackendUnknown)
}

func TestOpenRoundTrip(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := types.DefaultConfig(t.TempDir())
			cfg.Backend = backend
			s, err := Open(cfg)
			require.NoError(t, err)
			defer s.Detach()

			_, err = s.Load(types.DocTests)
			assert.ErrorIs(t, err, types.ErrNotFound)

			require.NoError(t, s.Save(types.DocTests, []byte(`{"Login":{}}`)))
			data, err := s.Load(types.DocTests)
			require.NoError(t, err)
			assert.Equal(t, `{"Login":{}}`, string(data))
		})
	}
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := Open(types.Config{Backend: "json"})
	assert.ErrorIs(t, err, types.ErrBaselineEmpty)
}
