package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

func TestNewStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	store, err := NewStore(types.DefaultConfig(), reg, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Open(context.Background(), filepath.Join(t.TempDir(), "demo")))
	assert.True(t, store.IsLoaded())

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	_, err = NewStore(types.Config{}, nil, nil)
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}
