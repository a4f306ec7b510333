// Package sqlite provides the public factory for the SQLite project store
// while keeping implementation details internal.
package sqlite

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/gwen2d/internal/metrics"
	"github.com/mesh-intelligence/gwen2d/internal/sqlite"
	"github.com/mesh-intelligence/gwen2d/pkg/types"
)

// NewStore creates a closed SQLite store. Store metrics are registered with
// reg when it is non-nil.
//
// Example:
//
//	store, err := sqlite.NewStore(types.DefaultConfig(), nil, slog.Default())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//	err = store.Open(ctx, "/home/me/games/demo")
func NewStore(config types.Config, reg prometheus.Registerer, logger *slog.Logger) (types.Store, error) {
	s, err := sqlite.NewStore(config, metrics.New(reg), logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}
