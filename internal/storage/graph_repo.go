package storage

import (
	"context"

	"github.com/annel0/world-graph/internal/world"
)

// GraphRepository хранит топологию мира (чанки и проходы без террейна)
// во внешнем реляционном хранилище — для аналитики и инструментов,
// которым не нужен BadgerDB целиком.
type GraphRepository interface {
	// SaveTopology перезаписывает топологию мира
	SaveTopology(ctx context.Context, snap *world.GraphSnapshot) error

	// LoadTopology читает топологию; (nil, nil), если мир не сохранялся
	LoadTopology(ctx context.Context) (*world.GraphSnapshot, error)

	Close() error
}
