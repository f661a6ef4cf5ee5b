package storage

import (
	"context"

	"github.com/daVinciBot1495/halite-3/internal/model"
)

// Store defines persistence operations for value tables and training
// telemetry. The per-turn hot path never touches a store; saves happen
// at process lifetime boundaries.
type Store interface {
	Init(ctx context.Context) error
	SaveValueTable(ctx context.Context, id string, values map[model.StateAction]float64) error
	GetValueTable(ctx context.Context, id string) (map[model.StateAction]float64, bool, error)
	SaveGameRecord(ctx context.Context, record model.GameRecord) error
	GetGameRecords(ctx context.Context, runID string) ([]model.GameRecord, bool, error)
}
