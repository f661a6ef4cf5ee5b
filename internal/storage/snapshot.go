package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/daVinciBot1495/halite-3/internal/codec"
	"github.com/daVinciBot1495/halite-3/internal/model"
)

// LoadSnapshot reads a value-table snapshot file. A missing file is a
// cold start and yields an empty table; a malformed file is fatal.
func LoadSnapshot(path string) (map[model.StateAction]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[model.StateAction]float64), nil
		}
		return nil, err
	}
	values, err := codec.Load(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return values, nil
}

// WriteSnapshot persists the value table to path, replacing any
// previous snapshot.
func WriteSnapshot(path string, values map[model.StateAction]float64) error {
	data, err := codec.Save(values)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
