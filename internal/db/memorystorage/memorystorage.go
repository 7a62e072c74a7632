// Package memorystorage is the material storage without a backing file.
package memorystorage

import (
	"github.com/patric-chuzhbe/materials/internal/db/jsondb"
	"github.com/patric-chuzhbe/materials/internal/models"
)

type MemoryStorage struct {
	*jsondb.JSONDB
}

// New creates a storage holding materials.
func New(materials ...models.Material) (*MemoryStorage, error) {
	cache, err := jsondb.NewCache(materials)
	if err != nil {
		return nil, err
	}

	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: cache,
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}
