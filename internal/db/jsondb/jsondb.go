// Package jsondb keeps materials in memory and persists them to a JSON
// file on Close. The file holds a JSON array of material objects.
package jsondb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/materials/internal/models"
)

type JSONDB struct {
	fileName string
	mu       sync.RWMutex
	Cache    CacheStruct
}

// CacheStruct holds the materials by id and the order they were added in.
type CacheStruct struct {
	Materials map[string]models.Material
	Order     []string
}

// NewCache builds a cache from materials, keeping their order. A later
// material with an already seen id replaces the earlier one.
func NewCache(materials []models.Material) (CacheStruct, error) {
	cache := CacheStruct{
		Materials: make(map[string]models.Material, len(materials)),
		Order:     make([]string, 0, len(materials)),
	}
	for _, material := range materials {
		id := material.ID()
		if id == "" {
			return CacheStruct{}, models.ErrMaterialWithoutID
		}
		if _, exists := cache.Materials[id]; !exists {
			cache.Order = append(cache.Order, id)
		}
		cache.Materials[id] = material.Clone()
	}

	return cache, nil
}

func initDBFile(fileName string) error {
	return os.WriteFile(fileName, []byte("[]\n"), 0644)
}

func writeToJSONFile(fileName string, materials []models.Material) error {
	jsonData, err := json.MarshalIndent(materials, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string) ([]models.Material, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var materials []models.Material
	decoder := json.NewDecoder(file)
	err = decoder.Decode(&materials)
	if err != nil {
		return nil, err
	}

	return materials, nil
}

// New loads the materials stored in fileName, creating an empty file if
// it does not exist.
func New(fileName string) (*JSONDB, error) {
	materials, err := parseJSONFile(fileName)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		err := initDBFile(fileName)
		if err != nil {
			return nil, err
		}
	}

	cache, err := NewCache(materials)
	if err != nil {
		return nil, err
	}

	return &JSONDB{
		fileName: fileName,
		Cache:    cache,
	}, nil
}

func (db *JSONDB) Ping(ctx context.Context) error {
	return nil
}

// Close writes the materials back to the file.
func (db *JSONDB) Close() error {
	materials, err := db.AllMaterials(context.Background())
	if err != nil {
		return err
	}

	return writeToJSONFile(db.fileName, materials)
}

func (db *JSONDB) GetMaterial(ctx context.Context, id string) (models.Material, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	material, found := db.Cache.Materials[id]
	if !found {
		return nil, models.ErrMaterialNotFound
	}

	return material.Clone(), nil
}

// UpdateMaterial merges the fields of material into the stored record
// with the same id.
func (db *JSONDB) UpdateMaterial(ctx context.Context, material models.Material) error {
	id := material.ID()
	if id == "" {
		return models.ErrMaterialWithoutID
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	stored, found := db.Cache.Materials[id]
	if !found {
		return models.ErrMaterialNotFound
	}

	updated := stored.Clone()
	for k, v := range material {
		updated[k] = v
	}
	db.Cache.Materials[id] = updated

	return nil
}

func (db *JSONDB) DeleteMaterial(ctx context.Context, id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, found := db.Cache.Materials[id]; !found {
		return models.ErrMaterialNotFound
	}
	db.removeLocked(id)

	return nil
}

// DeleteMaterials deletes every listed material that exists and reports
// how many were removed. Unknown and repeated ids are skipped.
func (db *JSONDB) DeleteMaterials(ctx context.Context, ids []string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	deleted := 0
	for _, id := range funk.UniqString(ids) {
		if _, found := db.Cache.Materials[id]; !found {
			continue
		}
		db.removeLocked(id)
		deleted++
	}

	return deleted, nil
}

// GetMaterialsPage returns page current (counted from 1) of size pageSize.
func (db *JSONDB) GetMaterialsPage(ctx context.Context, current, pageSize int) (models.PageInfo, error) {
	if current < 1 || pageSize < 1 {
		return models.PageInfo{}, fmt.Errorf("%w: page %d of size %d", models.ErrInvalidPage, current, pageSize)
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	page := models.PageInfo{
		Current:  current,
		PageSize: pageSize,
		Total:    len(db.Cache.Order),
		Records:  []models.Material{},
	}

	total := len(db.Cache.Order)
	skip := current - 1
	if skip >= total || (skip > 0 && pageSize >= total) {
		return page, nil
	}
	start := skip * pageSize
	if start >= total {
		return page, nil
	}
	end := start + min(pageSize, total-start)

	for _, id := range db.Cache.Order[start:end] {
		page.Records = append(page.Records, db.Cache.Materials[id].Clone())
	}

	return page, nil
}

func (db *JSONDB) AllMaterials(ctx context.Context) ([]models.Material, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make([]models.Material, 0, len(db.Cache.Order))
	for _, id := range db.Cache.Order {
		result = append(result, db.Cache.Materials[id].Clone())
	}

	return result, nil
}

func (db *JSONDB) removeLocked(id string) {
	delete(db.Cache.Materials, id)
	db.Cache.Order = funk.FilterString(db.Cache.Order, func(existing string) bool {
		return existing != id
	})
}
