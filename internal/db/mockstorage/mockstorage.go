// Package mockstorage provides a testify mock of the material storage.
// Router tests use it to drive the handlers into storage failures.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/materials/internal/models"
)

// StorageMock implements storage.Storage on top of testify's mock.Mock.
type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) GetMaterial(ctx context.Context, id string) (models.Material, error) {
	args := m.Called(ctx, id)
	material, _ := args.Get(0).(models.Material)
	return material, args.Error(1)
}

func (m *StorageMock) UpdateMaterial(ctx context.Context, material models.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *StorageMock) DeleteMaterial(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *StorageMock) DeleteMaterials(ctx context.Context, ids []string) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

func (m *StorageMock) GetMaterialsPage(ctx context.Context, current, pageSize int) (models.PageInfo, error) {
	args := m.Called(ctx, current, pageSize)
	page, _ := args.Get(0).(models.PageInfo)
	return page, args.Error(1)
}

// AllMaterials returns the mocked material list. A nil first return
// value yields a nil slice.
func (m *StorageMock) AllMaterials(ctx context.Context) ([]models.Material, error) {
	args := m.Called(ctx)
	materials, _ := args.Get(0).([]models.Material)
	return materials, args.Error(1)
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks closing the storage and releasing resources.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
