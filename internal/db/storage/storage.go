// Package storage describes the material storage the resource stub
// backend serves from.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/materials/internal/models"
)

type Storage interface {
	GetMaterial(ctx context.Context, id string) (models.Material, error)

	UpdateMaterial(ctx context.Context, material models.Material) error

	DeleteMaterial(ctx context.Context, id string) error

	DeleteMaterials(ctx context.Context, ids []string) (int, error)

	GetMaterialsPage(ctx context.Context, current, pageSize int) (models.PageInfo, error)

	AllMaterials(ctx context.Context) ([]models.Material, error)

	Ping(ctx context.Context) error

	Close() error
}
