package repository

import (
	"context"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// BinRepository metadatos de ubicaciones. El nombre es la clave de negocio:
// el inventario referencia bins por nombre, no por id.
type BinRepository interface {
	// UpsertByName crea el bin si no existe (o lo reactiva si estaba inactivo).
	// Devuelve true si hubo creación o reactivación.
	UpsertByName(ctx context.Context, name, createdBy string) (bool, error)
	GetByName(ctx context.Context, name string) (*entity.Bin, error)
	List(ctx context.Context, includeInactive bool) ([]*entity.Bin, error)
	Rename(ctx context.Context, id, newName string) error
	Deactivate(ctx context.Context, id string) error
}

// MetadataRepository catálogos auxiliares (sizes, colors, packs, categories),
// una tabla por tipo; la implementación valida el tipo contra una lista blanca.
type MetadataRepository interface {
	List(ctx context.Context, metaType string) ([]*entity.MetadataItem, error)
	Create(ctx context.Context, metaType, name string) (*entity.MetadataItem, error)
	Rename(ctx context.Context, metaType, id, name string) error
	Delete(ctx context.Context, metaType, id string) error
}
