package usecase

import (
	"context"
	"strings"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// MetadataUseCase administra bins y catálogos auxiliares (tallas, colores,
// empaques, categorías). Son tablas de referencia: el inventario guarda los
// valores denormalizados, así que renombrar o borrar aquí no toca existencias.
type MetadataUseCase struct {
	binRepo  repository.BinRepository
	metaRepo repository.MetadataRepository
	audit    *inventory.AuditRecorder
}

// NewMetadataUseCase construye el caso de uso de metadatos.
func NewMetadataUseCase(binRepo repository.BinRepository, metaRepo repository.MetadataRepository, audit *inventory.AuditRecorder) *MetadataUseCase {
	return &MetadataUseCase{binRepo: binRepo, metaRepo: metaRepo, audit: audit}
}

// ListBins lista bins; includeInactive incluye los dados de baja.
func (uc *MetadataUseCase) ListBins(ctx context.Context, includeInactive bool) ([]*dto.BinResponse, error) {
	bins, err := uc.binRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BinResponse, 0, len(bins))
	for _, b := range bins {
		out = append(out, &dto.BinResponse{
			ID:        b.ID,
			Name:      b.Name,
			IsActive:  b.IsActive,
			CreatedBy: b.CreatedBy,
			CreatedAt: b.CreatedAt,
		})
	}
	return out, nil
}

// CreateBin da de alta un bin (o reactiva uno inactivo con el mismo nombre).
// Devuelve ErrDuplicate si ya existe activo.
func (uc *MetadataUseCase) CreateBin(ctx context.Context, name string, actor entity.ActorRef) (*dto.BinResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	created, err := uc.binRepo.UpsertByName(ctx, name, actor.ID)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, domain.ErrDuplicate
	}
	bin, err := uc.binRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if bin == nil {
		return nil, domain.ErrNotFound
	}
	uc.audit.RecordAsync(entity.AuditActionCreate, "bins", bin.ID, map[string]any{"name": name}, actor)
	return &dto.BinResponse{
		ID:        bin.ID,
		Name:      bin.Name,
		IsActive:  bin.IsActive,
		CreatedBy: bin.CreatedBy,
		CreatedAt: bin.CreatedAt,
	}, nil
}

// RenameBin cambia el nombre de un bin. Las filas de inventario que apuntaban
// al nombre viejo no se tocan.
func (uc *MetadataUseCase) RenameBin(ctx context.Context, id, newName string, actor entity.ActorRef) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.binRepo.Rename(ctx, id, newName); err != nil {
		return err
	}
	uc.audit.RecordAsync(entity.AuditActionUpdate, "bins", id, map[string]any{"name": newName}, actor)
	return nil
}

// DeactivateBin baja lógica del bin: deja de ofrecerse como destino pero
// conserva el registro.
func (uc *MetadataUseCase) DeactivateBin(ctx context.Context, id string, actor entity.ActorRef) error {
	if err := uc.binRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	uc.audit.RecordAsync(entity.AuditActionDelete, "bins", id, nil, actor)
	return nil
}

// ListMetadata lista un catálogo auxiliar por tipo (sizes, colors, packs, categories).
func (uc *MetadataUseCase) ListMetadata(ctx context.Context, metaType string) ([]*dto.MetadataItemResponse, error) {
	items, err := uc.metaRepo.List(ctx, metaType)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MetadataItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, &dto.MetadataItemResponse{ID: it.ID, Name: it.Name, CreatedAt: it.CreatedAt})
	}
	return out, nil
}

// CreateMetadata agrega una entrada a un catálogo.
func (uc *MetadataUseCase) CreateMetadata(ctx context.Context, metaType, name string, actor entity.ActorRef) (*dto.MetadataItemResponse, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.metaRepo.Create(ctx, metaType, name)
	if err != nil {
		return nil, err
	}
	uc.audit.RecordAsync(entity.AuditActionCreate, metaType, item.ID, map[string]any{"name": name}, actor)
	return &dto.MetadataItemResponse{ID: item.ID, Name: item.Name, CreatedAt: item.CreatedAt}, nil
}

// RenameMetadata renombra una entrada de catálogo.
func (uc *MetadataUseCase) RenameMetadata(ctx context.Context, metaType, id, name string, actor entity.ActorRef) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidInput
	}
	if err := uc.metaRepo.Rename(ctx, metaType, id, name); err != nil {
		return err
	}
	uc.audit.RecordAsync(entity.AuditActionUpdate, metaType, id, map[string]any{"name": name}, actor)
	return nil
}

// DeleteMetadata elimina una entrada de catálogo.
func (uc *MetadataUseCase) DeleteMetadata(ctx context.Context, metaType, id string, actor entity.ActorRef) error {
	if err := uc.metaRepo.Delete(ctx, metaType, id); err != nil {
		return err
	}
	uc.audit.RecordAsync(entity.AuditActionDelete, metaType, id, nil, actor)
	return nil
}
