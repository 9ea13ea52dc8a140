package inventory

import (
	"context"
	"strings"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// LedgerUseCase expone el libro de existencias. AdjustStock es el único camino
// sancionado para cambiar cantidades en mano: delega en sentencias atómicas del
// repositorio, así que escritores concurrentes al mismo (sku, bin) serializan
// en la base y pares distintos avanzan en paralelo.
type LedgerUseCase struct {
	invRepo repository.InventoryRepository
	audit   *AuditRecorder
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(invRepo repository.InventoryRepository, audit *AuditRecorder) *LedgerUseCase {
	return &LedgerUseCase{invRepo: invRepo, audit: audit}
}

// DefaultItemName nombre por defecto para filas nuevas cuando no se suministra uno.
func DefaultItemName(skuID string) string {
	return "Item " + skuID
}

// AdjustStock aplica un delta al par (sku, bin).
//   - delta > 0: suma, creando la fila si no existe (nombre por defecto derivado del sku).
//   - delta < 0: resta solo si no deja la cantidad negativa; domain.ErrUnknownItem
//     si la fila no existe, domain.ErrInsufficientStock si no alcanza.
//   - delta == 0 o claves vacías: domain.ErrInvalidInput.
func AdjustStock(ctx context.Context, invRepo repository.InventoryRepository, skuID, bin string, delta int64, name string) (*entity.InventoryRecord, error) {
	skuID = strings.TrimSpace(skuID)
	bin = strings.TrimSpace(bin)
	if skuID == "" || bin == "" || delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	if delta > 0 {
		if name == "" {
			name = DefaultItemName(skuID)
		}
		return invRepo.Increase(ctx, skuID, bin, delta, name)
	}
	return invRepo.Decrease(ctx, skuID, bin, -delta)
}

// AdjustStock versión del caso de uso sobre el repositorio inyectado (fuera de tx).
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, skuID, bin string, delta int64, name string) (*entity.InventoryRecord, error) {
	return AdjustStock(ctx, uc.invRepo, skuID, bin, delta, name)
}

// ManualAdjust ajuste manual desde la API: aplica el delta y audita según el signo.
func (uc *LedgerUseCase) ManualAdjust(ctx context.Context, in dto.AdjustStockRequest, user entity.ActorRef) (*entity.InventoryRecord, error) {
	rec, err := uc.AdjustStock(ctx, in.SKUID, in.Bin, in.Delta, in.Name)
	if err != nil {
		return nil, err
	}
	action := entity.AuditActionStockIncrease
	if in.Delta < 0 {
		action = entity.AuditActionStockDecrease
	}
	uc.audit.RecordAsync(action, "inventory", rec.ID, map[string]any{
		"skuId": rec.SKUID,
		"bin":   rec.Bin,
		"delta": in.Delta,
		"new":   rec.Quantity,
	}, user)
	return rec, nil
}

// List lista filas en existencia (cantidad > 0).
func (uc *LedgerUseCase) List(ctx context.Context, f repository.InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, error) {
	return uc.invRepo.ListInStock(ctx, f, limit, offset)
}

// ListBySKU devuelve los bins que tienen un sku (incluye cantidad 0).
func (uc *LedgerUseCase) ListBySKU(ctx context.Context, skuID string) ([]*entity.InventoryRecord, error) {
	return uc.invRepo.ListBySKU(ctx, skuID)
}

// Shortage arma el detalle de un rechazo por falta de stock: cantidad disponible
// y bins alternativos que sí tienen el sku, para guiar al caller.
func (uc *LedgerUseCase) Shortage(ctx context.Context, skuID, bin string, requested int64) dto.StockShortage {
	short := dto.StockShortage{SKUID: skuID, Bin: bin, Requested: requested}
	if rec, err := uc.invRepo.Get(ctx, skuID, bin); err == nil && rec != nil {
		short.Available = rec.Quantity
	}
	if others, err := uc.invRepo.ListBySKU(ctx, skuID); err == nil {
		for _, rec := range others {
			if rec.Bin == bin || rec.Quantity == 0 {
				continue
			}
			short.AlternateBins = append(short.AlternateBins, ToInventoryResponse(rec))
		}
	}
	return short
}

// ToInventoryResponse mapea la entidad al DTO de respuesta.
func ToInventoryResponse(rec *entity.InventoryRecord) dto.InventoryRecordResponse {
	return dto.InventoryRecordResponse{
		ID:        rec.ID,
		SKUID:     rec.SKUID,
		Bin:       rec.Bin,
		Name:      rec.Name,
		Quantity:  rec.Quantity,
		UpdatedAt: rec.UpdatedAt,
	}
}
