package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// InsetUseCase registra recibos de entrada. El ajuste del libro y la inserción
// del recibo van en UNA transacción: nunca queda stock sumado sin recibo ni
// recibo sin stock. La auditoría se escribe después del commit, best-effort.
type InsetUseCase struct {
	txRunner  TxRunner
	insetRepo repository.InsetRepository
	audit     *AuditRecorder
}

// NewInsetUseCase construye el caso de uso.
func NewInsetUseCase(txRunner TxRunner, insetRepo repository.InsetRepository, audit *AuditRecorder) *InsetUseCase {
	return &InsetUseCase{txRunner: txRunner, insetRepo: insetRepo, audit: audit}
}

// RecordInbound valida y persiste una entrada, incrementando el libro.
func (uc *InsetUseCase) RecordInbound(ctx context.Context, in dto.CreateInsetRequest, user entity.ActorRef) (*dto.InsetResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.OrderNo = strings.TrimSpace(in.OrderNo)
	in.Bin = strings.TrimSpace(in.Bin)
	if in.SKU == "" || in.OrderNo == "" || in.Bin == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	rec := &entity.InsetRecord{
		SKU:       in.SKU,
		OrderNo:   in.OrderNo,
		Bin:       in.Bin,
		Quantity:  in.Quantity,
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: now,
	}
	var updated *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		insetRepo repository.InsetRepository,
		_ repository.OutsetRepository,
		_ repository.BinRepository,
	) error {
		var err error
		updated, err = AdjustStock(ctx, invRepo, in.SKU, in.Bin, in.Quantity, "")
		if err != nil {
			return err
		}
		return insetRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.RecordAsync(entity.AuditActionCreate, "insets", rec.ID, map[string]any{
		"sku":      rec.SKU,
		"orderNo":  rec.OrderNo,
		"bin":      rec.Bin,
		"quantity": rec.Quantity,
		"newStock": updated.Quantity,
	}, user)

	invResp := ToInventoryResponse(updated)
	return &dto.InsetResponse{
		ID:        rec.ID,
		SKU:       rec.SKU,
		OrderNo:   rec.OrderNo,
		Bin:       rec.Bin,
		Quantity:  rec.Quantity,
		UserName:  rec.UserName,
		CreatedAt: rec.CreatedAt,
		Inventory: &invResp,
	}, nil
}

// List lista recibos de entrada.
func (uc *InsetUseCase) List(ctx context.Context, f repository.InsetFilter, limit, offset int) ([]*entity.InsetRecord, error) {
	return uc.insetRepo.List(ctx, f, limit, offset)
}

// ToInsetResponse mapea la entidad al DTO de respuesta (sin fila de inventario).
func ToInsetResponse(rec *entity.InsetRecord) dto.InsetResponse {
	return dto.InsetResponse{
		ID:        rec.ID,
		SKU:       rec.SKU,
		OrderNo:   rec.OrderNo,
		Bin:       rec.Bin,
		Quantity:  rec.Quantity,
		UserName:  rec.UserName,
		CreatedAt: rec.CreatedAt,
	}
}
