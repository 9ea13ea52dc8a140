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

// OutsetUseCase registra despachos de salida individuales. Descuento del libro
// e inserción del despacho en una transacción; la auditoría no bloquea la respuesta.
type OutsetUseCase struct {
	txRunner   TxRunner
	outsetRepo repository.OutsetRepository
	ledger     *LedgerUseCase
	audit      *AuditRecorder
}

// NewOutsetUseCase construye el caso de uso.
func NewOutsetUseCase(txRunner TxRunner, outsetRepo repository.OutsetRepository, ledger *LedgerUseCase, audit *AuditRecorder) *OutsetUseCase {
	return &OutsetUseCase{txRunner: txRunner, outsetRepo: outsetRepo, ledger: ledger, audit: audit}
}

// RecordOutbound valida y persiste una salida, descontando el libro.
// Si el par (sku, bin) no existe o no alcanza, el error viene acompañado de un
// detalle con la cantidad disponible y bins alternativos (vía Shortage del handler).
func (uc *OutsetUseCase) RecordOutbound(ctx context.Context, in dto.CreateOutsetRequest, user entity.ActorRef) (*dto.OutsetResponse, error) {
	in.SKUID = strings.TrimSpace(in.SKUID)
	in.Bin = strings.TrimSpace(in.Bin)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.InvoiceNo = strings.TrimSpace(in.InvoiceNo)
	if in.SKUID == "" || in.Bin == "" || in.CustomerName == "" || in.InvoiceNo == "" || in.Quantity < 1 {
		return nil, domain.ErrInvalidInput
	}

	rec := &entity.OutsetRecord{
		SKUID:        in.SKUID,
		Bin:          in.Bin,
		Quantity:     in.Quantity,
		CustomerName: in.CustomerName,
		InvoiceNo:    in.InvoiceNo,
		UserID:       user.ID,
		UserName:     user.Name,
		CreatedAt:    time.Now(),
	}
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.InsetRepository,
		outsetRepo repository.OutsetRepository,
		_ repository.BinRepository,
	) error {
		if _, err := AdjustStock(ctx, invRepo, in.SKUID, in.Bin, -in.Quantity, ""); err != nil {
			return err
		}
		return outsetRepo.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.RecordAsync(entity.AuditActionStockDecrease, "outsets", rec.ID, map[string]any{
		"skuId":    rec.SKUID,
		"bin":      rec.Bin,
		"quantity": rec.Quantity,
		"customer": rec.CustomerName,
		"invoice":  rec.InvoiceNo,
	}, user)

	resp := ToOutsetResponse(rec)
	return &resp, nil
}

// DeleteOutbound elimina un despacho y restaura su cantidad en el libro.
func (uc *OutsetUseCase) DeleteOutbound(ctx context.Context, id string, user entity.ActorRef) error {
	rec, err := uc.outsetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return domain.ErrNotFound
	}
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.InsetRepository,
		outsetRepo repository.OutsetRepository,
		_ repository.BinRepository,
	) error {
		if _, err := AdjustStock(ctx, invRepo, rec.SKUID, rec.Bin, rec.Quantity, ""); err != nil {
			return err
		}
		return outsetRepo.Delete(ctx, rec.ID)
	})
	if err != nil {
		return err
	}
	uc.audit.RecordAsync(entity.AuditActionDelete, "outsets", rec.ID, map[string]any{
		"skuId":    rec.SKUID,
		"bin":      rec.Bin,
		"restored": rec.Quantity,
	}, user)
	return nil
}

// List lista despachos de salida.
func (uc *OutsetUseCase) List(ctx context.Context, f repository.OutsetFilter, limit, offset int) ([]*entity.OutsetRecord, error) {
	return uc.outsetRepo.List(ctx, f, limit, offset)
}

// ToOutsetResponse mapea la entidad al DTO de respuesta.
func ToOutsetResponse(rec *entity.OutsetRecord) dto.OutsetResponse {
	return dto.OutsetResponse{
		ID:           rec.ID,
		SKUID:        rec.SKUID,
		Bin:          rec.Bin,
		Quantity:     rec.Quantity,
		CustomerName: rec.CustomerName,
		InvoiceNo:    rec.InvoiceNo,
		BatchID:      rec.BatchID,
		UserName:     rec.UserName,
		CreatedAt:    rec.CreatedAt,
	}
}
