package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// BatchValidationError agrupa TODOS los rechazos de un lote: la validación no
// se detiene en el primer fallo, para que el caller vea el panorama completo.
type BatchValidationError struct {
	Items []dto.BatchItemError
}

func (e *BatchValidationError) Error() string {
	return fmt.Sprintf("lote rechazado: %d líneas inválidas", len(e.Items))
}

// BatchUseCase registra y revierte lotes de salida. Todo lote es all-or-nothing:
// se bloquean las filas afectadas (SELECT FOR UPDATE), se valida el lote completo
// y solo entonces se descuenta y se insertan los despachos, en una transacción.
// Un despacho parcial de un pedido multi-línea nunca es observable.
type BatchUseCase struct {
	txRunner   TxRunner
	outsetRepo repository.OutsetRepository
	audit      *AuditRecorder
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(txRunner TxRunner, outsetRepo repository.OutsetRepository, audit *AuditRecorder) *BatchUseCase {
	return &BatchUseCase{txRunner: txRunner, outsetRepo: outsetRepo, audit: audit}
}

// RecordOutboundBatch ejecuta un lote de salida.
func (uc *BatchUseCase) RecordOutboundBatch(ctx context.Context, in dto.BatchOutsetRequest, user entity.ActorRef) (*dto.BatchOutsetResponse, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.InvoiceNo = strings.TrimSpace(in.InvoiceNo)
	if len(in.Items) == 0 || in.CustomerName == "" || in.InvoiceNo == "" {
		return nil, domain.ErrInvalidInput
	}
	for i := range in.Items {
		in.Items[i].SKUID = strings.TrimSpace(in.Items[i].SKUID)
		in.Items[i].Bin = strings.TrimSpace(in.Items[i].Bin)
		if in.Items[i].SKUID == "" || in.Items[i].Bin == "" || in.Items[i].Quantity < 1 {
			return nil, domain.ErrInvalidInput
		}
	}

	batchID := uuid.New().String()
	now := time.Now()
	records := make([]*entity.OutsetRecord, 0, len(in.Items))

	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.InsetRepository,
		outsetRepo repository.OutsetRepository,
		_ repository.BinRepository,
	) error {
		// 1. Traer y bloquear todas las filas del lote en una sola consulta.
		pairs := dedupePairs(in.Items)
		locked, err := invRepo.GetManyForUpdate(ctx, pairs)
		if err != nil {
			return err
		}
		available := make(map[repository.SKUBin]int64, len(locked))
		for _, rec := range locked {
			available[repository.SKUBin{SKUID: rec.SKUID, Bin: rec.Bin}] = rec.Quantity
		}

		// 2. Validar TODAS las líneas contra el mapa, acumulando el consumo por
		// par para que dos líneas sobre el mismo (sku, bin) no se sobregiren.
		var itemErrs []dto.BatchItemError
		consumed := make(map[repository.SKUBin]int64)
		for i, item := range in.Items {
			key := repository.SKUBin{SKUID: item.SKUID, Bin: item.Bin}
			avail, ok := available[key]
			if !ok {
				itemErrs = append(itemErrs, dto.BatchItemError{
					Index: i, SKUID: item.SKUID, Bin: item.Bin, Requested: item.Quantity,
					Message: "no existe registro de inventario para ese sku y bin",
				})
				continue
			}
			remaining := avail - consumed[key]
			if item.Quantity > remaining {
				itemErrs = append(itemErrs, dto.BatchItemError{
					Index: i, SKUID: item.SKUID, Bin: item.Bin,
					Requested: item.Quantity, Available: remaining,
					Message: "stock insuficiente",
				})
				continue
			}
			consumed[key] += item.Quantity
		}
		if len(itemErrs) > 0 {
			return &BatchValidationError{Items: itemErrs}
		}

		// 3. Validación completa: un solo descuento masivo + inserción de despachos.
		deltas := make([]repository.StockDelta, 0, len(consumed))
		for key, qty := range consumed {
			deltas = append(deltas, repository.StockDelta{SKUID: key.SKUID, Bin: key.Bin, Delta: -qty})
		}
		if err := invRepo.BulkAdjust(ctx, deltas); err != nil {
			return err
		}
		for _, item := range in.Items {
			bID := batchID
			records = append(records, &entity.OutsetRecord{
				SKUID:        item.SKUID,
				Bin:          item.Bin,
				Quantity:     item.Quantity,
				CustomerName: in.CustomerName,
				InvoiceNo:    in.InvoiceNo,
				BatchID:      &bID,
				UserID:       user.ID,
				UserName:     user.Name,
				CreatedAt:    now,
			})
		}
		return outsetRepo.CreateMany(ctx, records)
	})
	if err != nil {
		return nil, err
	}

	// Auditoría post-commit, best-effort: no revierte el lote ya confirmado.
	entries := make([]*entity.AuditLogEntry, len(records))
	for i, rec := range records {
		entries[i] = &entity.AuditLogEntry{
			Action:      entity.AuditActionBatchStockDecrease,
			TargetTable: "outsets",
			TargetID:    rec.ID,
			Changes: map[string]any{
				"batchId":  batchID,
				"skuId":    rec.SKUID,
				"bin":      rec.Bin,
				"quantity": rec.Quantity,
			},
			UserID:    user.ID,
			UserName:  user.Name,
			CreatedAt: now,
		}
	}
	uc.audit.RecordMany(ctx, entries)

	resp := &dto.BatchOutsetResponse{BatchID: batchID}
	for _, rec := range records {
		resp.Records = append(resp.Records, ToOutsetResponse(rec))
	}
	return resp, nil
}

// DeleteBatch revierte un lote completo: restaura las cantidades y borra todos
// los despachos del lote, en una transacción. La restauración usa Increase (un
// upsert) y no un UPDATE masivo: si el barrido de limpieza eliminó la fila de
// inventario entre el lote y su reversión, la fila se recrea en vez de perder
// las unidades en silencio.
func (uc *BatchUseCase) DeleteBatch(ctx context.Context, batchID string, user entity.ActorRef) error {
	var restored []*entity.OutsetRecord
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.InsetRepository,
		outsetRepo repository.OutsetRepository,
		_ repository.BinRepository,
	) error {
		recs, err := outsetRepo.ListByBatch(ctx, batchID)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			return domain.ErrNotFound
		}
		totals := make(map[repository.SKUBin]int64)
		for _, rec := range recs {
			totals[repository.SKUBin{SKUID: rec.SKUID, Bin: rec.Bin}] += rec.Quantity
		}
		for key, qty := range totals {
			if _, err := invRepo.Increase(ctx, key.SKUID, key.Bin, qty, ""); err != nil {
				return err
			}
		}
		if _, err := outsetRepo.DeleteByBatch(ctx, batchID); err != nil {
			return err
		}
		restored = recs
		return nil
	})
	if err != nil {
		return err
	}

	now := time.Now()
	entries := make([]*entity.AuditLogEntry, len(restored))
	for i, rec := range restored {
		entries[i] = &entity.AuditLogEntry{
			Action:      entity.AuditActionBatchStockRestore,
			TargetTable: "outsets",
			TargetID:    rec.ID,
			Changes: map[string]any{
				"batchId":  batchID,
				"skuId":    rec.SKUID,
				"bin":      rec.Bin,
				"restored": rec.Quantity,
			},
			UserID:    user.ID,
			UserName:  user.Name,
			CreatedAt: now,
		}
	}
	uc.audit.RecordMany(ctx, entries)
	return nil
}

// ListByBatch devuelve las líneas de un lote.
func (uc *BatchUseCase) ListByBatch(ctx context.Context, batchID string) ([]*entity.OutsetRecord, error) {
	return uc.outsetRepo.ListByBatch(ctx, batchID)
}

func dedupePairs(items []dto.BatchOutsetItem) []repository.SKUBin {
	seen := make(map[repository.SKUBin]struct{}, len(items))
	pairs := make([]repository.SKUBin, 0, len(items))
	for _, it := range items {
		key := repository.SKUBin{SKUID: it.SKUID, Bin: it.Bin}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pairs = append(pairs, key)
	}
	return pairs
}
