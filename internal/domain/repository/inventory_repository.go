package repository

import (
	"context"
	"time"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// SKUBin identifica un par (sku, bin) del libro de existencias.
type SKUBin struct {
	SKUID string
	Bin   string
}

// StockDelta ajuste de cantidad para un par (sku, bin).
type StockDelta struct {
	SKUID string
	Bin   string
	Delta int64
}

// InventoryFilter filtros opcionales para listados de inventario.
type InventoryFilter struct {
	SKUID string
	Bin   string
}

// InventoryRepository es el único camino sancionado para mutar cantidades en mano.
// Increase y Decrease son sentencias atómicas (sin read-modify-save): ajustes
// concurrentes al mismo par serializan en la fila; pares distintos no se bloquean.
type InventoryRepository interface {
	// Get devuelve la fila para (sku, bin), o nil si no existe.
	Get(ctx context.Context, skuID, bin string) (*entity.InventoryRecord, error)
	// Increase suma qty (>0) de forma atómica, creando la fila si no existe
	// (nombre por defecto derivado del sku si name es vacío).
	Increase(ctx context.Context, skuID, bin string, qty int64, name string) (*entity.InventoryRecord, error)
	// Decrease resta qty (>0) de forma atómica solo si la cantidad resultante
	// no queda negativa. Devuelve domain.ErrUnknownItem si la fila no existe y
	// domain.ErrInsufficientStock si existe pero no alcanza.
	Decrease(ctx context.Context, skuID, bin string, qty int64) (*entity.InventoryRecord, error)
	// ListInStock lista filas con cantidad > 0.
	ListInStock(ctx context.Context, f InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, error)
	// ListBySKU devuelve todas las filas (bins) que tienen el sku.
	ListBySKU(ctx context.Context, skuID string) ([]*entity.InventoryRecord, error)
	// GetManyForUpdate trae y bloquea (SELECT FOR UPDATE) las filas de los pares
	// pedidos. Solo tiene sentido dentro de una transacción.
	GetManyForUpdate(ctx context.Context, pairs []SKUBin) ([]*entity.InventoryRecord, error)
	// BulkAdjust aplica varios deltas en una sola sentencia. El caller valida
	// antes que ningún delta deje una fila negativa (lote ya bloqueado).
	BulkAdjust(ctx context.Context, deltas []StockDelta) error
	// SelectDormant devuelve filas con cantidad 0 y updated_at anterior al corte.
	SelectDormant(ctx context.Context, cutoff time.Time) ([]*entity.InventoryRecord, error)
	// DeleteByIDs borra filas por id y devuelve cuántas se eliminaron.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}
