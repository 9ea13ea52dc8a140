package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
// Los ajustes de cantidad son sentencias atómicas: la fila serializa escritores
// concurrentes al mismo (sku, bin) sin read-modify-save.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, sku_id, bin, name, quantity, created_at, updated_at`

func scanInventory(row pgx.Row) (*entity.InventoryRecord, error) {
	var rec entity.InventoryRecord
	err := row.Scan(&rec.ID, &rec.SKUID, &rec.Bin, &rec.Name, &rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Get devuelve la fila para (sku, bin), o nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, skuID, bin string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE sku_id = $1 AND bin = $2`
	rec, err := scanInventory(r.q.QueryRow(ctx, query, skuID, bin))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return rec, nil
}

// Increase suma qty de forma atómica, creando la fila si no existe.
// El UPSERT conserva el nombre original si la fila ya existía.
func (r *InventoryRepo) Increase(ctx context.Context, skuID, bin string, qty int64, name string) (*entity.InventoryRecord, error) {
	query := `
		INSERT INTO inventory (id, sku_id, bin, name, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (sku_id, bin)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING ` + inventoryColumns
	rec, err := scanInventory(r.q.QueryRow(ctx, query, uuid.New().String(), skuID, bin, name, qty))
	if err != nil {
		return nil, fmt.Errorf("increase inventory: %w", err)
	}
	return rec, nil
}

// Decrease resta qty de forma atómica solo si la cantidad no queda negativa.
func (r *InventoryRepo) Decrease(ctx context.Context, skuID, bin string, qty int64) (*entity.InventoryRecord, error) {
	query := `
		UPDATE inventory SET quantity = quantity - $3, updated_at = now()
		WHERE sku_id = $1 AND bin = $2 AND quantity >= $3
		RETURNING ` + inventoryColumns
	rec, err := scanInventory(r.q.QueryRow(ctx, query, skuID, bin, qty))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrease inventory: %w", err)
	}
	// Cero filas: distinguir fila inexistente de stock insuficiente.
	existing, getErr := r.Get(ctx, skuID, bin)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, domain.ErrUnknownItem
	}
	return nil, domain.ErrInsufficientStock
}

// ListInStock lista filas con cantidad > 0, con filtros opcionales por sku y bin.
func (r *InventoryRepo) ListInStock(ctx context.Context, f repository.InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, error) {
	query := `
		SELECT ` + inventoryColumns + ` FROM inventory
		WHERE quantity > 0
		  AND ($1 = '' OR sku_id = $1)
		  AND ($2 = '' OR bin = $2)
		ORDER BY sku_id, bin LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, f.SKUID, f.Bin, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	return collectInventory(rows)
}

// ListBySKU devuelve todas las filas (bins) que tienen el sku.
func (r *InventoryRepo) ListBySKU(ctx context.Context, skuID string) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE sku_id = $1 ORDER BY bin`
	rows, err := r.q.Query(ctx, query, skuID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by sku: %w", err)
	}
	defer rows.Close()
	return collectInventory(rows)
}

// GetManyForUpdate trae y bloquea las filas de los pares pedidos (SELECT FOR UPDATE).
// El ORDER BY fija un orden de bloqueo estable entre transacciones concurrentes.
func (r *InventoryRepo) GetManyForUpdate(ctx context.Context, pairs []repository.SKUBin) ([]*entity.InventoryRecord, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	skus := make([]string, len(pairs))
	bins := make([]string, len(pairs))
	for i, p := range pairs {
		skus[i] = p.SKUID
		bins[i] = p.Bin
	}
	query := `
		SELECT ` + inventoryColumns + ` FROM inventory
		WHERE (sku_id, bin) IN (SELECT * FROM unnest($1::text[], $2::text[]))
		ORDER BY sku_id, bin
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, skus, bins)
	if err != nil {
		return nil, fmt.Errorf("lock inventory rows: %w", err)
	}
	defer rows.Close()
	return collectInventory(rows)
}

// BulkAdjust aplica varios deltas en una sola sentencia.
func (r *InventoryRepo) BulkAdjust(ctx context.Context, deltas []repository.StockDelta) error {
	if len(deltas) == 0 {
		return nil
	}
	skus := make([]string, len(deltas))
	bins := make([]string, len(deltas))
	qtys := make([]int64, len(deltas))
	for i, d := range deltas {
		skus[i] = d.SKUID
		bins[i] = d.Bin
		qtys[i] = d.Delta
	}
	query := `
		UPDATE inventory i
		SET quantity = i.quantity + d.delta, updated_at = now()
		FROM (SELECT unnest($1::text[]) AS sku_id, unnest($2::text[]) AS bin, unnest($3::bigint[]) AS delta) d
		WHERE i.sku_id = d.sku_id AND i.bin = d.bin`
	if _, err := r.q.Exec(ctx, query, skus, bins, qtys); err != nil {
		return fmt.Errorf("bulk adjust inventory: %w", err)
	}
	return nil
}

// SelectDormant devuelve filas con cantidad 0 y updated_at anterior al corte.
func (r *InventoryRepo) SelectDormant(ctx context.Context, cutoff time.Time) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE quantity = 0 AND updated_at < $1`
	rows, err := r.q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("select dormant inventory: %w", err)
	}
	defer rows.Close()
	return collectInventory(rows)
}

// DeleteByIDs borra filas por id y devuelve cuántas se eliminaron.
func (r *InventoryRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete inventory rows: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectInventory(rows pgx.Rows) ([]*entity.InventoryRecord, error) {
	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.SKUID, &rec.Bin, &rec.Name, &rec.Quantity, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
