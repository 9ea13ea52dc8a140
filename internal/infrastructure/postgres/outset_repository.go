package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.OutsetRepository = (*OutsetRepo)(nil)

// OutsetRepo implementación de OutsetRepository sobre PostgreSQL (usable con pool o tx).
type OutsetRepo struct {
	q Querier
}

// NewOutsetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutsetRepository(q Querier) *OutsetRepo {
	return &OutsetRepo{q: q}
}

const outsetColumns = `id, sku_id, bin, quantity, customer_name, invoice_no, batch_id, user_id, user_name, created_at`

const insertOutsetQuery = `
	INSERT INTO outsets (id, sku_id, bin, quantity, customer_name, invoice_no, batch_id, user_id, user_name, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create persiste un despacho de salida.
func (r *OutsetRepo) Create(ctx context.Context, rec *entity.OutsetRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, insertOutsetQuery,
		rec.ID, rec.SKUID, rec.Bin, rec.Quantity, rec.CustomerName, rec.InvoiceNo,
		rec.BatchID, rec.UserID, rec.UserName, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outset: %w", err)
	}
	return nil
}

// CreateMany inserta las filas de un lote en una sola ida (pgx batch).
func (r *OutsetRepo) CreateMany(ctx context.Context, recs []*entity.OutsetRecord) error {
	if len(recs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, rec := range recs {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		batch.Queue(insertOutsetQuery,
			rec.ID, rec.SKUID, rec.Bin, rec.Quantity, rec.CustomerName, rec.InvoiceNo,
			rec.BatchID, rec.UserID, rec.UserName, rec.CreatedAt,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range recs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert outset batch: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un despacho por id, o nil si no existe.
func (r *OutsetRepo) GetByID(ctx context.Context, id string) (*entity.OutsetRecord, error) {
	query := `SELECT ` + outsetColumns + ` FROM outsets WHERE id = $1`
	var rec entity.OutsetRecord
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.SKUID, &rec.Bin, &rec.Quantity, &rec.CustomerName, &rec.InvoiceNo,
		&rec.BatchID, &rec.UserID, &rec.UserName, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outset: %w", err)
	}
	return &rec, nil
}

// Delete elimina un despacho por id.
func (r *OutsetRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM outsets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete outset: %w", err)
	}
	return nil
}

// List lista despachos con filtros opcionales, del más reciente al más antiguo.
func (r *OutsetRepo) List(ctx context.Context, f repository.OutsetFilter, limit, offset int) ([]*entity.OutsetRecord, error) {
	query := `
		SELECT ` + outsetColumns + ` FROM outsets
		WHERE ($1 = '' OR sku_id = $1)
		  AND ($2 = '' OR bin = $2)
		  AND ($3 = '' OR customer_name = $3)
		  AND ($4 = '' OR invoice_no = $4)
		  AND ($5 = '' OR batch_id = $5)
		ORDER BY created_at DESC LIMIT $6 OFFSET $7`
	rows, err := r.q.Query(ctx, query, f.SKUID, f.Bin, f.CustomerName, f.InvoiceNo, f.BatchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list outsets: %w", err)
	}
	defer rows.Close()
	return collectOutsets(rows)
}

// ListByBatch devuelve todas las filas de un lote.
func (r *OutsetRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.OutsetRecord, error) {
	query := `SELECT ` + outsetColumns + ` FROM outsets WHERE batch_id = $1 ORDER BY sku_id, bin`
	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list outsets by batch: %w", err)
	}
	defer rows.Close()
	return collectOutsets(rows)
}

// DeleteByBatch borra todas las filas de un lote y devuelve cuántas eran.
func (r *OutsetRepo) DeleteByBatch(ctx context.Context, batchID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM outsets WHERE batch_id = $1`, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete outsets by batch: %w", err)
	}
	return tag.RowsAffected(), nil
}

func collectOutsets(rows pgx.Rows) ([]*entity.OutsetRecord, error) {
	var list []*entity.OutsetRecord
	for rows.Next() {
		var rec entity.OutsetRecord
		if err := rows.Scan(&rec.ID, &rec.SKUID, &rec.Bin, &rec.Quantity, &rec.CustomerName, &rec.InvoiceNo,
			&rec.BatchID, &rec.UserID, &rec.UserName, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outset: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
