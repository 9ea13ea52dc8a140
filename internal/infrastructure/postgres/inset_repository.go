package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.InsetRepository = (*InsetRepo)(nil)

// InsetRepo implementación de InsetRepository sobre PostgreSQL (usable con pool o tx).
type InsetRepo struct {
	q Querier
}

// NewInsetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInsetRepository(q Querier) *InsetRepo {
	return &InsetRepo{q: q}
}

// Create persiste un recibo de entrada. domain.ErrDuplicate si ya existe uno
// para el mismo (sku, bin, order_no).
func (r *InsetRepo) Create(ctx context.Context, rec *entity.InsetRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO insets (id, sku, order_no, bin, quantity, user_id, user_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.SKU, rec.OrderNo, rec.Bin, rec.Quantity, rec.UserID, rec.UserName, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inset: %w", err)
	}
	return nil
}

// List lista recibos de entrada con filtros opcionales, del más reciente al más antiguo.
func (r *InsetRepo) List(ctx context.Context, f repository.InsetFilter, limit, offset int) ([]*entity.InsetRecord, error) {
	query := `
		SELECT id, sku, order_no, bin, quantity, user_id, user_name, created_at
		FROM insets
		WHERE ($1 = '' OR sku = $1)
		  AND ($2 = '' OR bin = $2)
		  AND ($3 = '' OR order_no = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.SKU, f.Bin, f.OrderNo, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list insets: %w", err)
	}
	defer rows.Close()
	var list []*entity.InsetRecord
	for rows.Next() {
		var rec entity.InsetRecord
		if err := rows.Scan(&rec.ID, &rec.SKU, &rec.OrderNo, &rec.Bin, &rec.Quantity, &rec.UserID, &rec.UserName, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inset: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// UpsertImport inserta el recibo o suma la cantidad al existente para
// (sku, bin, order_no) en una sola sentencia, así las filas duplicadas de un
// archivo se fusionan aunque se procesen en workers concurrentes.
func (r *InsetRepo) UpsertImport(ctx context.Context, rec *entity.InsetRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	query := `
		INSERT INTO insets (id, sku, order_no, bin, quantity, user_id, user_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sku, bin, order_no)
		DO UPDATE SET quantity = insets.quantity + EXCLUDED.quantity`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.SKU, rec.OrderNo, rec.Bin, rec.Quantity, rec.UserID, rec.UserName, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert inset: %w", err)
	}
	return nil
}
