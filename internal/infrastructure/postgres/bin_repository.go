package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.BinRepository = (*BinRepo)(nil)

// BinRepo implementación de BinRepository sobre PostgreSQL (usable con pool o tx).
type BinRepo struct {
	q Querier
}

// NewBinRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBinRepository(q Querier) *BinRepo {
	return &BinRepo{q: q}
}

// UpsertByName crea el bin si no existe, o lo reactiva si estaba inactivo.
// Devuelve true si hubo creación o reactivación. El DO UPDATE condicionado a
// is_active = false hace que un bin ya activo no devuelva fila (ErrNoRows).
func (r *BinRepo) UpsertByName(ctx context.Context, name, createdBy string) (bool, error) {
	query := `
		INSERT INTO bins (id, name, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, true, $3, now(), now())
		ON CONFLICT (name)
		DO UPDATE SET is_active = true, updated_at = now()
		WHERE bins.is_active = false
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query, uuid.New().String(), name, createdBy).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil // ya existía y estaba activo
		}
		return false, fmt.Errorf("upsert bin: %w", err)
	}
	return true, nil
}

// GetByName obtiene un bin por nombre, o nil si no existe.
func (r *BinRepo) GetByName(ctx context.Context, name string) (*entity.Bin, error) {
	query := `SELECT id, name, is_active, created_by, created_at, updated_at FROM bins WHERE name = $1`
	var b entity.Bin
	err := r.q.QueryRow(ctx, query, name).Scan(&b.ID, &b.Name, &b.IsActive, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return &b, nil
}

// List lista bins; por defecto solo los activos.
func (r *BinRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Bin, error) {
	query := `
		SELECT id, name, is_active, created_by, created_at, updated_at
		FROM bins WHERE is_active OR $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list bins: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bin
	for rows.Next() {
		var b entity.Bin
		if err := rows.Scan(&b.ID, &b.Name, &b.IsActive, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// Rename cambia el nombre de un bin. El nombre sigue siendo único.
func (r *BinRepo) Rename(ctx context.Context, id, newName string) error {
	tag, err := r.q.Exec(ctx, `UPDATE bins SET name = $2, updated_at = now() WHERE id = $1`, id, newName)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("rename bin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate borrado suave: marca el bin como inactivo.
func (r *BinRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE bins SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate bin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
