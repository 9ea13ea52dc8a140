package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.MetadataRepository = (*MetadataRepo)(nil)

// Tablas de catálogo admitidas. El nombre de tabla se interpola en el SQL,
// por eso se valida contra esta lista antes de cualquier consulta.
var metadataTables = map[string]string{
	"sizes":      "sizes",
	"colors":     "colors",
	"packs":      "packs",
	"categories": "categories",
}

// MetadataRepo catálogos auxiliares sobre PostgreSQL, una tabla por tipo.
type MetadataRepo struct {
	q Querier
}

// NewMetadataRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMetadataRepository(q Querier) *MetadataRepo {
	return &MetadataRepo{q: q}
}

func metadataTable(metaType string) (string, error) {
	table, ok := metadataTables[metaType]
	if !ok {
		return "", domain.ErrInvalidInput
	}
	return table, nil
}

// List lista las entradas de un catálogo.
func (r *MetadataRepo) List(ctx context.Context, metaType string) ([]*entity.MetadataItem, error) {
	table, err := metadataTable(metaType)
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, fmt.Sprintf(`SELECT id, name, created_at FROM %s ORDER BY name`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var list []*entity.MetadataItem
	for rows.Next() {
		var it entity.MetadataItem
		if err := rows.Scan(&it.ID, &it.Name, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Create inserta una entrada de catálogo. Nombre único por tipo.
func (r *MetadataRepo) Create(ctx context.Context, metaType, name string) (*entity.MetadataItem, error) {
	table, err := metadataTable(metaType)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, name, created_at) VALUES ($1, $2, now()) RETURNING id, name, created_at`, table)
	var it entity.MetadataItem
	if err := r.q.QueryRow(ctx, query, uuid.New().String(), name).Scan(&it.ID, &it.Name, &it.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return &it, nil
}

// Rename cambia el nombre de una entrada de catálogo.
func (r *MetadataRepo) Rename(ctx context.Context, metaType, id, name string) error {
	table, err := metadataTable(metaType)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET name = $2 WHERE id = $1`, table), id, name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("rename %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una entrada de catálogo.
func (r *MetadataRepo) Delete(ctx context.Context, metaType, id string) error {
	table, err := metadataTable(metaType)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
