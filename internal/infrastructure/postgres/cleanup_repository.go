package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.CleanupLogRepository = (*CleanupLogRepo)(nil)

// CleanupLogRepo persistencia de corridas del barrido (cabecera + detalle por fila).
type CleanupLogRepo struct {
	q Querier
}

// NewCleanupLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCleanupLogRepository(q Querier) *CleanupLogRepo {
	return &CleanupLogRepo{q: q}
}

// Create inserta la cabecera de la corrida y sus items en una sola ida.
func (r *CleanupLogRepo) Create(ctx context.Context, e *entity.CleanupLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO cleanup_logs (id, cleanup_date, items_removed, actual_items_removed, status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.CleanupDate, e.ItemsRemoved, e.ActualItemsRemoved, e.Status, e.ErrorMessage, e.CreatedAt,
	)
	for _, it := range e.Items {
		batch.Queue(`
			INSERT INTO cleanup_log_items (id, cleanup_log_id, sku_id, bin, last_updated, days_inactive)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), e.ID, it.SKUID, it.Bin, it.LastUpdated, it.DaysInactive,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < len(e.Items)+1; i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert cleanup log: %w", err)
		}
	}
	return nil
}

// List devuelve corridas recientes con su detalle.
func (r *CleanupLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.CleanupLogEntry, error) {
	query := `
		SELECT id, cleanup_date, items_removed, actual_items_removed, status, error_message, created_at
		FROM cleanup_logs ORDER BY cleanup_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cleanup logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.CleanupLogEntry
	for rows.Next() {
		var e entity.CleanupLogEntry
		if err := rows.Scan(&e.ID, &e.CleanupDate, &e.ItemsRemoved, &e.ActualItemsRemoved, &e.Status, &e.ErrorMessage, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cleanup log: %w", err)
		}
		list = append(list, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, e := range list {
		items, err := r.listItems(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		e.Items = items
	}
	return list, nil
}

func (r *CleanupLogRepo) listItems(ctx context.Context, logID string) ([]entity.CleanupItem, error) {
	query := `
		SELECT sku_id, bin, last_updated, days_inactive
		FROM cleanup_log_items WHERE cleanup_log_id = $1 ORDER BY sku_id, bin`
	rows, err := r.q.Query(ctx, query, logID)
	if err != nil {
		return nil, fmt.Errorf("list cleanup items: %w", err)
	}
	defer rows.Close()
	var items []entity.CleanupItem
	for rows.Next() {
		var it entity.CleanupItem
		if err := rows.Scan(&it.SKUID, &it.Bin, &it.LastUpdated, &it.DaysInactive); err != nil {
			return nil, fmt.Errorf("scan cleanup item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
