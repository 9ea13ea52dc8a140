package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo bitácora append-only sobre PostgreSQL. Solo inserta y lista.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

const insertAuditQuery = `
	INSERT INTO audit_logs (id, action, target_table, target_id, changes, user_id, user_name, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Create inserta una entrada de auditoría. Changes se serializa a JSONB.
func (r *AuditLogRepo) Create(ctx context.Context, e *entity.AuditLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	changes, err := json.Marshal(e.Changes)
	if err != nil {
		return fmt.Errorf("marshal audit changes: %w", err)
	}
	_, err = r.q.Exec(ctx, insertAuditQuery,
		e.ID, e.Action, e.TargetTable, e.TargetID, changes, e.UserID, e.UserName, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// CreateMany inserta varias entradas en una sola ida (pgx batch).
func (r *AuditLogRepo) CreateMany(ctx context.Context, es []*entity.AuditLogEntry) error {
	if len(es) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range es {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		changes, err := json.Marshal(e.Changes)
		if err != nil {
			return fmt.Errorf("marshal audit changes: %w", err)
		}
		batch.Queue(insertAuditQuery, e.ID, e.Action, e.TargetTable, e.TargetID, changes, e.UserID, e.UserName, e.CreatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range es {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert audit log batch: %w", err)
		}
	}
	return nil
}

// List consulta la bitácora con filtros opcionales, del más reciente al más antiguo.
func (r *AuditLogRepo) List(ctx context.Context, f repository.AuditFilter, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, action, target_table, target_id, changes, user_id, user_name, created_at
		FROM audit_logs
		WHERE ($1 = '' OR action = $1)
		  AND ($2 = '' OR target_table = $2)
		  AND ($3 = '' OR user_id = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, f.Action, f.TargetTable, f.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		var changes []byte
		if err := rows.Scan(&e.ID, &e.Action, &e.TargetTable, &e.TargetID, &changes, &e.UserID, &e.UserName, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, fmt.Errorf("unmarshal audit changes: %w", err)
			}
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
