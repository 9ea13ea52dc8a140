package repository

import (
	"context"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// AuditFilter filtros opcionales para la consulta de auditoría.
type AuditFilter struct {
	Action      string
	TargetTable string
	UserID      string
}

// AuditLogRepository bitácora append-only: solo inserta y lista, nunca modifica.
type AuditLogRepository interface {
	Create(ctx context.Context, e *entity.AuditLogEntry) error
	CreateMany(ctx context.Context, es []*entity.AuditLogEntry) error
	List(ctx context.Context, f AuditFilter, limit, offset int) ([]*entity.AuditLogEntry, error)
}
