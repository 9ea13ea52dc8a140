package repository

import (
	"context"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// CleanupLogRepository persistencia de las corridas del barrido de limpieza.
type CleanupLogRepository interface {
	Create(ctx context.Context, e *entity.CleanupLogEntry) error
	List(ctx context.Context, limit, offset int) ([]*entity.CleanupLogEntry, error)
}
