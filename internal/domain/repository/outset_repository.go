package repository

import (
	"context"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// OutsetFilter filtros opcionales para listados de salidas.
type OutsetFilter struct {
	SKUID        string
	Bin          string
	CustomerName string
	InvoiceNo    string
	BatchID      string
}

// OutsetRepository persistencia de despachos de salida.
type OutsetRepository interface {
	Create(ctx context.Context, rec *entity.OutsetRecord) error
	CreateMany(ctx context.Context, recs []*entity.OutsetRecord) error
	GetByID(ctx context.Context, id string) (*entity.OutsetRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f OutsetFilter, limit, offset int) ([]*entity.OutsetRecord, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.OutsetRecord, error)
	DeleteByBatch(ctx context.Context, batchID string) (int64, error)
}
