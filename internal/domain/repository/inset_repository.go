package repository

import (
	"context"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
)

// InsetFilter filtros opcionales para listados de entradas.
type InsetFilter struct {
	SKU     string
	Bin     string
	OrderNo string
}

// InsetRepository persistencia de recibos de entrada.
type InsetRepository interface {
	// Create persiste un recibo nuevo; domain.ErrDuplicate si ya existe uno
	// para (sku, bin, orderNo).
	Create(ctx context.Context, rec *entity.InsetRecord) error
	List(ctx context.Context, f InsetFilter, limit, offset int) ([]*entity.InsetRecord, error)
	// UpsertImport inserta el recibo o, si ya existe uno para (sku, bin,
	// orderNo), le suma la cantidad. Atómico: filas duplicadas procesadas en
	// paralelo terminan fusionadas en un solo recibo.
	UpsertImport(ctx context.Context, rec *entity.InsetRecord) error
}
