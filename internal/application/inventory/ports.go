package inventory

import (
	"context"

	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: entradas,
// salidas y lotes mutan el libro de existencias y sus registros en un solo commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		insetRepo repository.InsetRepository,
		outsetRepo repository.OutsetRepository,
		binRepo repository.BinRepository,
	) error) error
}
