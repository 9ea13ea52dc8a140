package entity

import "time"

// InventoryRecord es la fila del libro de existencias: cantidad en mano por (sku, bin).
// Invariantes: Quantity nunca negativa; a lo sumo una fila por par (SKUID, Bin)
// (UNIQUE (sku_id, bin) en la tabla inventory).
type InventoryRecord struct {
	ID        string
	SKUID     string
	Bin       string // referencia por nombre a bins (denormalizada, validada en el borde)
	Name      string
	Quantity  int64
	UpdatedAt time.Time
	CreatedAt time.Time
}
