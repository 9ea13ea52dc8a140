package entity

import "time"

// Bin metadato de ubicación física. Nombre único; IsActive es borrado suave.
// El inventario referencia bins por nombre (no por id): la existencia se valida
// o se crea en el borde (upsert-by-name), no con una FK en la base.
type Bin struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MetadataItem entrada genérica de los catálogos auxiliares (sizes, colors, packs, categories).
type MetadataItem struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
