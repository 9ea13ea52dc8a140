package entity

import "time"

// InsetRecord es un recibo de entrada: una recepción de mercancía contra un (sku, bin).
// Inmutable una vez creado, salvo el merge por upsert durante importaciones de Excel
// (mismo sku+bin en el mismo import suma cantidades en vez de duplicar fila).
type InsetRecord struct {
	ID        string
	SKU       string
	OrderNo   string
	Bin       string
	Quantity  int64
	UserID    string
	UserName  string
	CreatedAt time.Time
}
