package entity

import "time"

// OutsetRecord es un despacho de salida contra un (sku, bin).
// BatchID agrupa las filas creadas en una misma transacción de lote;
// nil para despachos individuales.
type OutsetRecord struct {
	ID           string
	SKUID        string
	Bin          string
	Quantity     int64
	CustomerName string
	InvoiceNo    string
	BatchID      *string
	UserID       string
	UserName     string
	CreatedAt    time.Time
}
