package dto

import "time"

// InventoryRecordResponse fila del libro de existencias.
type InventoryRecordResponse struct {
	ID        string    `json:"id"`
	SKUID     string    `json:"skuId"`
	Bin       string    `json:"bin"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"lastUpdated"`
}

// AdjustStockRequest body para POST /api/inventory/update (ajuste manual, delta con signo).
type AdjustStockRequest struct {
	SKUID string `json:"skuId"`
	Bin   string `json:"bin"`
	Delta int64  `json:"delta"`
	Name  string `json:"name,omitempty"`
}

// CreateInsetRequest body para POST /api/insets.
type CreateInsetRequest struct {
	SKU      string `json:"sku"`
	OrderNo  string `json:"orderNo"`
	Bin      string `json:"bin"`
	Quantity int64  `json:"quantity"`
}

// InsetResponse recibo de entrada + fila de inventario resultante.
type InsetResponse struct {
	ID        string    `json:"id"`
	SKU       string    `json:"sku"`
	OrderNo   string    `json:"orderNo"`
	Bin       string    `json:"bin"`
	Quantity  int64     `json:"quantity"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`

	Inventory *InventoryRecordResponse `json:"inventory,omitempty"`
}

// CreateOutsetRequest body para POST /api/outsets.
type CreateOutsetRequest struct {
	SKUID        string `json:"skuId"`
	Bin          string `json:"bin"`
	Quantity     int64  `json:"quantity"`
	CustomerName string `json:"customerName"`
	InvoiceNo    string `json:"invoiceNo"`
}

// OutsetResponse despacho de salida.
type OutsetResponse struct {
	ID           string    `json:"id"`
	SKUID        string    `json:"skuId"`
	Bin          string    `json:"bin"`
	Quantity     int64     `json:"quantity"`
	CustomerName string    `json:"customerName"`
	InvoiceNo    string    `json:"invoiceNo"`
	BatchID      *string   `json:"batchId,omitempty"`
	UserName     string    `json:"userName"`
	CreatedAt    time.Time `json:"createdAt"`
}

// StockShortage detalle de un rechazo por stock insuficiente o sku/bin desconocido.
// AlternateBins guía al caller hacia otros bins que sí tienen el sku.
type StockShortage struct {
	SKUID         string                    `json:"skuId"`
	Bin           string                    `json:"bin"`
	Requested     int64                     `json:"requested"`
	Available     int64                     `json:"available"`
	AlternateBins []InventoryRecordResponse `json:"alternateBins,omitempty"`
}

// BatchOutsetItem línea de un lote de salida.
type BatchOutsetItem struct {
	SKUID    string `json:"skuId"`
	Bin      string `json:"bin"`
	Quantity int64  `json:"quantity"`
}

// BatchOutsetRequest body para POST /api/outsets/batch.
type BatchOutsetRequest struct {
	Items        []BatchOutsetItem `json:"items"`
	CustomerName string            `json:"customerName"`
	InvoiceNo    string            `json:"invoiceNo"`
}

// BatchItemError error de validación de una línea del lote.
type BatchItemError struct {
	Index     int    `json:"index"`
	SKUID     string `json:"skuId"`
	Bin       string `json:"bin"`
	Requested int64  `json:"requested"`
	Available int64  `json:"available"`
	Message   string `json:"message"`
}

// BatchErrorResponse cuerpo de un lote rechazado: todas las líneas inválidas.
type BatchErrorResponse struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Items   []BatchItemError `json:"items"`
}

// BatchOutsetResponse resultado de un lote confirmado.
type BatchOutsetResponse struct {
	BatchID string           `json:"batchId"`
	Records []OutsetResponse `json:"records"`
}
