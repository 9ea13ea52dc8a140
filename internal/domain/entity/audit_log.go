package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditActionCreate             = "CREATE"
	AuditActionUpdate             = "UPDATE"
	AuditActionDelete             = "DELETE"
	AuditActionStockIncrease      = "STOCK_INCREASE"
	AuditActionStockDecrease      = "STOCK_DECREASE"
	AuditActionBatchStockDecrease = "BATCH_STOCK_DECREASE"
	AuditActionBatchStockRestore  = "BATCH_STOCK_RESTORE"
	AuditActionExcelImport        = "EXCEL_IMPORT"
)

// AuditLogEntry es una entrada append-only de la bitácora: la aplicación nunca
// la modifica ni la borra. El payload Changes guarda valores old/new arbitrarios
// y se persiste como JSONB.
type AuditLogEntry struct {
	ID          string
	Action      string
	TargetTable string
	TargetID    string
	Changes     map[string]any
	UserID      string
	UserName    string
	CreatedAt   time.Time
}
