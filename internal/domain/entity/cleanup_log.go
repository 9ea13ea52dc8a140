package entity

import "time"

// Estados de una corrida del barrido de limpieza.
const (
	CleanupStatusPending   = "pending"
	CleanupStatusCompleted = "completed"
	CleanupStatusFailed    = "failed"
)

// CleanupLogEntry registra una corrida del barrido: qué se pretendía borrar,
// qué se borró confirmado, y el detalle por fila eliminada.
type CleanupLogEntry struct {
	ID                 string
	CleanupDate        time.Time
	ItemsRemoved       int // filas seleccionadas para borrar
	ActualItemsRemoved int // filas confirmadas por el DELETE
	Items              []CleanupItem
	Status             string
	ErrorMessage       string
	CreatedAt          time.Time
}

// CleanupItem detalle de una fila de inventario eliminada por el barrido.
type CleanupItem struct {
	SKUID        string
	Bin          string
	LastUpdated  time.Time
	DaysInactive int
}
