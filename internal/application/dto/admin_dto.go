package dto

import "time"

// SetRoleRequest body para POST /api/admin/users/{id}/role.
type SetRoleRequest struct {
	Role string `json:"role"` // admin | operador
}

// AuditLogResponse entrada de auditoría.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	Action      string         `json:"action"`
	TargetTable string         `json:"targetTable"`
	TargetID    string         `json:"targetId"`
	Changes     map[string]any `json:"changes,omitempty"`
	UserID      string         `json:"userId"`
	UserName    string         `json:"userName"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CleanupItemResponse fila eliminada por un barrido.
type CleanupItemResponse struct {
	SKUID        string    `json:"skuId"`
	Bin          string    `json:"bin"`
	LastUpdated  time.Time `json:"lastUpdated"`
	DaysInactive int       `json:"daysInactive"`
}

// CleanupLogResponse corrida del barrido.
type CleanupLogResponse struct {
	ID                 string                `json:"id"`
	CleanupDate        time.Time             `json:"cleanupDate"`
	ItemsRemoved       int                   `json:"itemsRemoved"`
	ActualItemsRemoved int                   `json:"actualItemsRemoved"`
	Items              []CleanupItemResponse `json:"items"`
	Status             string                `json:"status"`
	ErrorMessage       string                `json:"errorMessage,omitempty"`
}

// MetadataItemResponse entrada de catálogo auxiliar.
type MetadataItemResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// BinResponse metadato de ubicación.
type BinResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateNamedRequest body genérico para crear bins y entradas de catálogo.
type CreateNamedRequest struct {
	Name string `json:"name"`
}
