package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// Estados de cuenta. El registro crea usuarios en pending; un admin los aprueba.
const (
	UserStatusPending   = "pending"
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, operador
	Status       string // pending, active, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ActorRef referencia denormalizada al usuario que ejecuta una operación
// (se copia id y nombre en los registros de movimiento y auditoría).
type ActorRef struct {
	ID   string
	Name string
}
