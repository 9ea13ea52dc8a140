package usecase

import (
	"context"
	"time"

	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/application/inventory"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// AdminUseCase consola de administración: aprobación de cuentas, roles,
// bajas de usuario y consulta de la bitácora de auditoría.
type AdminUseCase struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditLogRepository
	audit     *inventory.AuditRecorder
}

// NewAdminUseCase construye el caso de uso de administración.
func NewAdminUseCase(userRepo repository.UserRepository, auditRepo repository.AuditLogRepository, audit *inventory.AuditRecorder) *AdminUseCase {
	return &AdminUseCase{userRepo: userRepo, auditRepo: auditRepo, audit: audit}
}

// ListUsers lista usuarios paginados.
func (uc *AdminUseCase) ListUsers(ctx context.Context, page dto.PageRequest) ([]*dto.UserResponse, error) {
	users, err := uc.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, entityToUserResponse(u))
	}
	return out, nil
}

// ApproveUser pasa una cuenta pending a active. Aprobar una cuenta ya activa
// es idempotente; una cuenta suspendida se reactiva por este mismo camino.
func (uc *AdminUseCase) ApproveUser(ctx context.Context, id string, actor entity.ActorRef) (*dto.UserResponse, error) {
	return uc.setStatus(ctx, id, entity.UserStatusActive, actor)
}

// SuspendUser pasa una cuenta a suspended: el usuario deja de poder iniciar
// sesión pero su historial de movimientos queda intacto.
func (uc *AdminUseCase) SuspendUser(ctx context.Context, id string, actor entity.ActorRef) (*dto.UserResponse, error) {
	if id == actor.ID {
		return nil, domain.ErrInvalidInput // un admin no puede suspenderse a sí mismo
	}
	return uc.setStatus(ctx, id, entity.UserStatusSuspended, actor)
}

func (uc *AdminUseCase) setStatus(ctx context.Context, id, status string, actor entity.ActorRef) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	old := user.Status
	if old == status {
		return entityToUserResponse(user), nil
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.RecordAsync(entity.AuditActionUpdate, "users", user.ID, map[string]any{
		"field": "status", "old": old, "new": status,
	}, actor)
	return entityToUserResponse(user), nil
}

// SetRole cambia el rol de un usuario. Un admin no puede quitarse su propio
// rol admin: siempre debe quedar al menos ese camino de administración.
func (uc *AdminUseCase) SetRole(ctx context.Context, id, role string, actor entity.ActorRef) (*dto.UserResponse, error) {
	if role != entity.RoleAdmin && role != entity.RoleOperador {
		return nil, domain.ErrInvalidInput
	}
	if id == actor.ID && role != entity.RoleAdmin {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	old := user.Role
	if old == role {
		return entityToUserResponse(user), nil
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.RecordAsync(entity.AuditActionUpdate, "users", user.ID, map[string]any{
		"field": "role", "old": old, "new": role,
	}, actor)
	return entityToUserResponse(user), nil
}

// DeleteUser elimina una cuenta. Los movimientos y auditorías del usuario
// conservan su id y nombre denormalizados.
func (uc *AdminUseCase) DeleteUser(ctx context.Context, id string, actor entity.ActorRef) error {
	if id == actor.ID {
		return domain.ErrInvalidInput // un admin no puede borrarse a sí mismo
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit.RecordAsync(entity.AuditActionDelete, "users", id, map[string]any{
		"email": user.Email, "name": user.Name,
	}, actor)
	return nil
}

// ListAuditLogs consulta la bitácora con filtros opcionales.
func (uc *AdminUseCase) ListAuditLogs(ctx context.Context, f repository.AuditFilter, page dto.PageRequest) ([]*dto.AuditLogResponse, error) {
	entries, err := uc.auditRepo.List(ctx, f, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, &dto.AuditLogResponse{
			ID:          e.ID,
			Action:      e.Action,
			TargetTable: e.TargetTable,
			TargetID:    e.TargetID,
			Changes:     e.Changes,
			UserID:      e.UserID,
			UserName:    e.UserName,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
