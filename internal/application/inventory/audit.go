package inventory

import (
	"context"
	"time"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
	"github.com/dfmorales/almacen-api/pkg/logger"
)

// AuditRecorder escribe la bitácora en modo best-effort: un fallo al auditar se
// registra en el log y se traga, nunca bloquea ni revierte la operación de negocio.
// Esto aplica también a los lotes (las entradas se escriben después del commit).
type AuditRecorder struct {
	repo repository.AuditLogRepository
	log  *logger.Logger
}

// NewAuditRecorder construye el recorder.
func NewAuditRecorder(repo repository.AuditLogRepository, log *logger.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

// Record escribe una entrada de auditoría de forma síncrona, tragando el error.
func (a *AuditRecorder) Record(ctx context.Context, action, targetTable, targetID string, changes map[string]any, user entity.ActorRef) {
	entry := &entity.AuditLogEntry{
		Action:      action,
		TargetTable: targetTable,
		TargetID:    targetID,
		Changes:     changes,
		UserID:      user.ID,
		UserName:    user.Name,
		CreatedAt:   time.Now(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.log.Warn().Err(err).Str("action", action).Str("target", targetTable).Msg("fallo al escribir auditoría")
	}
}

// RecordAsync escribe la entrada en background para no bloquear la respuesta.
// Usa un contexto propio: el de la petición muere al responder.
func (a *AuditRecorder) RecordAsync(action, targetTable, targetID string, changes map[string]any, user entity.ActorRef) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		a.Record(ctx, action, targetTable, targetID, changes, user)
	}()
}

// RecordMany escribe varias entradas (post-commit de un lote), tragando el error.
func (a *AuditRecorder) RecordMany(ctx context.Context, entries []*entity.AuditLogEntry) {
	if len(entries) == 0 {
		return
	}
	if err := a.repo.CreateMany(ctx, entries); err != nil {
		a.log.Warn().Err(err).Int("entries", len(entries)).Msg("fallo al escribir auditoría de lote")
	}
}
