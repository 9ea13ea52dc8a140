package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
	"github.com/dfmorales/almacen-api/pkg/logger"
)

// CleanupScheduler barre periódicamente las filas de inventario con cantidad
// cero que no se han movido en el período de retención, y deja constancia de
// cada corrida en cleanup_logs. Un barrido fallido se registra como "failed"
// y el scheduler sigue corriendo: nunca tumba el proceso.
type CleanupScheduler struct {
	invRepo     repository.InventoryRepository
	cleanupRepo repository.CleanupLogRepository
	log         *logger.Logger

	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewCleanupScheduler construye el scheduler. El reloj se inyecta para poder
// probar los cortes de retención sin esperar días reales.
func NewCleanupScheduler(invRepo repository.InventoryRepository, cleanupRepo repository.CleanupLogRepository, log *logger.Logger, retentionDays, intervalHours int, now func() time.Time) *CleanupScheduler {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	if intervalHours <= 0 {
		intervalHours = 24
	}
	if now == nil {
		now = time.Now
	}
	return &CleanupScheduler{
		invRepo:     invRepo,
		cleanupRepo: cleanupRepo,
		log:         log,
		retention:   time.Duration(retentionDays) * 24 * time.Hour,
		interval:    time.Duration(intervalHours) * time.Hour,
		now:         now,
	}
}

// Start lanza el loop: un barrido inmediato y luego uno por intervalo.
// Llamadas repetidas sin Stop de por medio no hacen nada.
func (s *CleanupScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.running = true

	go func() {
		defer close(s.done)
		s.RunNow(ctx)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunNow(ctx)
			}
		}
	}()
	s.log.Info().Dur("interval", s.interval).Dur("retention", s.retention).Msg("scheduler de limpieza iniciado")
}

// Stop detiene el loop y espera a que el barrido en curso termine.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	done := s.done
	s.running = false
	s.mu.Unlock()
	<-done
	s.log.Info().Msg("scheduler de limpieza detenido")
}

// RunNow ejecuta un barrido de inmediato (también lo usa la consola de admin).
func (s *CleanupScheduler) RunNow(ctx context.Context) *entity.CleanupLogEntry {
	now := s.now()
	cutoff := now.Add(-s.retention)

	entry := &entity.CleanupLogEntry{
		CleanupDate: now,
		Status:      entity.CleanupStatusPending,
	}

	dormant, err := s.invRepo.SelectDormant(ctx, cutoff)
	if err != nil {
		return s.finish(ctx, entry, err)
	}
	if len(dormant) == 0 {
		// Sin filas dormidas no hay nada que dejar en bitácora: solo se loguea.
		entry.Status = entity.CleanupStatusCompleted
		s.log.Info().Time("cutoff", cutoff).Msg("barrido sin filas dormidas")
		return entry
	}

	ids := make([]string, 0, len(dormant))
	entry.Items = make([]entity.CleanupItem, 0, len(dormant))
	for _, rec := range dormant {
		ids = append(ids, rec.ID)
		entry.Items = append(entry.Items, entity.CleanupItem{
			SKUID:        rec.SKUID,
			Bin:          rec.Bin,
			LastUpdated:  rec.UpdatedAt,
			DaysInactive: int(now.Sub(rec.UpdatedAt).Hours() / 24),
		})
	}
	entry.ItemsRemoved = len(ids)

	removed, err := s.invRepo.DeleteByIDs(ctx, ids)
	if err != nil {
		return s.finish(ctx, entry, err)
	}
	entry.ActualItemsRemoved = int(removed)
	entry.Status = entity.CleanupStatusCompleted
	s.log.Info().Int("selected", entry.ItemsRemoved).Int64("removed", removed).Time("cutoff", cutoff).Msg("barrido de limpieza completado")
	return s.finish(ctx, entry, nil)
}

// ListRuns lista las corridas registradas, más reciente primero.
func (s *CleanupScheduler) ListRuns(ctx context.Context, limit, offset int) ([]*entity.CleanupLogEntry, error) {
	return s.cleanupRepo.List(ctx, limit, offset)
}

func (s *CleanupScheduler) finish(ctx context.Context, entry *entity.CleanupLogEntry, sweepErr error) *entity.CleanupLogEntry {
	if sweepErr != nil {
		entry.Status = entity.CleanupStatusFailed
		entry.ErrorMessage = sweepErr.Error()
		s.log.Error().Err(sweepErr).Msg("barrido de limpieza fallido")
	}
	if err := s.cleanupRepo.Create(ctx, entry); err != nil {
		s.log.Warn().Err(err).Msg("fallo al registrar la corrida de limpieza")
	}
	return entry
}
