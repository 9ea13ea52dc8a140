package inventory_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// fakeStore estado en memoria compartido por los repositorios fake. Reproduce
// la semántica de las sentencias reales: Increase hace upsert, Decrease es
// condicional y nunca deja cantidades negativas.
type fakeStore struct {
	mu       sync.Mutex
	inv      map[string]*entity.InventoryRecord // clave "sku|bin"
	insets   []*entity.InsetRecord
	outsets  map[string]*entity.OutsetRecord
	bins     map[string]*entity.Bin
	audits   []*entity.AuditLogEntry
	cleanups []*entity.CleanupLogEntry

	dormantErr error // fuerza fallo de SelectDormant en tests de limpieza
	insetErr   error // fuerza fallo de UpsertImport en tests de importación
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		inv:     make(map[string]*entity.InventoryRecord),
		outsets: make(map[string]*entity.OutsetRecord),
		bins:    make(map[string]*entity.Bin),
	}
}

func invKey(sku, bin string) string { return sku + "|" + bin }

// seed carga una fila de inventario directamente (sin pasar por el caso de uso).
func (s *fakeStore) seed(sku, bin string, qty int64, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv[invKey(sku, bin)] = &entity.InventoryRecord{
		ID:        uuid.New().String(),
		SKUID:     sku,
		Bin:       bin,
		Name:      "Item " + sku,
		Quantity:  qty,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
	}
}

// remove elimina una fila de inventario directamente, como lo haría el barrido.
func (s *fakeStore) remove(sku, bin string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inv, invKey(sku, bin))
}

func (s *fakeStore) quantity(sku, bin string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.inv[invKey(sku, bin)]; ok {
		return rec.Quantity
	}
	return -1
}

// ── InventoryRepository ──────────────────────────────────────────────────────

type fakeInventoryRepo struct{ s *fakeStore }

var _ repository.InventoryRepository = (*fakeInventoryRepo)(nil)

func (r *fakeInventoryRepo) Get(_ context.Context, sku, bin string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.inv[invKey(sku, bin)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeInventoryRepo) Increase(_ context.Context, sku, bin string, qty int64, name string) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.inv[invKey(sku, bin)]
	if !ok {
		rec = &entity.InventoryRecord{
			ID:        uuid.New().String(),
			SKUID:     sku,
			Bin:       bin,
			Name:      name,
			CreatedAt: time.Now(),
		}
		r.s.inv[invKey(sku, bin)] = rec
	}
	rec.Quantity += qty
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (r *fakeInventoryRepo) Decrease(_ context.Context, sku, bin string, qty int64) (*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.inv[invKey(sku, bin)]
	if !ok {
		return nil, domain.ErrUnknownItem
	}
	if rec.Quantity < qty {
		return nil, domain.ErrInsufficientStock
	}
	rec.Quantity -= qty
	rec.UpdatedAt = time.Now()
	cp := *rec
	return &cp, nil
}

func (r *fakeInventoryRepo) ListInStock(_ context.Context, f repository.InventoryFilter, limit, offset int) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryRecord
	for _, rec := range r.s.inv {
		if rec.Quantity <= 0 {
			continue
		}
		if f.SKUID != "" && rec.SKUID != f.SKUID {
			continue
		}
		if f.Bin != "" && rec.Bin != f.Bin {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return invKey(out[i].SKUID, out[i].Bin) < invKey(out[j].SKUID, out[j].Bin)
	})
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeInventoryRepo) ListBySKU(_ context.Context, sku string) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryRecord
	for _, rec := range r.s.inv {
		if rec.SKUID == sku {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bin < out[j].Bin })
	return out, nil
}

func (r *fakeInventoryRepo) GetManyForUpdate(_ context.Context, pairs []repository.SKUBin) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryRecord
	for _, p := range pairs {
		if rec, ok := r.s.inv[invKey(p.SKUID, p.Bin)]; ok {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) BulkAdjust(_ context.Context, deltas []repository.StockDelta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range deltas {
		if rec, ok := r.s.inv[invKey(d.SKUID, d.Bin)]; ok {
			rec.Quantity += d.Delta
			rec.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (r *fakeInventoryRepo) SelectDormant(_ context.Context, cutoff time.Time) ([]*entity.InventoryRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.dormantErr != nil {
		return nil, r.s.dormantErr
	}
	var out []*entity.InventoryRecord
	for _, rec := range r.s.inv {
		if rec.Quantity == 0 && rec.UpdatedAt.Before(cutoff) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for key, rec := range r.s.inv {
		for _, id := range ids {
			if rec.ID == id {
				delete(r.s.inv, key)
				removed++
				break
			}
		}
	}
	return removed, nil
}

// ── InsetRepository ──────────────────────────────────────────────────────────

type fakeInsetRepo struct{ s *fakeStore }

var _ repository.InsetRepository = (*fakeInsetRepo)(nil)

func (r *fakeInsetRepo) Create(_ context.Context, rec *entity.InsetRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, have := range r.s.insets {
		if have.SKU == rec.SKU && have.Bin == rec.Bin && have.OrderNo == rec.OrderNo {
			return domain.ErrDuplicate
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	cp := *rec
	r.s.insets = append(r.s.insets, &cp)
	return nil
}

func (r *fakeInsetRepo) List(_ context.Context, f repository.InsetFilter, limit, offset int) ([]*entity.InsetRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InsetRecord
	for _, rec := range r.s.insets {
		if f.SKU != "" && rec.SKU != f.SKU {
			continue
		}
		if f.Bin != "" && rec.Bin != f.Bin {
			continue
		}
		if f.OrderNo != "" && rec.OrderNo != f.OrderNo {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeInsetRepo) UpsertImport(_ context.Context, rec *entity.InsetRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.insetErr != nil {
		return r.s.insetErr
	}
	for _, have := range r.s.insets {
		if have.SKU == rec.SKU && have.Bin == rec.Bin && have.OrderNo == rec.OrderNo {
			have.Quantity += rec.Quantity
			return nil
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	cp := *rec
	r.s.insets = append(r.s.insets, &cp)
	return nil
}

// ── OutsetRepository ─────────────────────────────────────────────────────────

type fakeOutsetRepo struct{ s *fakeStore }

var _ repository.OutsetRepository = (*fakeOutsetRepo)(nil)

func (r *fakeOutsetRepo) Create(_ context.Context, rec *entity.OutsetRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	cp := *rec
	r.s.outsets[rec.ID] = &cp
	return nil
}

func (r *fakeOutsetRepo) CreateMany(ctx context.Context, recs []*entity.OutsetRecord) error {
	for _, rec := range recs {
		if err := r.Create(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeOutsetRepo) GetByID(_ context.Context, id string) (*entity.OutsetRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.outsets[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeOutsetRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.outsets, id)
	return nil
}

func (r *fakeOutsetRepo) List(_ context.Context, f repository.OutsetFilter, limit, offset int) ([]*entity.OutsetRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OutsetRecord
	for _, rec := range r.s.outsets {
		if f.SKUID != "" && rec.SKUID != f.SKUID {
			continue
		}
		if f.InvoiceNo != "" && rec.InvoiceNo != f.InvoiceNo {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeOutsetRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.OutsetRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OutsetRecord
	for _, rec := range r.s.outsets {
		if rec.BatchID != nil && *rec.BatchID == batchID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return invKey(out[i].SKUID, out[i].Bin) < invKey(out[j].SKUID, out[j].Bin)
	})
	return out, nil
}

func (r *fakeOutsetRepo) DeleteByBatch(_ context.Context, batchID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var removed int64
	for id, rec := range r.s.outsets {
		if rec.BatchID != nil && *rec.BatchID == batchID {
			delete(r.s.outsets, id)
			removed++
		}
	}
	return removed, nil
}

// ── BinRepository ────────────────────────────────────────────────────────────

type fakeBinRepo struct{ s *fakeStore }

var _ repository.BinRepository = (*fakeBinRepo)(nil)

func (r *fakeBinRepo) UpsertByName(_ context.Context, name, createdBy string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bins[name]; ok {
		if b.IsActive {
			return false, nil
		}
		b.IsActive = true
		return true, nil
	}
	r.s.bins[name] = &entity.Bin{
		ID:        uuid.New().String(),
		Name:      name,
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (r *fakeBinRepo) GetByName(_ context.Context, name string) (*entity.Bin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bins[name]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBinRepo) List(_ context.Context, includeInactive bool) ([]*entity.Bin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Bin
	for _, b := range r.s.bins {
		if !b.IsActive && !includeInactive {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeBinRepo) Rename(_ context.Context, id, newName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for name, b := range r.s.bins {
		if b.ID == id {
			delete(r.s.bins, name)
			b.Name = newName
			r.s.bins[newName] = b
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeBinRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bins {
		if b.ID == id {
			b.IsActive = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── AuditLogRepository ───────────────────────────────────────────────────────

type fakeAuditRepo struct{ s *fakeStore }

var _ repository.AuditLogRepository = (*fakeAuditRepo)(nil)

func (r *fakeAuditRepo) Create(_ context.Context, e *entity.AuditLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.audits = append(r.s.audits, &cp)
	return nil
}

func (r *fakeAuditRepo) CreateMany(ctx context.Context, es []*entity.AuditLogEntry) error {
	for _, e := range es {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeAuditRepo) List(_ context.Context, f repository.AuditFilter, limit, offset int) ([]*entity.AuditLogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AuditLogEntry
	for _, e := range r.s.audits {
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

// ── CleanupLogRepository ─────────────────────────────────────────────────────

type fakeCleanupRepo struct{ s *fakeStore }

var _ repository.CleanupLogRepository = (*fakeCleanupRepo)(nil)

func (r *fakeCleanupRepo) Create(_ context.Context, e *entity.CleanupLogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *e
	r.s.cleanups = append(r.s.cleanups, &cp)
	return nil
}

func (r *fakeCleanupRepo) List(_ context.Context, limit, offset int) ([]*entity.CleanupLogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.CleanupLogEntry, 0, len(r.s.cleanups))
	for i := len(r.s.cleanups) - 1; i >= 0; i-- {
		cp := *r.s.cleanups[i]
		out = append(out, &cp)
	}
	return out, nil
}

// ── TxRunner ─────────────────────────────────────────────────────────────────

// fakeTxRunner ejecuta la función con los repos fake, sin transacción real.
// Los casos de uso validan antes de mutar, así que un fallo a mitad del fn no
// deja estado parcial en estos escenarios.
type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	insetRepo repository.InsetRepository,
	outsetRepo repository.OutsetRepository,
	binRepo repository.BinRepository,
) error) error {
	return fn(&fakeInventoryRepo{t.s}, &fakeInsetRepo{t.s}, &fakeOutsetRepo{t.s}, &fakeBinRepo{t.s})
}

// testActor usuario de prueba para movimientos y auditoría.
func testActor() entity.ActorRef {
	return entity.ActorRef{ID: "00000000-0000-0000-0000-000000000001", Name: "Usuario de Prueba"}
}

// auditActions acciones registradas, en orden.
func (s *fakeStore) auditActions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.audits))
	for _, e := range s.audits {
		out = append(out, e.Action)
	}
	return out
}

// hasAudit true si hay al menos una entrada con esa acción.
func (s *fakeStore) hasAudit(action string) bool {
	for _, a := range s.auditActions() {
		if strings.EqualFold(a, action) {
			return true
		}
	}
	return false
}
