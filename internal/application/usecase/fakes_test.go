package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
)

// Dobles en memoria para los casos de uso de administración y metadatos.

// ── UserRepository ───────────────────────────────────────────────────────────

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// ── AuditLogRepository ───────────────────────────────────────────────────────

type memAuditRepo struct {
	mu      sync.Mutex
	entries []*entity.AuditLogEntry
}

var _ repository.AuditLogRepository = (*memAuditRepo)(nil)

func (r *memAuditRepo) Create(_ context.Context, e *entity.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *memAuditRepo) CreateMany(ctx context.Context, es []*entity.AuditLogEntry) error {
	for _, e := range es {
		if err := r.Create(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *memAuditRepo) List(_ context.Context, f repository.AuditFilter, limit, offset int) ([]*entity.AuditLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditLogEntry
	for _, e := range r.entries {
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.TargetTable != "" && e.TargetTable != f.TargetTable {
			continue
		}
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── BinRepository ────────────────────────────────────────────────────────────

type memBinRepo struct {
	mu   sync.Mutex
	bins map[string]*entity.Bin // por nombre
}

var _ repository.BinRepository = (*memBinRepo)(nil)

func newMemBinRepo() *memBinRepo {
	return &memBinRepo{bins: make(map[string]*entity.Bin)}
}

func (r *memBinRepo) UpsertByName(_ context.Context, name, createdBy string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bins[name]; ok {
		if b.IsActive {
			return false, nil
		}
		b.IsActive = true
		return true, nil
	}
	r.bins[name] = &entity.Bin{
		ID:        uuid.New().String(),
		Name:      name,
		IsActive:  true,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (r *memBinRepo) GetByName(_ context.Context, name string) (*entity.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bins[name]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *memBinRepo) List(_ context.Context, includeInactive bool) ([]*entity.Bin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Bin
	for _, b := range r.bins {
		if !b.IsActive && !includeInactive {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memBinRepo) Rename(_ context.Context, id, newName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, b := range r.bins {
		if b.ID == id {
			delete(r.bins, name)
			b.Name = newName
			r.bins[newName] = b
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memBinRepo) Deactivate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bins {
		if b.ID == id {
			b.IsActive = false
			return nil
		}
	}
	return domain.ErrNotFound
}

// ── MetadataRepository ───────────────────────────────────────────────────────

type memMetaRepo struct {
	mu    sync.Mutex
	items map[string][]*entity.MetadataItem // por tipo
}

var _ repository.MetadataRepository = (*memMetaRepo)(nil)

func newMemMetaRepo() *memMetaRepo {
	return &memMetaRepo{items: make(map[string][]*entity.MetadataItem)}
}

func (r *memMetaRepo) List(_ context.Context, metaType string) ([]*entity.MetadataItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.MetadataItem, 0, len(r.items[metaType]))
	for _, it := range r.items[metaType] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memMetaRepo) Create(_ context.Context, metaType, name string) (*entity.MetadataItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items[metaType] {
		if it.Name == name {
			return nil, domain.ErrDuplicate
		}
	}
	item := &entity.MetadataItem{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	r.items[metaType] = append(r.items[metaType], item)
	cp := *item
	return &cp, nil
}

func (r *memMetaRepo) Rename(_ context.Context, metaType, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items[metaType] {
		if it.ID == id {
			it.Name = name
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memMetaRepo) Delete(_ context.Context, metaType, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.items[metaType]
	for i, it := range list {
		if it.ID == id {
			r.items[metaType] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// seedMemUser inserta un usuario directo al repo.
func seedMemUser(r *memUserRepo, n int, role, status string) *entity.User {
	u := &entity.User{
		ID:     fmt.Sprintf("00000000-0000-0000-0000-%012d", n),
		Email:  fmt.Sprintf("usuario%d@almacen.mx", n),
		Name:   fmt.Sprintf("Usuario %d", n),
		Role:   role,
		Status: status,
	}
	_ = r.Create(context.Background(), u)
	return u
}

func adminActor() entity.ActorRef {
	return entity.ActorRef{ID: "00000000-0000-0000-0000-000000000099", Name: "Admin de Prueba"}
}
