package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dfmorales/almacen-api/internal/application/auth"
	"github.com/dfmorales/almacen-api/internal/application/dto"
	"github.com/dfmorales/almacen-api/internal/domain"
	"github.com/dfmorales/almacen-api/internal/domain/entity"
	"github.com/dfmorales/almacen-api/internal/domain/repository"
	"github.com/dfmorales/almacen-api/pkg/jwt"
)

const (
	testSecret = "secreto-de-prueba-auth"
	testIssuer = "almacen-api-test"
)

// fakeUserRepo repositorio de usuarios en memoria.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // por id
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
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

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func newAuthUC(repo *fakeUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: testIssuer})
}

// seedUser crea un usuario directo en el repo con la contraseña hasheada.
func seedUser(t *testing.T, repo *fakeUserRepo, email, password, role, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Usuario de Prueba",
		Role:         role,
		Status:       status,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_QuedaPendienteConRolOperador(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)

	resp, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "  Nuevo@Almacen.MX ",
		Password: "secreta1",
		Name:     "Nuevo Operador",
	})
	require.NoError(t, err)

	assert.Equal(t, "nuevo@almacen.mx", resp.Email, "email normalizado")
	assert.Equal(t, entity.RoleOperador, resp.Role)
	assert.Equal(t, entity.UserStatusPending, resp.Status)
	assert.NotEmpty(t, resp.ID)

	stored, err := repo.FindByEmail(context.Background(), "nuevo@almacen.mx")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreta1", stored.PasswordHash, "la contraseña nunca se guarda en claro")
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	seedUser(t, repo, "dup@almacen.mx", "secreta1", entity.RoleOperador, entity.UserStatusActive)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "DUP@almacen.mx",
		Password: "secreta1",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_EntradaInvalida(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "email vacío")

	_, err = uc.RegisterUser(context.Background(), dto.RegisterRequest{Email: "a@b.mx", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "contraseña menor a 6 caracteres")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_UsuarioActivo_DevuelveTokenValido(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	u := seedUser(t, repo, "activo@almacen.mx", "secreta1", entity.RoleAdmin, entity.UserStatusActive)

	resp, err := uc.Login(context.Background(), dto.LoginRequest{Email: "activo@almacen.mx", Password: "secreta1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, u.Email, resp.User.Email)

	userID, name, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, u.Name, name)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	seedUser(t, repo, "activo@almacen.mx", "secreta1", entity.RoleOperador, entity.UserStatusActive)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "activo@almacen.mx", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "contraseña incorrecta")

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@almacen.mx", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "usuario inexistente")
}

func TestLogin_CuentaNoActiva(t *testing.T) {
	for _, status := range []string{entity.UserStatusPending, entity.UserStatusSuspended} {
		repo := newFakeUserRepo()
		uc := newAuthUC(repo)
		seedUser(t, repo, "cuenta@almacen.mx", "secreta1", entity.RoleOperador, status)

		_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "cuenta@almacen.mx", Password: "secreta1"})
		assert.ErrorIs(t, err, domain.ErrUserNotActive, status)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestMe_DevuelvePerfilSinHash(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUC(repo)
	u := seedUser(t, repo, "yo@almacen.mx", "secreta1", entity.RoleOperador, entity.UserStatusActive)

	resp, err := uc.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, resp.Email)
	assert.Equal(t, u.Name, resp.Name)
}

func TestMe_UsuarioInexistente(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo())

	_, err := uc.Me(context.Background(), "99999999-9999-9999-9999-999999999999")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
