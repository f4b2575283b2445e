package service

import (
	"context"
	"errors"
	"testing"

	"portalcaja/internal/dto"
	"portalcaja/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) conPassword(t *testing.T, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		ID: uuid.New(), Username: username, PasswordHash: string(hash),
		Nombre: "Test", Rol: rol, Activo: true,
	}
	r.usuarios[u.ID] = u
	return u
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo || incluirInactivos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func TestLogin(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.conPassword(t, "cajero@demo.pe", "secreto123", "cajero")
	svc := NewAuthService(repo, "test-secret", 8, 72)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero@demo.pe", Password: "secreto123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "cajero", resp.Usuario.Rol)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.conPassword(t, "cajero@demo.pe", "secreto123", "cajero")
	svc := NewAuthService(repo, "test-secret", 8, 72)

	_, errPassword := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero@demo.pe", Password: "otra"})
	_, errUsuario := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie@demo.pe", Password: "secreto123"})

	// Same error for bad password and unknown user.
	assert.ErrorIs(t, errPassword, ErrCredencialesInvalidas)
	assert.ErrorIs(t, errUsuario, ErrCredencialesInvalidas)
}

func TestRefreshEmiteNuevosTokens(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.conPassword(t, "cajero@demo.pe", "secreto123", "cajero")
	svc := NewAuthService(repo, "test-secret", 8, 72)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero@demo.pe", Password: "secreto123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.Usuario.ID, refreshed.Usuario.ID)
}

func TestRefreshTokenInvalido(t *testing.T) {
	svc := NewAuthService(newFakeUsuarioRepo(), "test-secret", 8, 72)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
}

func TestCrearUsuarioDuplicado(t *testing.T) {
	repo := newFakeUsuarioRepo()
	repo.conPassword(t, "cajero@demo.pe", "secreto123", "cajero")
	svc := NewAuthService(repo, "test-secret", 8, 72)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "cajero@demo.pe", Password: "otropass123", Nombre: "Otro", Rol: "cajero",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ya existe")
}

func TestCrearUsuarioNoGuardaElPasswordEnClaro(t *testing.T) {
	repo := newFakeUsuarioRepo()
	svc := NewAuthService(repo, "test-secret", 8, 72)

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "nuevo@demo.pe", Password: "secreto123", Nombre: "Nuevo", Rol: "supervisor",
	})
	require.NoError(t, err)

	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	guardado := repo.usuarios[id]
	assert.NotEqual(t, "secreto123", guardado.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(guardado.PasswordHash), []byte("secreto123")))
}
