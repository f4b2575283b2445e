package service

import (
	"context"
	"errors"
	"time"

	"portalcaja/internal/dto"
	"portalcaja/internal/middleware"
	"portalcaja/internal/model"
	"portalcaja/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrCredencialesInvalidas = errors.New("Usuario o contraseña incorrectos")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
}

type authService struct {
	usuarios      repository.UsuarioRepository
	secret        string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(usuarios repository.UsuarioRepository, secret string, accessHours, refreshHours int) AuthService {
	return &authService{
		usuarios:      usuarios,
		secret:        secret,
		accessExpiry:  time.Duration(accessHours) * time.Hour,
		refreshExpiry: time.Duration(refreshHours) * time.Hour,
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := s.usuarios.FindByUsername(ctx, req.Username)
	if err != nil {
		// Same error for unknown user and bad password.
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}
	return s.issueTokens(usuario)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("Token invalido o expirado")
	}

	usuario, err := s.usuarios.FindByUsername(ctx, claims.Username)
	if err != nil {
		return nil, ErrCredencialesInvalidas
	}
	return s.issueTokens(usuario)
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if existing, err := s.usuarios.FindByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, errors.New("el nombre de usuario ya existe")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	usuario := &model.Usuario{
		Username:     req.Username,
		PasswordHash: string(hash),
		Nombre:       req.Nombre,
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.usuarios.Create(ctx, usuario); err != nil {
		return nil, err
	}
	resp := buildUsuarioResponse(usuario)
	return &resp, nil
}

func (s *authService) ListUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	usuarios, err := s.usuarios.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(usuarios))
	for i := range usuarios {
		out = append(out, buildUsuarioResponse(&usuarios[i]))
	}
	return out, nil
}

func (s *authService) issueTokens(usuario *model.Usuario) (*dto.LoginResponse, error) {
	access, err := s.sign(usuario, s.accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(usuario, s.refreshExpiry)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Usuario:      buildUsuarioResponse(usuario),
	}, nil
}

func (s *authService) sign(usuario *model.Usuario, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:   usuario.ID.String(),
		Username: usuario.Username,
		Rol:      usuario.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			Subject:   usuario.ID.String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func buildUsuarioResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
}
