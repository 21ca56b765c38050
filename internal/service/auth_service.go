package service

import (
	"context"

	"finesse/internal/apierror"
	"finesse/internal/auth"
	"finesse/internal/dto"
	"finesse/internal/model"
	"finesse/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	credenciaisInvalidas = "Email ou senha incorretos"
	refreshInvalido      = "Refresh token inválido ou expirado"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.UsuarioSessao, *dto.TokenPair, error)
	// Refresh returns a new access token. The refresh token is not rotated.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Sessao(ctx context.Context, userID int64) (*dto.UsuarioSessao, error)
}

type authService struct {
	repo   repository.UsuarioRepository
	tokens *auth.TokenProvider
}

func NewAuthService(repo repository.UsuarioRepository, tokens *auth.TokenProvider) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.UsuarioSessao, *dto.TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, nil, fail("auth.login", 0, err)
		}
		return nil, nil, apierror.Unauthorized(credenciaisInvalidas)
	}
	if !user.Ativo {
		return nil, nil, apierror.Unauthorized(credenciaisInvalidas)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(req.Senha)); err != nil {
		return nil, nil, apierror.Unauthorized(credenciaisInvalidas)
	}

	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return nil, nil, fail("auth.login", user.ID, err)
	}
	refresh, err := s.tokens.GenerateRefresh(user)
	if err != nil {
		return nil, nil, fail("auth.login", user.ID, err)
	}
	log.Info().Int64("user_id", user.ID).Msg("login realizado")
	return sessao(user), &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, auth.TypeRefresh)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token rejeitado")
		return "", apierror.Unauthorized(refreshInvalido)
	}
	id, _ := claims.UserID()
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			return "", fail("auth.refresh", id, err)
		}
		return "", apierror.Unauthorized(refreshInvalido)
	}
	if !user.Ativo {
		return "", apierror.Unauthorized(refreshInvalido)
	}
	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return "", fail("auth.refresh", id, err)
	}
	return access, nil
}

func (s *authService) Sessao(ctx context.Context, userID int64) (*dto.UsuarioSessao, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fail("auth.sessao", userID, err)
		}
		return nil, apierror.Unauthorized("Não autenticado")
	}
	if !user.Ativo {
		return nil, apierror.Unauthorized("Não autenticado")
	}
	return sessao(user), nil
}

func sessao(u *model.Usuario) *dto.UsuarioSessao {
	return &dto.UsuarioSessao{ID: u.ID, Nome: u.Nome, Email: u.Email, Roles: u.Roles()}
}
