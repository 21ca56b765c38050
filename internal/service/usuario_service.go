package service

import (
	"context"
	"strings"
	"unicode"

	"finesse/internal/apierror"
	"finesse/internal/dto"
	"finesse/internal/listing"
	"finesse/internal/model"
	"finesse/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UsuarioService interface {
	ListarTodos(ctx context.Context) ([]dto.UsuarioResponse, error)
	ListarAtivos(ctx context.Context) ([]dto.UsuarioResponse, error)
	BuscarPorID(ctx context.Context, id int64) (*dto.UsuarioResponse, error)
	BuscarPorEmail(ctx context.Context, email string) (*dto.UsuarioResponse, error)
	BuscarPorNome(ctx context.Context, nome string) ([]dto.UsuarioResponse, error)
	Criar(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error)
	Atualizar(ctx context.Context, id int64, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	AlterarSenha(ctx context.Context, id int64, novaSenha string) error
	AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.UsuarioResponse, error)
	// Deletar removes a user. atorID is the authenticated caller, who may not delete itself.
	Deletar(ctx context.Context, id, atorID int64) error
	Estatisticas(ctx context.Context) (*dto.EstatisticasUsuariosResponse, error)
}

const (
	usuarioNaoEncontrado = "Usuário não encontrado"
	senhaFraca           = "Senha fraca: mínimo 8 caracteres com maiúscula, minúscula, número e especial"
	senhaLonga           = "Senha muito longa: máximo 72 bytes"
	emailJaCadastrado    = "Email já cadastrado"
)

type usuarioService struct {
	repo       repository.UsuarioRepository
	bcryptCost int
}

func NewUsuarioService(repo repository.UsuarioRepository, bcryptCost int) UsuarioService {
	if bcryptCost == 0 {
		bcryptCost = 12
	}
	return &usuarioService{repo: repo, bcryptCost: bcryptCost}
}

func (s *usuarioService) ListarTodos(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fail("usuario.listar", 0, err)
	}
	return toUsuarioResponses(users), nil
}

func (s *usuarioService) ListarAtivos(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.ListAtivos(ctx)
	if err != nil {
		return nil, fail("usuario.listar_ativos", 0, err)
	}
	return toUsuarioResponses(users), nil
}

func (s *usuarioService) BuscarPorID(ctx context.Context, id int64) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("usuario.buscar", id, err, usuarioNaoEncontrado)
	}
	resp := toUsuarioResponse(*u)
	return &resp, nil
}

func (s *usuarioService) BuscarPorEmail(ctx context.Context, email string) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr("usuario.buscar_email", 0, err, usuarioNaoEncontrado)
	}
	resp := toUsuarioResponse(*u)
	return &resp, nil
}

func (s *usuarioService) BuscarPorNome(ctx context.Context, nome string) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fail("usuario.buscar_nome", 0, err)
	}
	return toUsuarioResponses(listing.Filter(users, func(u model.Usuario) bool {
		return listing.Contains(u.Nome, nome)
	})), nil
}

func (s *usuarioService) Criar(ctx context.Context, req dto.CriarUsuarioRequest) (*dto.UsuarioResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, apierror.Invalid("Email é obrigatório")
	}
	if err := validarSenha(req.Senha); err != nil {
		return nil, err
	}
	perfil := model.PerfilVisualizador
	if strings.TrimSpace(req.Perfil) != "" {
		p, err := model.ParsePerfil(req.Perfil)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		perfil = p
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fail("usuario.criar", 0, err)
	}
	if exists {
		return nil, apierror.Invalid(emailJaCadastrado)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), s.bcryptCost)
	if err != nil {
		return nil, fail("usuario.criar", 0, err)
	}
	u := &model.Usuario{
		Nome:      strings.TrimSpace(req.Nome),
		Email:     email,
		SenhaHash: string(hash),
		Perfil:    perfil,
		Ativo:     true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if repository.IsUniqueViolation(err, "") {
			return nil, apierror.Invalid(emailJaCadastrado)
		}
		return nil, fail("usuario.criar", 0, err)
	}
	resp := toUsuarioResponse(*u)
	return &resp, nil
}

func (s *usuarioService) Atualizar(ctx context.Context, id int64, req dto.AtualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("usuario.atualizar", id, err, usuarioNaoEncontrado)
	}
	if email := normalizeEmail(req.Email); email != "" && email != u.Email {
		return nil, apierror.Invalid("Alteração de email não suportada neste endpoint")
	}
	if nome := strings.TrimSpace(req.Nome); nome != "" {
		u.Nome = nome
	}
	if strings.TrimSpace(req.Perfil) != "" {
		p, err := model.ParsePerfil(req.Perfil)
		if err != nil {
			return nil, apierror.Invalid(err.Error())
		}
		u.Perfil = p
	}
	u.Ativo = boolOr(req.Ativo, u.Ativo)

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fail("usuario.atualizar", id, err)
	}
	resp := toUsuarioResponse(*u)
	return &resp, nil
}

func (s *usuarioService) AlterarSenha(ctx context.Context, id int64, novaSenha string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFoundOr("usuario.senha", id, err, usuarioNaoEncontrado)
	}
	if err := validarSenha(novaSenha); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(novaSenha), s.bcryptCost)
	if err != nil {
		return fail("usuario.senha", id, err)
	}
	u.SenhaHash = string(hash)
	return fail("usuario.senha", id, s.repo.Update(ctx, u))
}

func (s *usuarioService) AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("usuario.status", id, err, usuarioNaoEncontrado)
	}
	u.Ativo = ativo
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fail("usuario.status", id, err)
	}
	resp := toUsuarioResponse(*u)
	return &resp, nil
}

func (s *usuarioService) Deletar(ctx context.Context, id, atorID int64) error {
	if id == atorID {
		return apierror.Invalid("Você não pode deletar sua própria conta")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fail("usuario.deletar", id, err)
	}
	if !deleted {
		return apierror.NotFound(usuarioNaoEncontrado)
	}
	return nil
}

func (s *usuarioService) Estatisticas(ctx context.Context) (*dto.EstatisticasUsuariosResponse, error) {
	const op = "usuario.estatisticas"
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fail(op, 0, err)
	}
	ativos, err := s.repo.CountAtivos(ctx)
	if err != nil {
		return nil, fail(op, 0, err)
	}
	admins, err := s.repo.CountByPerfil(ctx, model.PerfilAdmin)
	if err != nil {
		return nil, fail(op, 0, err)
	}
	visualizadores, err := s.repo.CountByPerfil(ctx, model.PerfilVisualizador)
	if err != nil {
		return nil, fail(op, 0, err)
	}
	return &dto.EstatisticasUsuariosResponse{
		Total:          total,
		Ativos:         ativos,
		Inativos:       total - ativos,
		Admins:         admins,
		Visualizadores: visualizadores,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validarSenha rejects weak passwords and those bcrypt cannot hash.
func validarSenha(s string) error {
	if len(s) > maxSenhaBytes {
		return apierror.Invalid(senhaLonga)
	}
	if !senhaForte(s) {
		return apierror.Invalid(senhaFraca)
	}
	return nil
}

// maxSenhaBytes is the bcrypt input limit.
const maxSenhaBytes = 72

// senhaForte requires at least 8 characters with upper, lower, digit and symbol.
func senhaForte(s string) bool {
	if len([]rune(s)) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func toUsuarioResponse(u model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:      u.ID,
		Nome:    u.Nome,
		Email:   u.Email,
		Ativo:   u.Ativo,
		Perfil:  string(u.Perfil),
		IsAdmin: u.IsAdmin(),
	}
}

func toUsuarioResponses(users []model.Usuario) []dto.UsuarioResponse {
	out := make([]dto.UsuarioResponse, len(users))
	for i, u := range users {
		out[i] = toUsuarioResponse(u)
	}
	return out
}
