package service

import (
	"context"
	"strings"

	"finesse/internal/apierror"
	"finesse/internal/dto"
	"finesse/internal/listing"
	"finesse/internal/model"
	"finesse/internal/repository"
)

type AtividadeService interface {
	Listar(ctx context.Context, f dto.AtividadeFilter) (dto.PageResponse[dto.AtividadeResponse], error)
	BuscarPorID(ctx context.Context, id int64) (*dto.AtividadeResponse, error)
	Criar(ctx context.Context, req dto.AtividadeRequest) (*dto.AtividadeResponse, error)
	Atualizar(ctx context.Context, id int64, req dto.AtividadeRequest) (*dto.AtividadeResponse, error)
	AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.AtividadeResponse, error)
	Deletar(ctx context.Context, id int64) error
}

const atividadeNaoEncontrada = "Atividade não encontrada"

var atividadeComparators = map[string]listing.Comparator[model.Atividade]{
	"id":               func(a, b model.Atividade) int { return listing.Ordered(a.ID, b.ID) },
	"nome":             func(a, b model.Atividade) int { return listing.Text(a.Nome, b.Nome) },
	"cnae":             func(a, b model.Atividade) int { return listing.Text(a.Cnae, b.Cnae) },
	"aliquotaTotalPct": func(a, b model.Atividade) int { return listing.Decimal(a.AliquotaTotalPct, b.AliquotaTotalPct) },
	"issPct":           func(a, b model.Atividade) int { return listing.Decimal(a.IssPct, b.IssPct) },
	"ativo":            func(a, b model.Atividade) int { return listing.Bool(a.Ativo, b.Ativo) },
}

type atividadeService struct {
	repo     repository.AtividadeRepository
	servicos repository.ServicoRepository
}

func NewAtividadeService(repo repository.AtividadeRepository, servicos repository.ServicoRepository) AtividadeService {
	return &atividadeService{repo: repo, servicos: servicos}
}

func (s *atividadeService) Listar(ctx context.Context, f dto.AtividadeFilter) (dto.PageResponse[dto.AtividadeResponse], error) {
	titulo := strings.TrimSpace(f.Titulo)
	page, err := list(ctx, listQuery[model.Atividade]{
		query:       f.ListQuery,
		textFilter:  titulo != "",
		match:       func(a model.Atividade) bool { return listing.Contains(a.Nome, titulo) },
		ativo:       func(a model.Atividade) bool { return a.Ativo },
		comparators: atividadeComparators,
	}, s.repo.FindAll, s.repo.List, toAtividadeResponse)
	return page, fail("atividade.listar", 0, err)
}

func (s *atividadeService) BuscarPorID(ctx context.Context, id int64) (*dto.AtividadeResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("atividade.buscar", id, err, atividadeNaoEncontrada)
	}
	resp := toAtividadeResponse(*a)
	return &resp, nil
}

func (s *atividadeService) Criar(ctx context.Context, req dto.AtividadeRequest) (*dto.AtividadeResponse, error) {
	a := &model.Atividade{Ativo: true}
	if err := applyAtividade(a, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fail("atividade.criar", 0, err)
	}
	resp := toAtividadeResponse(*a)
	return &resp, nil
}

func (s *atividadeService) Atualizar(ctx context.Context, id int64, req dto.AtividadeRequest) (*dto.AtividadeResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("atividade.atualizar", id, err, atividadeNaoEncontrada)
	}
	if err := applyAtividade(a, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fail("atividade.atualizar", id, err)
	}
	resp := toAtividadeResponse(*a)
	return &resp, nil
}

func (s *atividadeService) AlterarStatus(ctx context.Context, id int64, ativo bool) (*dto.AtividadeResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr("atividade.status", id, err, atividadeNaoEncontrada)
	}
	a.Ativo = ativo
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fail("atividade.status", id, err)
	}
	resp := toAtividadeResponse(*a)
	return &resp, nil
}

func (s *atividadeService) Deletar(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr("atividade.deletar", id, err, atividadeNaoEncontrada)
	}
	n, err := s.servicos.CountByAtividade(ctx, id)
	if err != nil {
		return fail("atividade.deletar", id, err)
	}
	if n > 0 {
		return apierror.Invalid("Atividade possui serviços vinculados")
	}
	deleted, err := s.repo.Delete(ctx, id)
	if repository.IsForeignKeyViolation(err) {
		return apierror.Invalid("Atividade possui serviços vinculados")
	}
	if err != nil {
		return fail("atividade.deletar", id, err)
	}
	if !deleted {
		return apierror.NotFound(atividadeNaoEncontrada)
	}
	return nil
}

// applyAtividade copies req onto a. Omitted percentages keep the current
// value and default to zero on create.
func applyAtividade(a *model.Atividade, req dto.AtividadeRequest) error {
	nome := strings.TrimSpace(req.Nome)
	if nome == "" {
		return apierror.Invalid("Nome da atividade é obrigatório")
	}
	a.Nome = nome
	a.Cnae = strings.TrimSpace(req.Cnae)
	a.Observacao = strings.TrimSpace(req.Observacao)
	if req.AliquotaTotalPct != nil || a.ID == 0 {
		a.AliquotaTotalPct = pct(req.AliquotaTotalPct)
	}
	if req.IssPct != nil || a.ID == 0 {
		a.IssPct = pct(req.IssPct)
	}
	a.Ativo = boolOr(req.Ativo, a.Ativo)
	return nil
}

func toAtividadeResponse(a model.Atividade) dto.AtividadeResponse {
	return dto.AtividadeResponse{
		ID:               a.ID,
		Nome:             a.Nome,
		Cnae:             a.Cnae,
		AliquotaTotalPct: a.AliquotaTotalPct,
		IssPct:           a.IssPct,
		Observacao:       a.Observacao,
		Ativo:            a.Ativo,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
